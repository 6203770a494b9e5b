package gnode

// EOF is the end-of-input sentinel variant (spec §3). Streams that
// reach their end return (nil, nil) from Next rather than an EOF node
// (spec §4.2); EOF exists so visitors have a dedicated slot for the
// "end of input" event when one is explicitly propagated as a node,
// e.g. by adapters that synthesize a trailing node for symmetry with
// the original C union of node kinds.
type EOF struct {
	Header
}

// NewEOF constructs an end-of-file sentinel node.
func NewEOF() *EOF {
	return &EOF{Header: newHeader("", false, Range{})}
}

func (e *EOF) Kind() Kind { return KindEOF }

func (e *EOF) Ref() Node {
	e.rc.Ref()
	return e
}

func (e *EOF) Release() {
	e.rc.Release()
}

func (e *EOF) Seqid() (string, bool) { return "", false }

func (e *EOF) IDString() string { return "" }

func (e *EOF) Range() Range { return e.rng }

func (e *EOF) Accept(v *Visitor) error {
	return dispatch(e, v.OnEOF)
}
