package gnode

// Meta is a "##…" directive other than ##sequence-region (spec §3):
// e.g. "##gff-version", "##genome-build". Directive and Payload are
// re-emitted verbatim by the GFF3 writer (spec §6).
type Meta struct {
	Header
	Directive string
	Payload   string
}

// NewMeta constructs a meta node for directive with its raw payload.
func NewMeta(directive, payload string) *Meta {
	return &Meta{Header: newHeader("", false, Range{}), Directive: directive, Payload: payload}
}

func (m *Meta) Kind() Kind { return KindMeta }

func (m *Meta) Ref() Node {
	m.rc.Ref()
	return m
}

func (m *Meta) Release() {
	m.rc.Release()
}

func (m *Meta) Seqid() (string, bool) { return "", false }

func (m *Meta) IDString() string { return "" }

func (m *Meta) Range() Range { return m.rng }

func (m *Meta) Accept(v *Visitor) error {
	return dispatch(m, v.OnMeta)
}
