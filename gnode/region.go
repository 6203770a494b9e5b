package gnode

// Region is the GFF3 "##sequence-region" directive variant (spec §3).
type Region struct {
	Header
}

// NewRegion constructs a region node for seqid over the declared range.
func NewRegion(seqid string, rng Range) *Region {
	return &Region{Header: newHeader(seqid, true, rng)}
}

func (r *Region) Kind() Kind { return KindRegion }

func (r *Region) Ref() Node {
	r.rc.Ref()
	return r
}

func (r *Region) Release() {
	r.rc.Release()
}

func (r *Region) Seqid() (string, bool) { return r.seqid, r.hasSeqid }

func (r *Region) IDString() string { return r.seqid }

func (r *Region) Range() Range { return r.rng }

func (r *Region) SetRange(rng Range) { r.rng = rng }

func (r *Region) ChangeSeqid(s string) { r.seqid = s; r.hasSeqid = true }

func (r *Region) Accept(v *Visitor) error {
	return dispatch(r, v.OnRegion)
}
