package gnode

// Comment is a "#" line (spec §3). It carries no real seqid; IDString
// returns a synthetic empty id so Compare sorts comment and meta nodes
// after every node that does carry a seqid, regardless of case.
type Comment struct {
	Header
	Text string
}

// NewComment constructs a comment node with the given text.
func NewComment(text string) *Comment {
	return &Comment{Header: newHeader("", false, Range{}), Text: text}
}

func (c *Comment) Kind() Kind { return KindComment }

func (c *Comment) Ref() Node {
	c.rc.Ref()
	return c
}

func (c *Comment) Release() {
	c.rc.Release()
}

func (c *Comment) Seqid() (string, bool) { return "", false }

func (c *Comment) IDString() string { return "" }

func (c *Comment) Range() Range { return c.rng }

func (c *Comment) Accept(v *Visitor) error {
	return dispatch(c, v.OnComment)
}
