// Package encseq is the opaque encoded-sequence file format named in
// spec.md §1: "a random-access byte-to-symbol provider". The
// sequence-node-add transform (gstream) and the wavelet tree driver
// (package wavelet) both consume it without knowing how sequences are
// stored on disk.
package encseq

import "fmt"

// Provider is the minimal contract consumers need: map a seqid to its
// length and fetch an arbitrary subrange as raw symbols.
type Provider interface {
	// Length returns the number of symbols stored for seqid.
	Length(seqid string) (int, bool)
	// Fetch returns symbols [start,end) (0-based, half-open) for seqid.
	Fetch(seqid string, start, end int) ([]byte, error)
}

// MemProvider is an in-memory Provider, used by the tests. The
// sequence-node-add transform accepts any Provider and does not choose
// between implementations itself.
type MemProvider struct {
	seqs map[string][]byte
}

// NewMemProvider wraps seqs (seqid -> full sequence) as a Provider.
func NewMemProvider(seqs map[string][]byte) *MemProvider {
	cp := make(map[string][]byte, len(seqs))
	for k, v := range seqs {
		b := make([]byte, len(v))
		copy(b, v)
		cp[k] = b
	}
	return &MemProvider{seqs: cp}
}

func (p *MemProvider) Length(seqid string) (int, bool) {
	s, ok := p.seqs[seqid]
	if !ok {
		return 0, false
	}
	return len(s), true
}

func (p *MemProvider) Fetch(seqid string, start, end int) ([]byte, error) {
	s, ok := p.seqs[seqid]
	if !ok {
		return nil, fmt.Errorf("encseq: unknown seqid %q", seqid)
	}
	if start < 0 || end > len(s) || start > end {
		return nil, fmt.Errorf("encseq: range [%d,%d) out of bounds for %q (len %d)", start, end, seqid, len(s))
	}
	return s[start:end], nil
}
