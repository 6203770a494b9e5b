package gstream

import (
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/encseq"
)

// spliceProbTable assigns a canonical-vs-noncanonical score to the two
// dinucleotides flanking an intron, grounded on genometools'
// splice_site_info_visitor.c (SPEC_FULL.md §4): GT-AG introns score 1.0,
// GC-AG score 0.9, AT-AC score 0.7 (the three well-documented spliceosomal
// classes), anything else scores 0.1.
var spliceProbTable = map[[2]string]float64{
	{"GT", "AG"}: 1.0,
	{"GC", "AG"}: 0.9,
	{"AT", "AC"}: 0.7,
}

const defaultSpliceProb = 0.1

// spliceProbAttr is the attribute key NewSpliceSiteInfoStream records
// each intron's computed probability under, consumed by Criteria's
// min-average-splice-site-probability bound.
const spliceProbAttr = "__splice_prob"

// NewSpliceSiteInfoStream is the *splice-site-info* visitor-driven
// transform (spec §4.3): for every intron child, fetches the two
// flanking donor/acceptor dinucleotides from seqs and records a
// canonical-site probability as an internal attribute.
func NewSpliceSiteInfoStream(upstream Stream, seqs encseq.Provider, debugChecks bool) Stream {
	v := gnode.NewVisitor()
	v.OnFeature = func(f *gnode.Feature) error {
		annotateSpliceSites(f, seqs)
		return nil
	}
	return newVisitorStream(upstream, v, debugChecks, nil, nil)
}

func annotateSpliceSites(f *gnode.Feature, seqs encseq.Provider) {
	for _, c := range f.Children() {
		annotateSpliceSites(c, seqs)
		if c.Type != "intron" {
			continue
		}
		seqid, ok := c.Seqid()
		if !ok {
			continue
		}
		rng := c.Range()
		donor, errD := seqs.Fetch(seqid, rng.Start-1, rng.Start+1)
		acceptor, errA := seqs.Fetch(seqid, rng.End-2, rng.End)
		if errD != nil || errA != nil {
			continue
		}
		key := [2]string{string(donor), string(acceptor)}
		prob, ok := spliceProbTable[key]
		if !ok {
			prob = defaultSpliceProb
		}
		c.Attrs.Set(spliceProbAttr, gnode.NewScalarAttr(formatProb(prob)))
	}
}

func formatProb(p float64) string {
	const digits = "0123456789"
	i := int(p * 100)
	if i < 0 {
		i = 0
	}
	buf := [4]byte{digits[i/100%10], '.', digits[i/10%10], digits[i%10]}
	return string(buf[:])
}

// averageSpliceProbability returns the mean canonical-site probability
// across f's intron children, as recorded by NewSpliceSiteInfoStream.
// It reports false if f has no introns carrying the annotation.
func averageSpliceProbability(f *gnode.Feature) (float64, bool) {
	var sum float64
	var n int
	for _, c := range f.Children() {
		if c.Type != "intron" {
			continue
		}
		v, ok := c.Attrs.Get(spliceProbAttr)
		if !ok {
			continue
		}
		sum += parseProb(v.Scalar())
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func parseProb(s string) float64 {
	var whole, frac int
	i := 0
	for i < len(s) && s[i] != '.' {
		whole = whole*10 + int(s[i]-'0')
		i++
	}
	i++ // skip '.'
	div := 1.0
	for ; i < len(s); i++ {
		frac = frac*10 + int(s[i]-'0')
		div *= 10
	}
	return float64(whole) + float64(frac)/div
}
