package gnode

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// foldCaser case-folds feature type tags the same way eutils/xplore.go
// folds case before tag comparison, so "cds", "CDS", and "Cds" all
// resolve to the same entry in the allow-list below.
var foldCaser = cases.Lower(language.Und)

func foldKey(s string) string {
	return foldCaser.String(s)
}

// TypeChecker validates feature type tags against a controlled
// vocabulary (conceptually a Sequence Ontology subset), grounded on
// genometools' typecheck_info.c / type_checker_api.h (see
// SPEC_FULL.md §4): the distilled spec only names "a type-checker hook"
// (spec.md §4.3); the original shows the three-method shape reused
// here.
type TypeChecker interface {
	// IsValid reports whether typ is a recognized feature type.
	IsValid(typ string) bool
	// IsPartOf reports whether child is a valid part-of relationship
	// under parent (e.g. "CDS" part-of "mRNA"), used by the
	// check-boundaries / CDS-check transforms.
	IsPartOf(child, parent string) bool
	// Describe returns a human-readable description of typ, used in
	// diagnostic messages.
	Describe(typ string) string
}

// NullTypeChecker accepts every type tag and knows no relationships. It
// is the default when no type-checker hook is configured, matching the
// GFF3-plain reader's behaviour when -notypecheck is effectively
// requested by omission.
type NullTypeChecker struct{}

func (NullTypeChecker) IsValid(string) bool            { return true }
func (NullTypeChecker) IsPartOf(string, string) bool    { return true }
func (NullTypeChecker) Describe(typ string) string      { return typ }

// SOTypeChecker is a small, hand-maintained Sequence-Ontology-derived
// allow-list plus part-of table, enough to drive the CDS-check and
// check-boundaries transforms without pulling in an external OBO
// parser (spec §1 puts "every downstream bioinformatics analysis" out
// of scope; a full SO graph loader is exactly that kind of downstream
// client, so this stays intentionally small).
type SOTypeChecker struct {
	valid   map[string]bool
	partOf  map[string]map[string]bool
	descr   map[string]string
}

// NewSOTypeChecker returns a checker pre-seeded with the handful of
// feature types the stream library's transforms reason about directly
// (gene/mRNA/exon/CDS/intron and their relationships).
func NewSOTypeChecker() *SOTypeChecker {
	c := &SOTypeChecker{
		valid:  map[string]bool{},
		partOf: map[string]map[string]bool{},
		descr:  map[string]string{},
	}
	types := map[string]string{
		"gene":              "a region that specifies a heritable biological function",
		"mRNA":              "messenger RNA",
		"exon":              "a region spliced into the mature transcript",
		"CDS":               "coding sequence",
		"intron":            "a region excised during splicing",
		"five_prime_UTR":    "5' untranslated region",
		"three_prime_UTR":   "3' untranslated region",
		"region":            "a biological region",
		"transcript":        "an RNA transcript",
	}
	for t, d := range types {
		c.valid[foldKey(t)] = true
		c.descr[foldKey(t)] = d
	}
	rel := map[string][]string{
		"mRNA":            {"gene", "transcript"},
		"exon":            {"mRNA", "transcript"},
		"CDS":             {"mRNA"},
		"intron":          {"mRNA", "transcript"},
		"five_prime_UTR":  {"mRNA"},
		"three_prime_UTR": {"mRNA"},
	}
	for child, parents := range rel {
		m := map[string]bool{}
		for _, p := range parents {
			m[foldKey(p)] = true
		}
		c.partOf[foldKey(child)] = m
	}
	return c
}

func (c *SOTypeChecker) IsValid(typ string) bool {
	return c.valid[foldKey(typ)]
}

func (c *SOTypeChecker) IsPartOf(child, parent string) bool {
	m, ok := c.partOf[foldKey(child)]
	if !ok {
		return true // no known constraint: don't reject
	}
	return m[foldKey(parent)]
}

func (c *SOTypeChecker) Describe(typ string) string {
	if d, ok := c.descr[foldKey(typ)]; ok {
		return d
	}
	return typ
}
