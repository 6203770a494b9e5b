package gstream

import "github.com/ncbi-tools/genomeflow/gnode"

// GFF3CompositeOptions configures NewGFF3Composite (spec §4.3's "GFF3
// composite: A pre-wired chain... Exposes mode toggles (strict, tidy,
// fix-boundaries, retain-ids) by forwarding to internal stages").
type GFF3CompositeOptions struct {
	Files []string

	Strict       bool
	Tidy         bool
	RetainIDs    bool
	FixBoundaries bool
	EnsureSorted bool
	Offset       int
	TypeChecker  gnode.TypeChecker
	DebugChecks  bool
}

// NewGFF3Composite builds the pre-wired chain spec §4.3 names: "plain-
// reader -> add-ids -> multi-sanitiser visitor stream -> CDS-check ->
// optional region-fix". Strict and tidy forward to the plain reader;
// retain-ids forwards to the add-ids stage; fix-boundaries gates
// whether the trailing check-boundaries stage is present at all (when
// absent, boundary violations are left for a caller-supplied
// downstream stage to handle, matching the per-pipeline composability
// spec §4.3 describes for every stage).
func NewGFF3Composite(opts GFF3CompositeOptions) (Stream, error) {
	reader, err := NewGFF3PlainReader(opts.Files, GFF3PlainOptions{
		Strict:       opts.Strict,
		Tidy:         opts.Tidy,
		Offset:       opts.Offset,
		TypeChecker:  opts.TypeChecker,
		EnsureSorted: opts.EnsureSorted,
		DebugChecks:  opts.DebugChecks,
	})
	if err != nil {
		return nil, err
	}

	s := Stream(reader)
	s = NewAddIDsStream(s, opts.RetainIDs, opts.DebugChecks)
	s = NewMultiSanitiserStream(s, opts.DebugChecks)

	tc := opts.TypeChecker
	if tc == nil {
		tc = gnode.NullTypeChecker{}
	}
	s = NewCDSCheckStream(s, tc, opts.Strict, opts.DebugChecks)

	if opts.FixBoundaries {
		s = NewCheckBoundariesStream(s, opts.Tidy, opts.DebugChecks)
	}

	return s, nil
}
