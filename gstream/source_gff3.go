package gstream

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
	"github.com/ncbi-tools/genomeflow/internal/gff3lex"
)

// GFF3PlainOptions configures GFF3PlainReader (spec §4.3: "Exposes
// side-channel settings: strict mode, tidy mode, add-id behaviour,
// offset / offset-file, type-checker hook"). Of the offset settings only
// a fixed Offset is supported; there is no offset-file option.
type GFF3PlainOptions struct {
	Strict      bool
	Tidy        bool
	AddIDs      bool
	Offset      int
	TypeChecker gnode.TypeChecker
	EnsureSorted bool
	DebugChecks  bool
}

// gff3PlainReader is the *GFF3-plain reader* of spec §4.3: "Wraps a
// byte-level parser over a list of files (or stdin)." The byte-level
// parser is internal/gff3lex, consumed here strictly through its
// Record channel — this reader never looks at raw bytes itself.
type gff3PlainReader struct {
	*lookAhead

	files   []string
	curIdx  int
	curCh   <-chan gff3lex.Record
	curErrs *gff3lex.ErrBox
	curFile *os.File

	opts GFF3PlainOptions
	tc   gnode.TypeChecker

	idSeq     int
	autoCount int

	pendingSeqid string
	pendingDesc  string
	pendingBases strings.Builder
	inFasta      bool

	// pendingByID and pendingOrder track the feature forest still open
	// in the current record group (spec §3's Feature parent/child data
	// model): a Parent= attribute links a feature under an
	// already-seen feature sharing that ID. Flushed to outQueue at
	// every group boundary (blank line, "###", ##FASTA, EOF), mirroring
	// gff3_parser.c's pending-tree bookkeeping.
	pendingByID  map[string]*gnode.Feature
	pendingOrder []*gnode.Feature
	outQueue     *core.Queue[gnode.Node]
}

// NewGFF3PlainReader opens files (or, if files is empty, reads stdin)
// and returns a Stream of region/comment/meta/feature/sequence nodes
// terminated by end-of-stream (spec §3: "Produces region, comment,
// meta, feature, sequence, and finally EOF nodes" — EOF here is
// represented by Next returning (nil, nil), per spec §4.2's contract
// for stream ends; see gnode.EOF's doc comment for when an explicit EOF
// node is used instead).
func NewGFF3PlainReader(files []string, opts GFF3PlainOptions) (Stream, error) {
	if opts.TypeChecker == nil {
		opts.TypeChecker = gnode.NullTypeChecker{}
	}
	r := &gff3PlainReader{
		files:       files,
		opts:        opts,
		tc:          opts.TypeChecker,
		pendingByID: make(map[string]*gnode.Feature),
		outQueue:    core.NewQueue[gnode.Node](64),
	}
	r.lookAhead = newLookAhead(r.fetch, opts.EnsureSorted, opts.DebugChecks, r.closeFiles)
	if err := r.openNext(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *gff3PlainReader) closeFiles() {
	if r.curFile != nil {
		r.curFile.Close()
		r.curFile = nil
	}
	// Normally empty by the time Close runs (every flush point drains
	// it first); non-empty only if fetch bailed out of a group early
	// on a strict Parent-resolution error, in which case these
	// top-level roots were never handed to a caller and must still be
	// released here.
	for {
		n, ok := r.outQueue.Pop()
		if !ok {
			break
		}
		n.Release()
	}
	for _, f := range r.pendingOrder {
		f.Release()
	}
	r.pendingOrder = nil
}

// openNext cycles the (closed -> open-current -> draining -> closed)
// file state machine of spec §4.3.
func (r *gff3PlainReader) openNext() error {
	r.closeFiles()
	if r.curIdx >= len(r.files) {
		if r.curIdx == 0 && len(r.files) == 0 {
			ch, eb := gff3lex.Open("<stdin>", os.Stdin)
			r.curCh, r.curErrs = ch, eb
			r.curIdx++
			return nil
		}
		r.curCh = nil
		return nil
	}
	name := r.files[r.curIdx]
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("gff3: open %s: %w", name, err)
	}
	r.curFile = f
	ch, eb := gff3lex.Open(name, f)
	r.curCh, r.curErrs = ch, eb
	r.curIdx++
	return nil
}

func (r *gff3PlainReader) nextID() string {
	r.idSeq++
	return "auto" + strconv.Itoa(r.idSeq)
}

// fetch is the fetchFunc lookAhead drives: one call returns one node,
// transparently advancing across the file list, the FASTA section, and
// strict/tidy error handling (spec §7).
func (r *gff3PlainReader) fetch() (gnode.Node, error) {
	for {
		if n, ok := r.outQueue.Pop(); ok {
			return n, nil
		}
		if r.curCh == nil {
			r.flushGroup()
			if n, ok := r.outQueue.Pop(); ok {
				return n, nil
			}
			return nil, nil
		}
		rec, ok := <-r.curCh
		if !ok {
			if r.pendingSeqid != "" {
				return r.flushSequence(), nil
			}
			if err := r.curErrs.Err(); err != nil {
				if r.opts.Strict {
					return nil, err
				}
				core.Warnf("%v", err)
			}
			r.flushGroup()
			if err := r.openNext(); err != nil {
				return nil, err
			}
			continue
		}

		switch rec.Kind {
		case gff3lex.KindBlank, gff3lex.KindComment:
			if rec.Kind == gff3lex.KindComment {
				return gnode.NewComment(rec.Raw), nil
			}
			r.flushGroup()
			continue

		case gff3lex.KindFastaDirective:
			r.flushGroup()
			r.inFasta = true
			continue

		case gff3lex.KindSequenceHeader:
			seqid, desc := splitHeader(rec.SeqHeader)
			var out gnode.Node
			if r.pendingSeqid != "" {
				out = r.flushSequence()
			}
			r.pendingSeqid = seqid
			r.pendingDesc = desc
			r.pendingBases.Reset()
			if out != nil {
				return out, nil
			}
			continue

		case gff3lex.KindSequenceBody:
			r.pendingBases.WriteString(rec.SeqBody)
			continue

		case gff3lex.KindRegionDirective:
			start, end := rec.RegionStart+r.opts.Offset, rec.RegionEnd+r.opts.Offset
			rng := gnode.Range{Start: start, End: end}
			if !rng.Valid() {
				err := fmt.Errorf("%s:%d: region %s has start>end", rec.Filename, rec.Line, rec.RegionSeqid)
				if r.opts.Strict {
					return nil, err
				}
				core.Warnf("%v", err)
				continue
			}
			n := gnode.NewRegion(rec.RegionSeqid, rng)
			n.Filename, n.LineNumber = rec.Filename, rec.Line
			return n, nil

		case gff3lex.KindOtherDirective:
			// "###" (Directive == "#") is the GFF3 record-group
			// terminator: every feature forest opened since the last
			// boundary is now complete and can be served.
			if rec.Directive == "#" {
				r.flushGroup()
				continue
			}
			n := gnode.NewMeta(rec.Directive, rec.Payload)
			n.Filename, n.LineNumber = rec.Filename, rec.Line
			return n, nil

		case gff3lex.KindFeatureLine:
			n, err := r.buildFeature(rec)
			if err != nil {
				if r.opts.Strict {
					return nil, err
				}
				core.Warnf("%v", err)
				continue
			}
			f := gnode.As[*gnode.Feature](n)
			if err := r.linkFeature(f); err != nil {
				if r.opts.Strict {
					return nil, err
				}
				core.Warnf("%v", err)
			}
			continue
		}
	}
}

// linkFeature attaches f under its Parent= feature(s), if any are
// already pending in the current record group (spec §3: child ranges
// nest inside parent ranges; AddChild transfers ownership). A feature
// naming more than one Parent is attached under each in turn, matching
// GFF3's DAG allowance; f's weak Parent() back-reference then reflects
// only the last one attached. f is registered under its own ID (if any)
// so later lines in the group can nest under it in turn; otherwise, if
// it was not attached to any parent, it is queued as a new top-level
// tree root.
func (r *gff3PlainReader) linkFeature(f *gnode.Feature) error {
	parents := f.Attrs.Parents()
	linked := false
	for _, pid := range parents {
		parent, ok := r.pendingByID[pid]
		if !ok {
			continue
		}
		if linked {
			f.Ref()
		}
		parent.AddChild(f)
		linked = true
	}
	if id, ok := f.Attrs.ID(); ok {
		r.pendingByID[id] = f
	}
	// f is ours to place somewhere regardless of whether every named
	// Parent resolved: fall back to a top-level root rather than
	// dropping it, so a caller ignoring the error (tidy mode, or
	// non-strict) never leaks the node.
	if !linked {
		r.pendingOrder = append(r.pendingOrder, f)
	}
	if len(parents) > 0 && !linked {
		return fmt.Errorf("%s:%d: feature references unknown Parent %v", f.Filename, f.LineNumber, parents)
	}
	return nil
}

// flushGroup serves every top-level tree accumulated since the last
// record-group boundary and clears the pending-ID scope.
func (r *gff3PlainReader) flushGroup() {
	for _, f := range r.pendingOrder {
		r.outQueue.Push(f)
	}
	r.pendingOrder = r.pendingOrder[:0]
	if len(r.pendingByID) > 0 {
		r.pendingByID = make(map[string]*gnode.Feature)
	}
}

func (r *gff3PlainReader) flushSequence() gnode.Node {
	seq := gnode.NewSequence(r.pendingSeqid, r.pendingDesc, r.pendingBases.String(), gnode.Range{Start: 1, End: r.pendingBases.Len()})
	r.pendingSeqid = ""
	r.pendingDesc = ""
	r.pendingBases.Reset()
	return seq
}

func splitHeader(h string) (seqid, desc string) {
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		return h[:i], strings.TrimSpace(h[i+1:])
	}
	return h, ""
}

func (r *gff3PlainReader) buildFeature(rec gff3lex.Record) (gnode.Node, error) {
	start, end := rec.Start+r.opts.Offset, rec.End+r.opts.Offset
	rng := gnode.Range{Start: start, End: end}
	if !rng.Valid() {
		if r.opts.Tidy {
			rng.Start, rng.End = rng.End, rng.Start
		} else {
			return nil, fmt.Errorf("%s:%d: feature start %d > end %d", rec.Filename, rec.Line, start, end)
		}
	}
	if !r.tc.IsValid(rec.Type) {
		msg := fmt.Errorf("%s:%d: unknown feature type %q", rec.Filename, rec.Line, rec.Type)
		if !r.opts.Tidy {
			return nil, msg
		}
		core.Warnf("%v", msg)
	}

	f := gnode.NewFeature(rec.Seqid, rng, rec.Type)
	f.Filename, f.LineNumber = rec.Filename, rec.Line
	if rec.Score != "." && rec.Score != "" {
		if sc, err := strconv.ParseFloat(rec.Score, 64); err == nil {
			f.Score = &sc
		} else if !r.opts.Tidy {
			return nil, fmt.Errorf("%s:%d: bad score %q", rec.Filename, rec.Line, rec.Score)
		}
	}
	if len(rec.Strand) == 1 {
		f.StrandV = gnode.Strand(rec.Strand[0])
	}
	f.PhaseV = gnode.NoPhase
	if rec.Phase != "." && rec.Phase != "" {
		if p, err := strconv.Atoi(rec.Phase); err == nil {
			f.PhaseV = gnode.Phase(p)
		}
	}
	parseAttributes(f.Attrs, rec.Attributes)
	if rec.Source != "" && rec.Source != "." {
		f.Attrs.Set("source", gnode.NewScalarAttr(rec.Source))
	}

	if r.opts.AddIDs {
		if _, ok := f.Attrs.ID(); !ok {
			f.Attrs.SetID(r.nextID())
		}
	}

	return f, nil
}

// parseAttributes splits a GFF3 column-9 string into the ordered
// attribute multimap (spec §3), honoring comma-separated multi-values.
func parseAttributes(a *gnode.Attributes, col string) {
	col = strings.TrimSpace(col)
	if col == "" {
		return
	}
	for _, kv := range strings.Split(col, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := kv[:eq]
		val := kv[eq+1:]
		parts := strings.Split(val, ",")
		for i, p := range parts {
			parts[i] = decodeGFF3(p)
		}
		if len(parts) == 1 {
			a.Set(key, gnode.NewScalarAttr(parts[0]))
		} else {
			a.Set(key, gnode.NewListAttr(parts))
		}
	}
}

var gff3Escapes = strings.NewReplacer("%09", "\t", "%0A", "\n", "%0D", "\r", "%25", "%", "%3B", ";", "%3D", "=", "%26", "&", "%2C", ",")

func decodeGFF3(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	return gff3Escapes.Replace(s)
}
