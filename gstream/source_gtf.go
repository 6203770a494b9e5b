package gstream

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ncbi-tools/genomeflow/core"
	"github.com/ncbi-tools/genomeflow/gnode"
)

// GTFOptions configures the GTF reader (spec §6: "Accepts the usual
// GTF record format and emits the same node graph as GFF3 would...
// tidy mode tolerates malformed records by skipping or repairing").
// This reader's tidy mode only skips malformed records (with a
// warning); it does not repair them.
type GTFOptions struct {
	Tidy         bool
	EnsureSorted bool
	DebugChecks  bool
}

// gtfReader parses in one pass into a FIFO then serves from it, lazily
// on first Next, mirroring the BED reader's state machine (spec §4.3:
// "GTF reader and BED reader. Parse in one pass into a FIFO").
type gtfReader struct {
	*lookAhead
	file    string
	opts    GTFOptions
	queue   *core.Queue[gnode.Node]
	genes   map[string]*gnode.Feature
	loaded  bool
	loadErr error
}

// NewGTFReader returns a Stream over file's GTF records.
func NewGTFReader(file string, opts GTFOptions) Stream {
	r := &gtfReader{file: file, opts: opts}
	r.lookAhead = newLookAhead(r.fetch, opts.EnsureSorted, opts.DebugChecks, nil)
	return r
}

func (r *gtfReader) load() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.queue = core.NewQueue[gnode.Node](256)
	r.genes = make(map[string]*gnode.Feature)
	transcripts := make(map[string]*gnode.Feature)

	f, err := os.Open(r.file)
	if err != nil {
		r.loadErr = fmt.Errorf("gtf: open %s: %w", r.file, err)
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 9 {
			if r.opts.Tidy {
				core.Warnf("%s:%d: skipping malformed GTF record (%d columns)", r.file, lineNo, len(cols))
				continue
			}
			r.loadErr = fmt.Errorf("%s:%d: expected 9 columns, got %d", r.file, lineNo, len(cols))
			return
		}
		start, e1 := strconv.Atoi(cols[3])
		end, e2 := strconv.Atoi(cols[4])
		if e1 != nil || e2 != nil || start > end {
			if r.opts.Tidy {
				core.Warnf("%s:%d: skipping record with bad coordinates", r.file, lineNo)
				continue
			}
			r.loadErr = fmt.Errorf("%s:%d: bad coordinates", r.file, lineNo)
			return
		}

		attrs := parseGTFAttributes(cols[8])
		geneID := attrs["gene_id"]
		transcriptID := attrs["transcript_id"]

		rng := gnode.Range{Start: start, End: end}
		typ := cols[2]

		nf := gnode.NewFeature(cols[0], rng, typ)
		nf.Filename, nf.LineNumber = r.file, lineNo
		if len(cols[6]) == 1 {
			nf.StrandV = gnode.Strand(cols[6][0])
		}
		if cols[5] != "." {
			if sc, e := strconv.ParseFloat(cols[5], 64); e == nil {
				nf.Score = &sc
			}
		}
		nf.PhaseV = gnode.NoPhase
		if cols[7] != "." {
			if p, e := strconv.Atoi(cols[7]); e == nil {
				nf.PhaseV = gnode.Phase(p)
			}
		}

		switch strings.ToLower(typ) {
		case "gene":
			if geneID != "" {
				nf.Attrs.SetID(geneID)
				r.genes[geneID] = nf
			}
			r.queue.Push(nf)
		case "transcript", "mrna":
			if transcriptID != "" {
				nf.Attrs.SetID(transcriptID)
				transcripts[transcriptID] = nf
			}
			if gene, ok := r.genes[geneID]; ok {
				gene.AddChild(nf)
			} else {
				r.queue.Push(nf)
			}
		default:
			if t, ok := transcripts[transcriptID]; ok {
				t.AddChild(nf)
			} else if !r.opts.Tidy {
				r.loadErr = fmt.Errorf("%s:%d: %s record references unknown transcript %q", r.file, lineNo, typ, transcriptID)
				return
			} else {
				r.queue.Push(nf)
			}
		}
	}
	if err := sc.Err(); err != nil && r.loadErr == nil {
		r.loadErr = fmt.Errorf("gtf: read %s: %w", r.file, err)
	}
}

func parseGTFAttributes(col string) map[string]string {
	out := map[string]string{}
	col = strings.TrimSpace(col)
	for _, field := range strings.Split(col, ";") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		sp := strings.IndexByte(field, ' ')
		if sp < 0 {
			continue
		}
		key := field[:sp]
		val := strings.Trim(strings.TrimSpace(field[sp+1:]), `"`)
		out[key] = val
	}
	return out
}

func (r *gtfReader) fetch() (gnode.Node, error) {
	r.load()
	if r.queue.Empty() {
		if r.loadErr != nil {
			err := r.loadErr
			r.loadErr = nil
			return nil, err
		}
		return nil, nil
	}
	n, _ := r.queue.Pop()
	return n, nil
}
