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

// BEDOptions configures the BED reader (spec §6: "type tag is
// configurable (default BED_feature), block-type and thick-feature-type
// tags are also configurable").
type BEDOptions struct {
	FeatureType      string
	BlockFeatureType string
	ThickFeatureType string
	EnsureSorted     bool
	DebugChecks      bool
}

func (o *BEDOptions) setDefaults() {
	if o.FeatureType == "" {
		o.FeatureType = "BED_feature"
	}
	if o.BlockFeatureType == "" {
		o.BlockFeatureType = "BED_block"
	}
	if o.ThickFeatureType == "" {
		o.ThickFeatureType = "BED_thick"
	}
}

// bedReader is the *BED reader* of spec §4.3: "Parse in one pass into a
// FIFO, then serve from it. The file is processed lazily on the first
// next."
type bedReader struct {
	*lookAhead
	file    string
	opts    BEDOptions
	queue   *core.Queue[gnode.Node]
	loaded  bool
	loadErr error
}

// NewBEDReader returns a Stream over file's BED records.
func NewBEDReader(file string, opts BEDOptions) Stream {
	opts.setDefaults()
	r := &bedReader{file: file, opts: opts}
	r.lookAhead = newLookAhead(r.fetch, opts.EnsureSorted, opts.DebugChecks, nil)
	return r
}

func (r *bedReader) load() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.queue = core.NewQueue[gnode.Node](256)

	f, err := os.Open(r.file)
	if err != nil {
		r.loadErr = fmt.Errorf("bed: open %s: %w", r.file, err)
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		n, err := r.parseLine(line, lineNo)
		if err != nil {
			// spec §9 open question: ambiguous mid-record EOF / malformed
			// lines in the BED adapter. We choose to surface malformed
			// *lines* (not truncation) as an error always, since a
			// malformed BED line is unambiguous input corruption rather
			// than the documented ambiguous case.
			r.loadErr = err
			return
		}
		r.queue.Push(n)
	}
	if err := sc.Err(); err != nil {
		r.loadErr = fmt.Errorf("bed: read %s: %w", r.file, err)
	}
}

func (r *bedReader) parseLine(line string, lineNo int) (gnode.Node, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < 3 {
		return nil, fmt.Errorf("%s:%d: BED record needs at least 3 columns, got %d", r.file, lineNo, len(cols))
	}
	start, err := strconv.Atoi(cols[1])
	if err != nil {
		return nil, fmt.Errorf("%s:%d: bad chromStart %q", r.file, lineNo, cols[1])
	}
	end, err := strconv.Atoi(cols[2])
	if err != nil {
		return nil, fmt.Errorf("%s:%d: bad chromEnd %q", r.file, lineNo, cols[2])
	}
	// BED is 0-based half-open; GFF3-dialect ranges here are 1-based
	// closed, so convert on the way in (spec §3: "coordinates are
	// 1-based for the GFF3 dialect and preserved as stored").
	rng := gnode.Range{Start: start + 1, End: end}
	if !rng.Valid() {
		return nil, fmt.Errorf("%s:%d: chromStart >= chromEnd", r.file, lineNo)
	}

	f := gnode.NewFeature(cols[0], rng, r.opts.FeatureType)
	f.Filename, f.LineNumber = r.file, lineNo

	if len(cols) > 3 && cols[3] != "" {
		f.Attrs.SetID(cols[3])
	}
	if len(cols) > 4 && cols[4] != "" {
		if sc, err := strconv.ParseFloat(cols[4], 64); err == nil {
			f.Score = &sc
		}
	}
	if len(cols) > 5 && len(cols[5]) == 1 {
		f.StrandV = gnode.Strand(cols[5][0])
	}

	if len(cols) > 7 {
		thickStart, e1 := strconv.Atoi(cols[6])
		thickEnd, e2 := strconv.Atoi(cols[7])
		if e1 == nil && e2 == nil && thickStart < thickEnd {
			thick := gnode.NewFeature(cols[0], gnode.Range{Start: thickStart + 1, End: thickEnd}, r.opts.ThickFeatureType)
			thick.Filename, thick.LineNumber = r.file, lineNo
			f.AddChild(thick)
		}
	}

	if len(cols) > 11 {
		sizes := strings.Split(strings.Trim(cols[10], ","), ",")
		starts := strings.Split(strings.Trim(cols[11], ","), ",")
		n := len(sizes)
		if len(starts) < n {
			n = len(starts)
		}
		for i := 0; i < n; i++ {
			sz, e1 := strconv.Atoi(strings.TrimSpace(sizes[i]))
			off, e2 := strconv.Atoi(strings.TrimSpace(starts[i]))
			if e1 != nil || e2 != nil {
				continue
			}
			blkStart := start + off
			blk := gnode.NewFeature(cols[0], gnode.Range{Start: blkStart + 1, End: blkStart + sz}, r.opts.BlockFeatureType)
			blk.Filename, blk.LineNumber = r.file, lineNo
			f.AddChild(blk)
		}
	}

	return f, nil
}

func (r *bedReader) fetch() (gnode.Node, error) {
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
