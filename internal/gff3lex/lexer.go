// Package gff3lex is the opaque GFF3 tokenizer named in spec.md §1 as an
// external collaborator: "the GFF3 tokenizer (treated as an opaque
// 'parser' that converts a byte stream to a sequence of node events)".
// gstream's GFF3 reader drains it one token at a time; it never inspects
// how the tokenizer is implemented.
//
// Grounded on the teacher's FASTAConverter (eutils/fasta.go): a
// goroutine splits the byte stream into tokens over a buffered channel
// while the caller drains synchronously, one token per call. Putting the
// concurrency here (rather than in gstream's pull contract) matches
// spec §5: the synchronous, single-threaded pull model belongs to the
// node-stream core, while the tokenizer is explicitly named external.
package gff3lex

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
)

// RecordKind tags what kind of line a Record represents.
type RecordKind int

const (
	KindFeatureLine RecordKind = iota
	KindRegionDirective
	KindFastaDirective
	KindOtherDirective
	KindComment
	KindBlank
	KindSequenceHeader
	KindSequenceBody
)

// Record is one tokenized line of GFF3 input, still in string form;
// gstream's reader is responsible for turning it into a gnode.Node.
type Record struct {
	Kind     RecordKind
	Filename string
	Line     int
	Raw      string

	// populated for KindFeatureLine
	Seqid      string
	Source     string
	Type       string
	Start, End int
	Score      string
	Strand     string
	Phase      string
	Attributes string

	// populated for KindRegionDirective
	RegionSeqid             string
	RegionStart, RegionEnd int

	// populated for KindOtherDirective
	Directive string
	Payload   string

	// populated for KindSequenceHeader/Body
	SeqHeader string
	SeqBody   string
}

// chanDepth matches the teacher's tuning variable default (utils.go
// sets it from runtime.NumCPU at package init); a fixed depth is
// enough here since this is a line-buffered channel, not a worker farm.
const chanDepth = 16

// Open wraps r (transparently pgzip-decompressing if detectGzip finds a
// gzip stream) and returns a channel of tokenized records. The channel
// is closed at end of input or after the first error; errors are
// reported only through the returned ErrBox, which the caller checks
// after the channel drains, so downstream draining always terminates.
func Open(filename string, r io.Reader) (<-chan Record, *ErrBox) {
	eb := &ErrBox{}
	out := make(chan Record, chanDepth)

	br := bufio.NewReaderSize(detectGzip(r), 1<<16)

	go func() {
		defer close(out)
		lineNo := 0
		inFasta := false
		for {
			line, err := br.ReadString('\n')
			if len(line) == 0 && err != nil {
				if err != io.EOF {
					eb.set(fmt.Errorf("%s: %w", filename, err))
				}
				return
			}
			lineNo++
			line = strings.TrimRight(line, "\r\n")

			rec := Record{Filename: filename, Line: lineNo, Raw: line}

			switch {
			case inFasta:
				if strings.HasPrefix(line, ">") {
					rec.Kind = KindSequenceHeader
					rec.SeqHeader = strings.TrimPrefix(line, ">")
				} else {
					rec.Kind = KindSequenceBody
					rec.SeqBody = line
				}
			case line == "":
				rec.Kind = KindBlank
			case strings.HasPrefix(line, "##FASTA"):
				inFasta = true
				rec.Kind = KindFastaDirective
			case strings.HasPrefix(line, "##sequence-region"):
				rec.Kind = KindRegionDirective
				fields := strings.Fields(line)
				if len(fields) >= 4 {
					rec.RegionSeqid = fields[1]
					rec.RegionStart, _ = strconv.Atoi(fields[2])
					rec.RegionEnd, _ = strconv.Atoi(fields[3])
				} else {
					eb.set(fmt.Errorf("%s:%d: malformed ##sequence-region", filename, lineNo))
				}
			case strings.HasPrefix(line, "##"):
				rec.Kind = KindOtherDirective
				body := strings.TrimPrefix(line, "##")
				name, payload := body, ""
				if i := strings.IndexAny(body, " \t"); i >= 0 {
					name, payload = body[:i], strings.TrimSpace(body[i+1:])
				}
				rec.Directive = name
				rec.Payload = payload
			case strings.HasPrefix(line, "#"):
				rec.Kind = KindComment
			default:
				rec.Kind = KindFeatureLine
				cols := strings.Split(line, "\t")
				if len(cols) < 9 {
					eb.set(fmt.Errorf("%s:%d: expected 9 tab-separated columns, got %d", filename, lineNo, len(cols)))
					return
				}
				rec.Seqid = cols[0]
				rec.Source = cols[1]
				rec.Type = cols[2]
				rec.Start, err = strconv.Atoi(cols[3])
				if err != nil {
					eb.set(fmt.Errorf("%s:%d: bad start coordinate %q", filename, lineNo, cols[3]))
					return
				}
				rec.End, err = strconv.Atoi(cols[4])
				if err != nil {
					eb.set(fmt.Errorf("%s:%d: bad end coordinate %q", filename, lineNo, cols[4]))
					return
				}
				rec.Score = cols[5]
				rec.Strand = cols[6]
				rec.Phase = cols[7]
				rec.Attributes = cols[8]
			}

			out <- rec

			if eb.get() != nil {
				return
			}
		}
	}()

	return out, eb
}

// ErrBox is a side-band error cell the tokenizer goroutine fills; the
// synchronous reader checks it after the channel is drained, the way
// spec §4.2's side-band error object is filled by the callee.
type ErrBox struct {
	err error
}

func (b *ErrBox) set(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *ErrBox) get() error { return b.err }

// Err returns the first error the tokenizer encountered, if any.
func (b *ErrBox) Err() error { return b.get() }

func detectGzip(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && len(head) == 2 && head[0] == 0x1f && head[1] == 0x8b {
		gz, gzErr := pgzip.NewReader(br)
		if gzErr == nil {
			return gz
		}
	}
	return br
}
