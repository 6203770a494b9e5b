package gstream

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGFF3 = `##gff-version 3
##sequence-region chr1 1 1000
chr1	test	gene	1	500	.	+	.	ID=gene1
chr1	test	mRNA	1	500	.	+	.	ID=mrna1;Parent=gene1
chr1	test	exon	1	200	.	+	.	ID=exon1;Parent=mrna1
chr1	test	exon	300	500	.	+	.	ID=exon2;Parent=mrna1
`

func writeTempGFF3(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.gff3")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestGFF3ReadWriteRoundTrip(t *testing.T) {
	path := writeTempGFF3(t, sampleGFF3)

	s, err := NewGFF3PlainReader([]string{path}, GFF3PlainOptions{})
	require.NoError(t, err)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, WriteGFF3(&buf, s, GFF3WriterOptions{}))

	out := buf.String()
	assert.Contains(t, out, "##gff-version 3")
	assert.Contains(t, out, "##sequence-region chr1 1 1000")
	assert.Contains(t, out, "ID=gene1")
	assert.Contains(t, out, "ID=mrna1;Parent=gene1")
	assert.Contains(t, out, "ID=exon1;Parent=mrna1")
	assert.Contains(t, out, "ID=exon2;Parent=mrna1")
}

func TestGFF3CompositeAssignsFreshIDs(t *testing.T) {
	contents := `##gff-version 3
chr1	test	gene	1	500	.	+	.	ID=gene1
chr1	test	mRNA	1	500	.	+	.	ID=mrna1;Parent=gene1
`
	path := writeTempGFF3(t, contents)

	s, err := NewGFF3Composite(GFF3CompositeOptions{Files: []string{path}})
	require.NoError(t, err)
	defer s.Close()

	var buf bytes.Buffer
	require.NoError(t, WriteGFF3(&buf, s, GFF3WriterOptions{}))

	out := buf.String()
	assert.True(t, strings.Contains(out, "\tgene\t"))
	assert.True(t, strings.Contains(out, "\tmRNA\t"))
	assert.Contains(t, out, "ID=gf")
}
