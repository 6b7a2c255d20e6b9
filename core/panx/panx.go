// core/panx/panx.go
package panx

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// AlignmentSuffix selects the refined core-gene alignments in a panX output dir.
const AlignmentSuffix = "_refined_na_aln.fa"

// MappingHeader is the first line of the transcript to orthogroup table.
const MappingHeader = "transcript_id\torthogroup"

// OrthogroupID names the i-th (1-based) orthogroup.
func OrthogroupID(i int) string { return fmt.Sprintf("orth_%05d", i) }

// Alignments returns the alignment files in dir, sorted by name.
func Alignments(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+AlignmentSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Builder appends orthogroups to a combined FASTA and its mapping table.
type Builder struct {
	fasta   *bufio.Writer
	mapping *bufio.Writer
	groups  int
	records int
}

// NewBuilder writes the mapping header immediately.
func NewBuilder(fasta, mapping io.Writer) (*Builder, error) {
	b := &Builder{fasta: bufio.NewWriter(fasta), mapping: bufio.NewWriter(mapping)}
	if _, err := fmt.Fprintln(b.mapping, MappingHeader); err != nil {
		return nil, err
	}
	return b, nil
}

// Add copies one alignment, tagging every header with the next orthogroup id.
// Sequence lines pass through unchanged.
func (b *Builder) Add(r io.Reader) (string, error) {
	b.groups++
	id := OrthogroupID(b.groups)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if strings.HasPrefix(line, ">") {
				h := strings.TrimSpace(line)[1:]
				if _, werr := fmt.Fprintf(b.fasta, ">%s|%s\n", h, id); werr != nil {
					return id, werr
				}
				if _, werr := fmt.Fprintf(b.mapping, "%s\t%s\n", h, id); werr != nil {
					return id, werr
				}
				b.records++
			} else if _, werr := b.fasta.WriteString(line); werr != nil {
				return id, werr
			}
		}
		if err == io.EOF {
			return id, nil
		}
		if err != nil {
			return id, fmt.Errorf("%s: %w", id, err)
		}
	}
}

// Groups is the number of orthogroups added so far.
func (b *Builder) Groups() int { return b.groups }

// Records is the number of FASTA records written so far.
func (b *Builder) Records() int { return b.records }

// Flush flushes both outputs.
func (b *Builder) Flush() error {
	if err := b.fasta.Flush(); err != nil {
		return err
	}
	return b.mapping.Flush()
}
