// core/partition/partition.go
package partition

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DefaultParts matches the number of batch queues the downstream runs use.
const DefaultParts = 10

// GroupColumn is the column rows are grouped on.
const GroupColumn = "gse"

// Table is a header plus rows read from a TSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// Group is the set of rows sharing one experiment id.
type Group struct {
	Key  string
	Rows [][]string
}

// ReadTSV reads a tab-separated table with a header row. A field that starts
// with a double quote is read as a quoted field and loses its quotes; stray
// quotes elsewhere are kept, as pandas read_csv does.
func ReadTSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("tsv: empty input")
	}
	if err != nil {
		return Table{}, fmt.Errorf("tsv header: %w", err)
	}
	t := Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("tsv: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Column returns the index of name in the header, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// GroupBy groups rows on the trimmed value of column col, in order of first
// appearance. The trimmed value is written back into the row.
func GroupBy(t Table, col int) []Group {
	var groups []Group
	index := map[string]int{}
	for _, row := range t.Rows {
		key := ""
		if col < len(row) {
			key = strings.TrimSpace(row[col])
			row[col] = key
		}
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Rows = append(groups[gi].Rows, row)
	}
	return groups
}

func bySize(gs []Group) {
	sort.SliceStable(gs, func(i, j int) bool { return len(gs[i].Rows) < len(gs[j].Rows) })
}

// Split deals groups round robin into n parts, smallest groups first, so
// every part starts with its shortest experiments.
func Split(groups []Group, n int) ([][]Group, error) {
	if n < 1 {
		return nil, fmt.Errorf("partition count must be >= 1, got %d", n)
	}
	sorted := append([]Group(nil), groups...)
	bySize(sorted)
	parts := make([][]Group, n)
	for i, g := range sorted {
		parts[i%n] = append(parts[i%n], g)
	}
	for _, p := range parts {
		bySize(p)
	}
	return parts, nil
}

// FileName is the output name of part i (0-based): prefix01, prefix02, ...
func FileName(prefix string, i int) string {
	return fmt.Sprintf("%s%02d", prefix, i+1)
}

// WritePart writes header and the rows of a part, returning the row count.
func WritePart(w io.Writer, header []string, part []Group) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	n := 0
	for _, g := range part {
		for _, row := range g.Rows {
			if err := cw.Write(row); err != nil {
				return n, err
			}
			n++
		}
	}
	cw.Flush()
	return n, cw.Error()
}
