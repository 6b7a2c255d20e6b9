package cluster

import (
	"strconv"
	"strings"
)

// Newick renders the tree with branch lengths taken from merge heights.
// Labels containing Newick punctuation are single-quoted.
func (t Tree) Newick(labels []string) string {
	switch {
	case t.Leaves == 0:
		return ";"
	case t.Leaves == 1:
		return quoteLabel(labels[0]) + ";"
	}
	height := func(id int) float64 {
		if id < t.Leaves {
			return 0
		}
		return t.Merges[id-t.Leaves].Height
	}

	var b strings.Builder
	var walk func(id int)
	walk = func(id int) {
		if id < t.Leaves {
			b.WriteString(quoteLabel(labels[id]))
			return
		}
		mg := t.Merges[id-t.Leaves]
		b.WriteByte('(')
		walk(mg.Left)
		b.WriteByte(':')
		b.WriteString(formatLength(mg.Height - height(mg.Left)))
		b.WriteByte(',')
		walk(mg.Right)
		b.WriteByte(':')
		b.WriteString(formatLength(mg.Height - height(mg.Right)))
		b.WriteByte(')')
	}
	walk(t.Leaves + len(t.Merges) - 1)
	b.WriteByte(';')
	return b.String()
}

func formatLength(v float64) string {
	if v < 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func quoteLabel(s string) string {
	if !strings.ContainsAny(s, "()[]':;, \t") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
