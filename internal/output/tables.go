// internal/output/tables.go
package output

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"rnaseqkit-core/cluster"
	"rnaseqkit-core/mash"
)

// FormatDistance renders a distance with the shortest exact representation.
func FormatDistance(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteMatrixCSV writes m with genome ids on both axes; the corner cell is empty.
func WriteMatrixCSV(w io.Writer, m *mash.Matrix) error {
	cw := csv.NewWriter(w)
	labels := m.Labels()
	if err := cw.Write(append([]string{""}, labels...)); err != nil {
		return err
	}
	row := make([]string, len(labels)+1)
	for i, l := range labels {
		row[0] = l
		for j := range labels {
			row[j+1] = FormatDistance(m.At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteList writes one genome id per line.
func WriteList(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := io.WriteString(w, id+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// ClusterRows orders an assignment by cluster id, then genome.
func ClusterRows(a cluster.Assignment) [][2]string {
	genomes := a.Genomes()
	sort.SliceStable(genomes, func(i, j int) bool {
		ci, cj := a[genomes[i]], a[genomes[j]]
		if ci != cj {
			return ci < cj
		}
		return genomes[i] < genomes[j]
	})
	rows := make([][2]string, len(genomes))
	for i, g := range genomes {
		rows[i] = [2]string{g, strconv.Itoa(a[g])}
	}
	return rows
}

// WriteClustersCSV writes the (genome, cluster) table.
func WriteClustersCSV(w io.Writer, a cluster.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"genome", "cluster"}); err != nil {
		return err
	}
	for _, r := range ClusterRows(a) {
		if err := cw.Write(r[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRepresentativesCSV writes one row per cluster.
func WriteRepresentativesCSV(w io.Writer, reps []cluster.Representative) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cluster", "genome", "size"}); err != nil {
		return err
	}
	for _, r := range reps {
		if err := cw.Write([]string{strconv.Itoa(r.ClusterID), r.Genome, strconv.Itoa(r.Size)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
