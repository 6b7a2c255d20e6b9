// core/quant/orthologs.go
package quant

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// DefaultGenomePrefix keeps W3110 transcripts from the pan-genome index.
const DefaultGenomePrefix = "NC_004431"

// Transcript is one row of a salmon quant.sf file.
type Transcript struct {
	Name            string
	Length          int
	EffectiveLength float64
	TPM             float64
	NumReads        float64
}

// GeneTPM is the aggregated abundance of one (orthogroup, gene) pair.
type GeneTPM struct {
	Orthogroup      string
	Gene            string
	NumReads        float64
	EffectiveLength float64 // mean over the group's transcripts
	TPM             float64
}

var quantColumns = []string{"Name", "Length", "EffectiveLength", "TPM", "NumReads"}

// ReadQuant parses a tab-separated quant.sf with its header row.
func ReadQuant(r io.Reader) ([]Transcript, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("quant: empty input")
	}
	col := map[string]int{}
	for i, h := range strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t") {
		col[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range quantColumns {
		if _, ok := col[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("quant: missing columns %s", strings.Join(missing, ", "))
	}

	var out []Transcript
	ln := 1
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < len(col) {
			return nil, fmt.Errorf("quant line %d: expected %d fields, got %d", ln, len(col), len(f))
		}
		tr := Transcript{Name: f[col["Name"]]}
		var err error
		if tr.Length, err = strconv.Atoi(f[col["Length"]]); err != nil {
			return nil, fmt.Errorf("quant line %d: bad Length: %v", ln, err)
		}
		if tr.EffectiveLength, err = strconv.ParseFloat(f[col["EffectiveLength"]], 64); err != nil {
			return nil, fmt.Errorf("quant line %d: bad EffectiveLength: %v", ln, err)
		}
		if tr.TPM, err = strconv.ParseFloat(f[col["TPM"]], 64); err != nil {
			return nil, fmt.Errorf("quant line %d: bad TPM: %v", ln, err)
		}
		if tr.NumReads, err = strconv.ParseFloat(f[col["NumReads"]], 64); err != nil {
			return nil, fmt.Errorf("quant line %d: bad NumReads: %v", ln, err)
		}
		out = append(out, tr)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("quant scan: %w", err)
	}
	return out, nil
}

func rate(reads, effLen float64) float64 {
	if effLen <= 0 {
		return 0
	}
	return reads / effLen
}

// SumOrthologs recomputes TPM per (orthogroup, gene) for the transcripts of
// one genome. Names must look like "<genome>|<gene>|<orthogroup>". The
// normalizing constant is the read rate summed over that genome's
// transcripts, so the result is on the TPM scale of the filtered set.
func SumOrthologs(list []Transcript, genomePrefix string) ([]GeneTPM, error) {
	if genomePrefix == "" {
		genomePrefix = DefaultGenomePrefix
	}
	prefix := genomePrefix + "|"

	type key struct{ orth, gene string }
	type acc struct {
		reads, effSum float64
		n             int
	}
	groups := map[key]*acc{}
	scaling := 0.0

	for _, tr := range list {
		if !strings.HasPrefix(tr.Name, prefix) {
			continue
		}
		parts := strings.Split(tr.Name, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("transcript %q: want genome|gene|orthogroup", tr.Name)
		}
		scaling += rate(tr.NumReads, tr.EffectiveLength)
		k := key{orth: parts[2], gene: parts[1]}
		a := groups[k]
		if a == nil {
			a = &acc{}
			groups[k] = a
		}
		a.reads += tr.NumReads
		a.effSum += tr.EffectiveLength
		a.n++
	}

	out := make([]GeneTPM, 0, len(groups))
	for k, a := range groups {
		g := GeneTPM{Orthogroup: k.orth, Gene: k.gene, NumReads: a.reads, EffectiveLength: a.effSum / float64(a.n)}
		if scaling > 0 {
			g.TPM = rate(g.NumReads, g.EffectiveLength) / scaling * 1e6
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orthogroup != out[j].Orthogroup {
			return out[i].Orthogroup < out[j].Orthogroup
		}
		return out[i].Gene < out[j].Gene
	})
	return out, nil
}

// WriteGeneTPM writes the two-column "Gene<TAB>TPM" table.
func WriteGeneTPM(w io.Writer, rows []GeneTPM) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "Gene\tTPM"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", r.Gene, strconv.FormatFloat(r.TPM, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
