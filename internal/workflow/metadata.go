// internal/workflow/metadata.go
package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"rnaseqkit-core/partition"
)

// Required metadata columns.
const (
	ColGSE            = "gse"
	ColGSM            = "gsm"
	ColCharacteristic = "characteristics_ch1"
)

// Sample is one metadata row.
type Sample struct {
	GSM            string
	Characteristic string
}

// Experiment groups the samples of one GSE.
type Experiment struct {
	GSE     string
	Samples []Sample
}

// ReadMetadata reads the labeled metadata TSV. GSE ids are trimmed and
// upper-cased; experiments come back sorted by id, rows in file order.
func ReadMetadata(r io.Reader) ([]Experiment, error) {
	tab, err := partition.ReadTSV(r)
	if err != nil {
		return nil, err
	}
	cols := map[string]int{}
	var missing []string
	for _, name := range []string{ColGSE, ColGSM, ColCharacteristic} {
		i := tab.Column(name)
		if i < 0 {
			missing = append(missing, name)
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("metadata: missing required columns: %s", strings.Join(missing, ", "))
	}

	byGSE := map[string]*Experiment{}
	var ids []string
	for n, row := range tab.Rows {
		get := func(name string) string {
			if i := cols[name]; i < len(row) {
				return row[i]
			}
			return ""
		}
		gse := strings.ToUpper(strings.TrimSpace(get(ColGSE)))
		if gse == "" {
			return nil, fmt.Errorf("metadata row %d: empty %s", n+2, ColGSE)
		}
		e, ok := byGSE[gse]
		if !ok {
			e = &Experiment{GSE: gse}
			byGSE[gse] = e
			ids = append(ids, gse)
		}
		e.Samples = append(e.Samples, Sample{
			GSM:            strings.TrimSpace(get(ColGSM)),
			Characteristic: get(ColCharacteristic),
		})
	}
	sort.Strings(ids)
	out := make([]Experiment, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byGSE[id])
	}
	return out, nil
}

// ReadFinished loads the list of GSEs to skip, one per line. A missing file
// is an empty list.
func ReadFinished(path string) (map[string]bool, error) {
	done := map[string]bool{}
	if path == "" {
		return done, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return done, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if id := strings.ToUpper(strings.TrimSpace(sc.Text())); id != "" {
			done[id] = true
		}
	}
	return done, sc.Err()
}
