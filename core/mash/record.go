// core/mash/record.go
package mash

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one line of `mash dist` output.
type Record struct {
	A, B         string
	Dist         float64
	PValue       float64
	SharedHashes string // raw "x/y"
}

// Shared parses SharedHashes ("456/1000") into its two counts.
func (r Record) Shared() (num, den int, err error) {
	k := strings.IndexByte(r.SharedHashes, '/')
	if k <= 0 || k == len(r.SharedHashes)-1 {
		return 0, 0, fmt.Errorf("bad shared-hashes %q", r.SharedHashes)
	}
	if num, err = strconv.Atoi(r.SharedHashes[:k]); err != nil {
		return 0, 0, fmt.Errorf("bad shared-hashes %q: %v", r.SharedHashes, err)
	}
	if den, err = strconv.Atoi(r.SharedHashes[k+1:]); err != nil {
		return 0, 0, fmt.Errorf("bad shared-hashes %q: %v", r.SharedHashes, err)
	}
	return num, den, nil
}

// ReadRecords parses a headerless, tab-separated pairwise distance table
// (genomeA, genomeB, distance, pvalue, sharedHashes). Malformed lines fail
// with a *ParseError.
func ReadRecords(r io.Reader) ([]Record, error) {
	var list []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 5 {
			return nil, &ParseError{Line: ln, Msg: fmt.Sprintf("expected 5 tab-separated fields, got %d", len(f))}
		}
		rec := Record{A: strings.TrimSpace(f[0]), B: strings.TrimSpace(f[1]), SharedHashes: strings.TrimSpace(f[4])}
		if rec.A == "" || rec.B == "" {
			return nil, &ParseError{Line: ln, Msg: "empty genome id"}
		}
		var err error
		if rec.Dist, err = strconv.ParseFloat(strings.TrimSpace(f[2]), 64); err != nil {
			return nil, &ParseError{Line: ln, Msg: fmt.Sprintf("bad distance: %v", err)}
		}
		if !(rec.Dist >= 0 && rec.Dist <= 1) {
			return nil, &ParseError{Line: ln, Msg: fmt.Sprintf("distance %g outside [0,1]", rec.Dist)}
		}
		if rec.PValue, err = strconv.ParseFloat(strings.TrimSpace(f[3]), 64); err != nil {
			return nil, &ParseError{Line: ln, Msg: fmt.Sprintf("bad p-value: %v", err)}
		}
		if _, _, err := rec.Shared(); err != nil {
			return nil, &ParseError{Line: ln, Msg: err.Error()}
		}
		list = append(list, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mash scan: %w", err)
	}
	return list, nil
}
