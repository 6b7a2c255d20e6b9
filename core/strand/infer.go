// core/strand/infer.go
package strand

import (
	"regexp"
	"strconv"
)

// DefaultThreshold is the read fraction above which a library counts as stranded.
const DefaultThreshold = 0.8

// Code is the featureCounts -s value: 0 unstranded, 1 stranded, 2 reversely stranded.
type Code int

const (
	Unstranded Code = 0
	Forward    Code = 1
	Reverse    Code = 2
)

func (c Code) String() string { return strconv.Itoa(int(c)) }

// Fractions holds the explained-read fractions reported by infer_experiment.py.
type Fractions struct {
	Forward float64
	Reverse float64
	Paired  bool
}

var (
	seForward = regexp.MustCompile(`"\+\+,--":\s*([0-9.]+)`)
	seReverse = regexp.MustCompile(`"\+-,-\+":\s*([0-9.]+)`)
	peForward = regexp.MustCompile(`"1\+\+,1--,2\+-,2-\+":\s*([0-9.]+)`)
	peReverse = regexp.MustCompile(`"1\+-,1-\+,2\+\+,2--":\s*([0-9.]+)`)
)

// Parse extracts the forward/reverse fractions. If either is missing or
// unreadable both are reported as 0.
func Parse(text []byte) Fractions {
	if f, r, ok := pair(text, seForward, seReverse); ok {
		return Fractions{Forward: f, Reverse: r}
	}
	if f, r, ok := pair(text, peForward, peReverse); ok {
		return Fractions{Forward: f, Reverse: r, Paired: true}
	}
	return Fractions{}
}

func pair(text []byte, fwd, rev *regexp.Regexp) (float64, float64, bool) {
	fm, rm := fwd.FindSubmatch(text), rev.FindSubmatch(text)
	if fm == nil || rm == nil {
		return 0, 0, false
	}
	f, err1 := strconv.ParseFloat(string(fm[1]), 64)
	r, err2 := strconv.ParseFloat(string(rm[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return f, r, true
}

// Classify maps fractions to a strandedness code.
func Classify(fr Fractions, threshold float64) Code {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	switch {
	case fr.Forward > threshold:
		return Forward
	case fr.Reverse > threshold:
		return Reverse
	default:
		return Unstranded
	}
}
