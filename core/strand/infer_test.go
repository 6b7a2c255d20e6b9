package strand

import "testing"

const seReport = `

This is SingleEnd Data
Fraction of reads failed to determine: 0.0172
Fraction of reads explained by "++,--": 0.9669
Fraction of reads explained by "+-,-+": 0.0159
`

const peReport = `

This is PairEnd Data
Fraction of reads failed to determine: 0.0072
Fraction of reads explained by "1++,1--,2+-,2-+": 0.0110
Fraction of reads explained by "1+-,1-+,2++,2--": 0.9818
`

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   Code
	}{
		{"single-end forward", seReport, Forward},
		{"paired-end reverse", peReport, Reverse},
		{"unstranded", `"++,--": 0.5` + "\n" + `"+-,-+": 0.5`, Unstranded},
		{"garbage", "no fractions here", Unstranded},
		{"half missing", `"++,--": 0.95`, Unstranded},
		{"exactly threshold", `"++,--": 0.8` + "\n" + `"+-,-+": 0.2`, Unstranded},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(Parse([]byte(tc.report)), 0); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParsePaired(t *testing.T) {
	fr := Parse([]byte(peReport))
	if !fr.Paired || fr.Reverse != 0.9818 {
		t.Fatalf("fractions = %+v", fr)
	}
}

func TestCustomThreshold(t *testing.T) {
	fr := Fractions{Forward: 0.7}
	if Classify(fr, 0.6) != Forward {
		t.Fatal("0.7 > 0.6 should be forward")
	}
	if Forward.String() != "1" || Unstranded.String() != "0" {
		t.Fatal("codes must print as featureCounts digits")
	}
}
