package partition

import (
	"bytes"
	"strings"
	"testing"
)

const labeled = "gse\tgsm\tcharacteristics_ch1\n" +
	"GSE1 \tGSM1\twt\n" +
	"GSE2\tGSM2\twt\n" +
	"GSE2\tGSM3\tmut\n" +
	"GSE3\tGSM4\twt\n" +
	"GSE3\tGSM5\tmut\n" +
	"GSE3\tGSM6\tmut\n" +
	"GSE1\tGSM7\tmut\n"

func keys(gs []Group) []string {
	var out []string
	for _, g := range gs {
		out = append(out, g.Key)
	}
	return out
}

func TestGroupByTrimsAndKeepsOrder(t *testing.T) {
	tab, err := ReadTSV(strings.NewReader(labeled))
	if err != nil {
		t.Fatal(err)
	}
	col := tab.Column(GroupColumn)
	if col != 0 {
		t.Fatalf("gse column = %d", col)
	}
	gs := GroupBy(tab, col)
	if got := strings.Join(keys(gs), ","); got != "GSE1,GSE2,GSE3" {
		t.Fatalf("groups = %s", got)
	}
	if len(gs[0].Rows) != 2 || gs[0].Rows[0][0] != "GSE1" {
		t.Fatalf("GSE1 rows = %v", gs[0].Rows)
	}
}

func TestReadTSVQuotes(t *testing.T) {
	tab, err := ReadTSV(strings.NewReader("gse\tcharacteristics_ch1\nGSE1\t\"strain: K-12\"\nGSE2\tcell 5\"x\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := tab.Rows[0][1]; got != "strain: K-12" {
		t.Fatalf("leading-quoted field = %q", got)
	}
	if got := tab.Rows[1][1]; got != `cell 5"x` {
		t.Fatalf("inner quote = %q", got)
	}
}

func TestSplitRoundRobin(t *testing.T) {
	tab, _ := ReadTSV(strings.NewReader(labeled))
	gs := GroupBy(tab, tab.Column(GroupColumn))
	parts, err := Split(gs, 2)
	if err != nil {
		t.Fatal(err)
	}
	// sizes: GSE1=2 GSE2=2 GSE3=3 -> sorted stable GSE1,GSE2,GSE3
	if got := strings.Join(keys(parts[0]), ","); got != "GSE1,GSE3" {
		t.Fatalf("part 1 = %s", got)
	}
	if got := strings.Join(keys(parts[1]), ","); got != "GSE2" {
		t.Fatalf("part 2 = %s", got)
	}
	if _, err := Split(gs, 0); err == nil {
		t.Fatal("want error for zero parts")
	}
}

func TestWritePartEmpty(t *testing.T) {
	var b bytes.Buffer
	n, err := WritePart(&b, []string{"gse", "gsm"}, nil)
	if err != nil || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if b.String() != "gse\tgsm\n" {
		t.Fatalf("header-only output = %q", b.String())
	}
}

func TestWritePartRows(t *testing.T) {
	tab, _ := ReadTSV(strings.NewReader(labeled))
	gs := GroupBy(tab, 0)
	var b bytes.Buffer
	n, err := WritePart(&b, tab.Header, gs[:1])
	if err != nil {
		t.Fatal(err)
	}
	want := "gse\tgsm\tcharacteristics_ch1\nGSE1\tGSM1\twt\nGSE1\tGSM7\tmut\n"
	if n != 2 || b.String() != want {
		t.Fatalf("n=%d out=%q", n, b.String())
	}
	if FileName("labeled", 0) != "labeled01" || FileName("x", 9) != "x10" {
		t.Fatal("bad part file names")
	}
}
