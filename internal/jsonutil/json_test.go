package jsonutil

import "testing"

func TestMarshalPretty(t *testing.T) {
	b, err := MarshalPretty(map[string]int{"k": 51})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"k\": 51\n}\n" {
		t.Fatalf("got %q", b)
	}
}
