package mash

import (
	"fmt"
	"strings"
)

// MissingReferenceError reports that no genome id matched any reference marker.
type MissingReferenceError struct {
	Markers []string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("no genome matches a reference marker (%s)", strings.Join(e.Markers, ", "))
}

// ReferenceGenomeNotFoundError reports a reference genome absent from the working set.
type ReferenceGenomeNotFoundError struct {
	Reference string
}

func (e *ReferenceGenomeNotFoundError) Error() string {
	return fmt.Sprintf("reference genome %q not in genome set", e.Reference)
}

// ParseError reports a malformed line of a distance table.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }
