// Package tuple holds the row representation that flows through every
// BlazeDB operator: an ordered, immutable sequence of string fields.
package tuple

import (
	"strings"

	"blazedb/pkg/blazeerr"
)

// Tuple is an ordered row of field values. Fields are conceptually strings;
// arithmetic and comparison operators interpret them as signed 64-bit
// integers on demand. A Tuple is immutable once produced by an operator.
type Tuple struct {
	fields []string
}

// New creates a Tuple from the given fields. The slice is copied so the
// caller's backing array can be reused.
func New(fields []string) *Tuple {
	cp := make([]string, len(fields))
	copy(cp, fields)
	return &Tuple{fields: cp}
}

// Width returns the number of fields in this tuple.
func (t *Tuple) Width() int {
	return len(t.fields)
}

// Field returns the value of the ith field.
func (t *Tuple) Field(i int) (string, error) {
	if i < 0 || i >= len(t.fields) {
		return "", blazeerr.Newf(blazeerr.InvariantViolation, "field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// Fields returns a copy of the tuple's underlying field slice.
func (t *Tuple) Fields() []string {
	cp := make([]string, len(t.fields))
	copy(cp, t.fields)
	return cp
}

// Concat concatenates this tuple's fields with other's, preserving order.
func (t *Tuple) Concat(other *Tuple) *Tuple {
	merged := make([]string, 0, len(t.fields)+len(other.fields))
	merged = append(merged, t.fields...)
	merged = append(merged, other.fields...)
	return &Tuple{fields: merged}
}

// Key returns the identity used by the duplicate-elimination operator: the
// tuple's fields concatenated with ", " as a separator.
func (t *Tuple) Key() string {
	return strings.Join(t.fields, ", ")
}

// String renders the tuple in BlazeDB's output format: fields joined by
// ", " (comma, single space).
func (t *Tuple) String() string {
	return t.Key()
}
