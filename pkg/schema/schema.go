// Package schema holds the name-to-index mapping that describes the output
// layout of every BlazeDB operator.
package schema

import "blazedb/pkg/blazeerr"

// Schema maps fully qualified column names ("Table.Column") to zero-based
// field indices. Insertion order is significant: it defines the
// serialization order used when a tuple produced under this schema is
// written out. Keys are unique and values form the contiguous range
// [0, n) exactly once each.
type Schema struct {
	columns []string
	index   map[string]int
}

// New builds a Schema from an ordered list of fully qualified column
// names.
func New(columns []string) *Schema {
	idx := make(map[string]int, len(columns))
	cp := make([]string, len(columns))
	for i, c := range columns {
		cp[i] = c
		idx[c] = i
	}
	return &Schema{columns: cp, index: idx}
}

// Len returns the number of columns in this schema.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns the ordered list of qualified column names.
func (s *Schema) Columns() []string {
	cp := make([]string, len(s.columns))
	copy(cp, s.columns)
	return cp
}

// Column returns the qualified name at index i.
func (s *Schema) Column(i int) (string, error) {
	if i < 0 || i >= len(s.columns) {
		return "", blazeerr.Newf(blazeerr.InvariantViolation, "column index %d out of bounds [0, %d)", i, len(s.columns))
	}
	return s.columns[i], nil
}

// Index looks up the zero-based field index for a qualified column name.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// MustIndex is Index but returns a SchemaMiss error instead of a bool.
func (s *Schema) MustIndex(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, blazeerr.Newf(blazeerr.SchemaMiss, "column %q not found in schema", name)
	}
	return i, nil
}

// Has reports whether the schema carries a column of this qualified name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Concat merges this schema with other: this schema's columns keep their
// indices, other's columns are appended with indices shifted by this
// schema's width. This is how the join operator merges outer and inner
// schemas.
func (s *Schema) Concat(other *Schema) *Schema {
	merged := make([]string, 0, len(s.columns)+len(other.columns))
	merged = append(merged, s.columns...)
	merged = append(merged, other.columns...)
	return New(merged)
}
