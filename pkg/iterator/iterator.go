// Package iterator defines the pull-based operator contract shared by every
// physical operator in BlazeDB's pipeline, plus the base/unary/binary
// helpers that give each operator its Open/Next/Rewind/Close ceremony for
// free.
package iterator

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// Operator is the contract every physical operator satisfies: open its
// resources, produce tuples on demand, restart from the beginning, and
// release its resources. Operators form a tree; each non-leaf operator
// exclusively owns its children, and a child is reset only by its parent.
type Operator interface {
	// Open initializes the operator and its children. Must be called
	// before HasNext/Next.
	Open() error

	// HasNext reports whether a call to Next would produce a tuple,
	// without consuming it.
	HasNext() (bool, error)

	// Next produces the next tuple, advancing the operator.
	Next() (*tuple.Tuple, error)

	// Rewind restarts the operator from the beginning. Aggregation rewinds
	// only its emission cursor and does not recompute its result; Sort
	// clears its buffer and rewinds its child, re-sorting on the next pull.
	Rewind() error

	// Close releases resources owned by this operator and its children.
	Close() error

	// Schema returns the schema mapping describing tuples this operator
	// produces.
	Schema() *schema.Schema
}

// ReadNextFunc produces the next tuple of a stream, or (nil, nil) at
// end-of-stream.
type ReadNextFunc func() (*tuple.Tuple, error)

// Base implements the HasNext/Next lookahead-caching ceremony shared by
// every operator, delegating actual production to a ReadNextFunc supplied
// by the concrete operator.
type Base struct {
	readNext ReadNextFunc
	cached   *tuple.Tuple
	opened   bool
}

// NewBase creates a Base that delegates to readNext.
func NewBase(readNext ReadNextFunc) *Base {
	return &Base{readNext: readNext}
}

// MarkOpened marks the base as open and clears any stale cache.
func (b *Base) MarkOpened() {
	b.opened = true
	b.cached = nil
}

// HasNext reports whether Next would produce a tuple.
func (b *Base) HasNext() (bool, error) {
	if !b.opened {
		return false, blazeerr.New(blazeerr.InvariantViolation, "operator not opened")
	}

	if b.cached == nil {
		t, err := b.readNext()
		if err != nil {
			return false, err
		}
		b.cached = t
	}
	return b.cached != nil, nil
}

// Next returns the next tuple, consuming the lookahead cache if set.
func (b *Base) Next() (*tuple.Tuple, error) {
	if !b.opened {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "operator not opened")
	}

	if b.cached == nil {
		t, err := b.readNext()
		if err != nil {
			return nil, err
		}
		b.cached = t
	}

	t := b.cached
	b.cached = nil
	return t, nil
}

// Rewind clears the lookahead cache. Concrete operators still need to
// rewind their own children/state; this only resets the base's cursor.
func (b *Base) Rewind() error {
	b.cached = nil
	return nil
}

// Close marks the base closed and clears the cache.
func (b *Base) Close() error {
	b.opened = false
	b.cached = nil
	return nil
}
