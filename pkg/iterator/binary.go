package iterator

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/tuple"
)

// Binary provides the base implementation for operators with two children.
// Join is the only such operator; it embeds Binary for uniform
// Open/Close/Rewind handling of its outer and inner children, and keeps
// its own per-outer match buffer, which its ReadNextFunc drains.
type Binary struct {
	base  *Base
	outer Operator
	inner Operator
}

// NewBinary creates a Binary base over outer/inner, delegating production
// to readNext.
func NewBinary(outer, inner Operator, readNext ReadNextFunc) (*Binary, error) {
	if outer == nil {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "outer operator cannot be nil")
	}
	if inner == nil {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "inner operator cannot be nil")
	}
	return &Binary{base: NewBase(readNext), outer: outer, inner: inner}, nil
}

// FetchOuter retrieves the next tuple from the outer child, or (nil, nil)
// at end-of-stream.
func (b *Binary) FetchOuter() (*tuple.Tuple, error) {
	return fetch(b.outer)
}

// FetchInner retrieves the next tuple from the inner child, or (nil, nil)
// at end-of-stream.
func (b *Binary) FetchInner() (*tuple.Tuple, error) {
	return fetch(b.inner)
}

func fetch(op Operator) (*tuple.Tuple, error) {
	has, err := op.HasNext()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	return op.Next()
}

// Open opens both children and marks this operator ready.
func (b *Binary) Open() error {
	if err := b.outer.Open(); err != nil {
		return err
	}
	if err := b.inner.Open(); err != nil {
		return err
	}
	b.base.MarkOpened()
	return nil
}

// Close closes both children and releases this operator's resources.
func (b *Binary) Close() error {
	outerErr := b.outer.Close()
	innerErr := b.inner.Close()
	if outerErr != nil {
		return outerErr
	}
	if innerErr != nil {
		return innerErr
	}
	return b.base.Close()
}

// Rewind rewinds both children and clears the lookahead cache.
func (b *Binary) Rewind() error {
	if err := b.outer.Rewind(); err != nil {
		return err
	}
	if err := b.inner.Rewind(); err != nil {
		return err
	}
	return b.base.Rewind()
}

// HasNext reports whether Next would produce a tuple.
func (b *Binary) HasNext() (bool, error) { return b.base.HasNext() }

// Next produces the next tuple.
func (b *Binary) Next() (*tuple.Tuple, error) { return b.base.Next() }

// Outer returns the outer (left) child.
func (b *Binary) Outer() Operator { return b.outer }

// Inner returns the inner (right) child.
func (b *Binary) Inner() Operator { return b.inner }
