package iterator

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/tuple"
)

// Unary provides the base implementation for operators with a single
// child: Select, Project, DuplicateElimination, Sort, Aggregation.
// Concrete operators embed Unary and supply only their readNext logic.
type Unary struct {
	base  *Base
	child Operator
}

// NewUnary creates a Unary base over child, delegating production to
// readNext.
func NewUnary(child Operator, readNext ReadNextFunc) (*Unary, error) {
	if child == nil {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "child operator cannot be nil")
	}
	return &Unary{base: NewBase(readNext), child: child}, nil
}

// FetchChild retrieves the next tuple from the child, or (nil, nil) at
// end-of-stream.
func (u *Unary) FetchChild() (*tuple.Tuple, error) {
	has, err := u.child.HasNext()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	return u.child.Next()
}

// Open opens the child and marks this operator ready.
func (u *Unary) Open() error {
	if err := u.child.Open(); err != nil {
		return err
	}
	u.base.MarkOpened()
	return nil
}

// Close closes the child and releases this operator's resources.
func (u *Unary) Close() error {
	if err := u.child.Close(); err != nil {
		return err
	}
	return u.base.Close()
}

// Rewind rewinds the child and clears the lookahead cache.
func (u *Unary) Rewind() error {
	if err := u.child.Rewind(); err != nil {
		return err
	}
	return u.base.Rewind()
}

// HasNext reports whether Next would produce a tuple.
func (u *Unary) HasNext() (bool, error) { return u.base.HasNext() }

// Next produces the next tuple.
func (u *Unary) Next() (*tuple.Tuple, error) { return u.base.Next() }

// Child returns the child operator.
func (u *Unary) Child() Operator { return u.child }
