package ops

import (
	"blazedb/pkg/iterator"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// DuplicateElimination removes tuples whose identity (the concatenation of
// their field values with ", ") has already been emitted.
type DuplicateElimination struct {
	*iterator.Unary
	sch  *schema.Schema
	seen map[string]struct{}
}

// NewDuplicateElimination creates a DuplicateElimination over child.
func NewDuplicateElimination(child iterator.Operator, sch *schema.Schema) (*DuplicateElimination, error) {
	d := &DuplicateElimination{sch: sch, seen: make(map[string]struct{})}
	u, err := iterator.NewUnary(child, d.readNext)
	if err != nil {
		return nil, err
	}
	d.Unary = u
	return d, nil
}

func (d *DuplicateElimination) readNext() (*tuple.Tuple, error) {
	for {
		t, err := d.FetchChild()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, nil
		}

		key := t.Key()
		if _, ok := d.seen[key]; ok {
			continue
		}
		d.seen[key] = struct{}{}
		return t, nil
	}
}

// Open opens the child and clears the seen set, so a fresh Open/Close cycle
// starts with no history.
func (d *DuplicateElimination) Open() error {
	d.seen = make(map[string]struct{})
	return d.Unary.Open()
}

// Rewind clears the seen set and rewinds the child, so a rewound stream
// re-emits every distinct tuple from the start.
func (d *DuplicateElimination) Rewind() error {
	d.seen = make(map[string]struct{})
	return d.Unary.Rewind()
}

// Schema returns the child's schema, unchanged by deduplication.
func (d *DuplicateElimination) Schema() *schema.Schema { return d.sch }
