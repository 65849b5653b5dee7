package ops

import (
	"sort"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/expr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// SortKey is one ORDER BY key: a column-reference expression plus its
// direction. The planner is responsible for rejecting non-column-reference
// sort keys before building a Sort.
type SortKey struct {
	Expr *expr.Expr
	Desc bool
}

// Sort materializes its child's entire output on the first pull and
// emits it in stable sorted order by successive keys. It is a blocking
// operator: unlike Aggregation, Rewind clears the buffer and rewinds the
// child, so the next pull re-materializes and re-sorts from scratch.
type Sort struct {
	*iterator.Unary
	keys         []SortKey
	sch          *schema.Schema
	buf          []*tuple.Tuple
	cursor       int
	materialized bool
}

// NewSort creates a Sort over child, ordering by keys (evaluated under
// sch, the child's schema).
func NewSort(child iterator.Operator, keys []SortKey, sch *schema.Schema) (*Sort, error) {
	if len(keys) == 0 {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "sort requires at least one key")
	}

	s := &Sort{keys: keys, sch: sch}
	u, err := iterator.NewUnary(child, s.readNext)
	if err != nil {
		return nil, err
	}
	s.Unary = u
	return s, nil
}

func (s *Sort) materialize() error {
	if s.materialized {
		return nil
	}

	var buf []*tuple.Tuple
	for {
		t, err := s.FetchChild()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
		buf = append(buf, t)
	}

	var sortErr error
	sort.SliceStable(buf, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := s.less(buf[i], buf[j])
		if err != nil {
			sortErr = err
			return false
		}
		return less
	})
	if sortErr != nil {
		return sortErr
	}

	s.buf = buf
	s.cursor = 0
	s.materialized = true
	return nil
}

// less compares a and b by successive keys; ties are broken by later keys,
// and ties after every key preserve input order (sort.SliceStable).
func (s *Sort) less(a, b *tuple.Tuple) (bool, error) {
	for _, k := range s.keys {
		av, err := expr.EvalInt(k.Expr, a, s.sch)
		if err != nil {
			return false, err
		}
		bv, err := expr.EvalInt(k.Expr, b, s.sch)
		if err != nil {
			return false, err
		}
		if av == bv {
			continue
		}
		if k.Desc {
			return av > bv, nil
		}
		return av < bv, nil
	}
	return false, nil
}

func (s *Sort) readNext() (*tuple.Tuple, error) {
	if err := s.materialize(); err != nil {
		return nil, err
	}
	if s.cursor >= len(s.buf) {
		return nil, nil
	}
	t := s.buf[s.cursor]
	s.cursor++
	return t, nil
}

// Open opens the child; materialization happens lazily on the first pull.
func (s *Sort) Open() error {
	s.materialized = false
	s.buf = nil
	s.cursor = 0
	return s.Unary.Open()
}

// Rewind clears the buffer and rewinds the child; the next pull
// re-materializes and re-sorts.
func (s *Sort) Rewind() error {
	s.materialized = false
	s.buf = nil
	s.cursor = 0
	return s.Unary.Rewind()
}

// Schema returns the child's schema, unchanged by sorting.
func (s *Sort) Schema() *schema.Schema { return s.sch }
