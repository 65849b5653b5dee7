// Package ops implements BlazeDB's non-leaf physical operators: Select,
// Project, Join, DuplicateElimination, Sort, and Aggregation. Every operator
// embeds iterator.Unary or iterator.Binary and supplies only its own
// readNext logic, following the scan operator's lead in pkg/csv.
package ops

import (
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/expr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/logging"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

const selectComponent = "ops.select"

// Select filters its child's tuples by a predicate expression. A predicate
// that fails to evaluate on a given tuple is logged and that tuple is
// treated as non-matching rather than aborting the stream.
type Select struct {
	*iterator.Unary
	pred *expr.Expr
	sch  *schema.Schema
}

// NewSelect creates a Select over child, filtering by pred under sch (the
// child's schema mapping).
func NewSelect(child iterator.Operator, pred *expr.Expr, sch *schema.Schema) (*Select, error) {
	if pred == nil {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "select predicate cannot be nil")
	}

	s := &Select{pred: pred, sch: sch}
	u, err := iterator.NewUnary(child, s.readNext)
	if err != nil {
		return nil, err
	}
	s.Unary = u
	return s, nil
}

func (s *Select) readNext() (*tuple.Tuple, error) {
	for {
		t, err := s.FetchChild()
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, nil
		}

		ok, err := expr.EvalBool(s.pred, t, s.sch)
		if err != nil {
			logging.WithComponent(selectComponent).Warn("predicate evaluation failed, treating tuple as non-matching", "error", err)
			continue
		}
		if ok {
			return t, nil
		}
	}
}

// Schema returns the schema of tuples this operator produces: unchanged
// from the child, since Select never alters field shape.
func (s *Select) Schema() *schema.Schema { return s.sch }
