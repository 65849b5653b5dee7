package ops

import (
	"strconv"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/expr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// Aggregation computes SUM aggregates over its child, optionally grouped by
// a single expression. It is blocking: the entire child is consumed on the
// first pull. Unlike Sort, Rewind resets only the emission cursor — the
// computed sums are not recomputed.
type Aggregation struct {
	*iterator.Unary
	groupBy  *expr.Expr   // nil for ungrouped aggregation
	sums     []*expr.Expr // SUM argument expressions
	childSch *schema.Schema
	outSch   *schema.Schema

	computed bool
	rows     []*tuple.Tuple
	cursor   int
}

// NewAggregation creates an Aggregation over child. groupBy may be nil for
// an ungrouped aggregation; sums must be non-empty. childSch is the
// schema the SUM/group-by expressions are evaluated under.
func NewAggregation(child iterator.Operator, groupBy *expr.Expr, sums []*expr.Expr, childSch *schema.Schema) (*Aggregation, error) {
	if len(sums) == 0 {
		return nil, blazeerr.New(blazeerr.InvariantViolation, "aggregation requires at least one SUM expression")
	}

	a := &Aggregation{groupBy: groupBy, sums: sums, childSch: childSch}
	a.outSch = outputSchema(groupBy, sums)

	u, err := iterator.NewUnary(child, a.readNext)
	if err != nil {
		return nil, err
	}
	a.Unary = u
	return a, nil
}

func outputSchema(groupBy *expr.Expr, sums []*expr.Expr) *schema.Schema {
	if groupBy != nil {
		return schema.New([]string{"Group", "SUM"})
	}
	cols := make([]string, len(sums))
	for i := range sums {
		cols[i] = "SUM_" + strconv.Itoa(i)
	}
	return schema.New(cols)
}

func (a *Aggregation) readNext() (*tuple.Tuple, error) {
	if err := a.compute(); err != nil {
		return nil, err
	}
	if a.cursor >= len(a.rows) {
		return nil, nil
	}
	t := a.rows[a.cursor]
	a.cursor++
	return t, nil
}

func (a *Aggregation) compute() error {
	if a.computed {
		return nil
	}

	var rows []*tuple.Tuple
	var err error
	if a.groupBy == nil {
		rows, err = a.computeUngrouped()
	} else {
		rows, err = a.computeGrouped()
	}
	if err != nil {
		return err
	}

	a.rows = rows
	a.cursor = 0
	a.computed = true
	return nil
}

func (a *Aggregation) computeUngrouped() ([]*tuple.Tuple, error) {
	accum := make([]int64, len(a.sums))

	for {
		t, err := a.FetchChild()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}

		for i, sumExpr := range a.sums {
			v, err := expr.EvalInt(sumExpr, t, a.childSch)
			if err != nil {
				return nil, err
			}
			accum[i] += v
		}
	}

	fields := make([]string, len(accum))
	for i, v := range accum {
		fields[i] = strconv.FormatInt(v, 10)
	}
	return []*tuple.Tuple{tuple.New(fields)}, nil
}

// computeGrouped supports exactly one SUM expression under GROUP BY, per
// the aggregation contract. Groups are emitted in the order their keys are
// first seen; callers must not rely on any order, and a Sort stacked above
// fixes it when needed.
func (a *Aggregation) computeGrouped() ([]*tuple.Tuple, error) {
	sumExpr := a.sums[0]
	order := make([]string, 0)
	totals := make(map[string]int64)

	for {
		t, err := a.FetchChild()
		if err != nil {
			return nil, err
		}
		if t == nil {
			break
		}

		key, err := a.groupKey(t)
		if err != nil {
			return nil, err
		}

		v, err := expr.EvalInt(sumExpr, t, a.childSch)
		if err != nil {
			return nil, err
		}

		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += v
	}

	rows := make([]*tuple.Tuple, 0, len(order))
	for _, key := range order {
		rows = append(rows, tuple.New([]string{key, strconv.FormatInt(totals[key], 10)}))
	}
	return rows, nil
}

// groupKey stringifies the group-by expression's value for this tuple.
// Only a bare column reference is accepted as the group-by expression
// (anything else is Unsupported), so the raw field value is used directly
// rather than forcing an integer interpretation.
func (a *Aggregation) groupKey(t *tuple.Tuple) (string, error) {
	if a.groupBy.Kind != expr.Column {
		return "", blazeerr.New(blazeerr.Unsupported, "GROUP BY supports only a column reference")
	}
	idx, err := a.childSch.MustIndex(a.groupBy.Column)
	if err != nil {
		return "", err
	}
	return t.Field(idx)
}

// Open opens the child and resets the computed state.
func (a *Aggregation) Open() error {
	a.computed = false
	a.rows = nil
	a.cursor = 0
	return a.Unary.Open()
}

// Rewind resets only the emission cursor; the computed sums are not
// recomputed.
func (a *Aggregation) Rewind() error {
	a.cursor = 0
	return nil
}

// Schema returns the aggregation's emitted schema: SUM_0..SUM_{k-1} for
// ungrouped aggregation, or (Group, SUM) for grouped aggregation.
func (a *Aggregation) Schema() *schema.Schema { return a.outSch }
