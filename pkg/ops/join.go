package ops

import (
	"blazedb/pkg/expr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/logging"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

const joinComponent = "ops.join"

// Join is a tuple-nested-loop inner join: for each outer tuple, the inner
// child is rewound and scanned in full, and every merged tuple satisfying
// the (optional) predicate is buffered before the next outer tuple is
// pulled. Emission order is lexicographic in (outer-order, inner-order).
type Join struct {
	*iterator.Binary
	pred *expr.Expr // nil means unconditional (cross join)
	sch  *schema.Schema

	outer   *tuple.Tuple
	buf     []*tuple.Tuple
	bufNext int
}

// NewJoin creates a Join over outer and inner, evaluating pred (if
// non-nil) against the merged tuple under sch (outer's schema concatenated
// with inner's).
func NewJoin(outer, inner iterator.Operator, pred *expr.Expr, sch *schema.Schema) (*Join, error) {
	j := &Join{pred: pred, sch: sch}
	b, err := iterator.NewBinary(outer, inner, j.readNext)
	if err != nil {
		return nil, err
	}
	j.Binary = b
	return j, nil
}

func (j *Join) readNext() (*tuple.Tuple, error) {
	for {
		if j.bufNext < len(j.buf) {
			t := j.buf[j.bufNext]
			j.bufNext++
			return t, nil
		}

		o, err := j.FetchOuter()
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, nil
		}
		j.outer = o

		if err := j.Inner().Rewind(); err != nil {
			return nil, err
		}

		if err := j.fillBuffer(); err != nil {
			return nil, err
		}
	}
}

// fillBuffer scans the inner child fully for the current outer tuple,
// collecting every match into j.buf.
func (j *Join) fillBuffer() error {
	j.buf = j.buf[:0]
	j.bufNext = 0

	for {
		i, err := j.FetchInner()
		if err != nil {
			return err
		}
		if i == nil {
			return nil
		}

		merged := j.outer.Concat(i)

		if j.pred == nil {
			j.buf = append(j.buf, merged)
			continue
		}

		ok, err := expr.EvalBool(j.pred, merged, j.sch)
		if err != nil {
			logging.WithComponent(joinComponent).Warn("join predicate evaluation failed, treating pair as non-matching", "error", err)
			continue
		}
		if ok {
			j.buf = append(j.buf, merged)
		}
	}
}

// Open opens both children and clears the match buffer.
func (j *Join) Open() error {
	j.buf = nil
	j.bufNext = 0
	j.outer = nil
	return j.Binary.Open()
}

// Rewind rewinds both children and clears the match buffer.
func (j *Join) Rewind() error {
	j.buf = nil
	j.bufNext = 0
	j.outer = nil
	return j.Binary.Rewind()
}

// Schema returns the combined schema: outer's columns followed by inner's.
func (j *Join) Schema() *schema.Schema { return j.sch }
