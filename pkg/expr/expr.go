// Package expr implements the expression AST and evaluator shared by
// selections, joins, and aggregation: a sealed sum type over column
// references, integer literals, arithmetic, comparisons, and AND, plus a
// total evaluator over that sealed set.
package expr

import (
	"strconv"
	"strings"

	"blazedb/pkg/blazeerr"
	"blazedb/pkg/schema"
	"blazedb/pkg/tuple"
)

// Kind identifies one node of the sealed expression sum type. Any AST shape
// outside this set (OR, NOT, LIKE, IS NULL, CASE, subqueries, string/date
// literals, -, /, %, shifts) is rejected by the parser/planner before an
// Expr is ever built for it, so EvalInt and EvalBool only ever see these
// kinds.
type Kind int

const (
	Column Kind = iota
	Literal
	Add
	Mul
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte
	And

	// LiteralContribution is a synthetic leaf introduced only by the
	// planner's literal-SUM rewriting (SUM(k) -> a per-row contribution of
	// k). It evaluates to its fixed integer value regardless of the tuple.
	LiteralContribution
)

// Expr is one node of a predicate or arithmetic expression tree. Leaves
// (Column, Literal, LiteralContribution) carry their own fields; internal
// nodes (Add, Mul, Eq, Neq, Lt, Lte, Gt, Gte, And) carry Left/Right.
// Parenthesization is transparent: the parser never materializes a node for
// it.
type Expr struct {
	Kind    Kind
	Column  string // qualified or bare column name, for Kind == Column
	Literal int64  // for Kind == Literal or Kind == LiteralContribution
	Left    *Expr
	Right   *Expr
}

// NewColumn builds a column-reference leaf.
func NewColumn(name string) *Expr { return &Expr{Kind: Column, Column: name} }

// NewLiteral builds an integer-literal leaf.
func NewLiteral(v int64) *Expr { return &Expr{Kind: Literal, Literal: v} }

// NewLiteralContribution builds the synthetic per-row contribution leaf
// used to rewrite SUM(k) for a constant k.
func NewLiteralContribution(v int64) *Expr { return &Expr{Kind: LiteralContribution, Literal: v} }

// NewBinary builds an internal node of the given kind over left and right.
func NewBinary(kind Kind, left, right *Expr) *Expr {
	return &Expr{Kind: kind, Left: left, Right: right}
}

// value is the evaluator's internal representation of one evaluated
// operand: its raw string plus the integer it parses to, if any. Equality
// and inequality fall back to raw-string comparison only when a side isn't
// an integer.
type value struct {
	raw   string
	n     int64
	isInt bool
}

// EvalInt evaluates e as a 64-bit integer: Column, Literal,
// LiteralContribution, Add, or Mul. Any other kind, or a non-integer
// operand, is an error.
func EvalInt(e *Expr, t *tuple.Tuple, s *schema.Schema) (int64, error) {
	v, err := evalValue(e, t, s)
	if err != nil {
		return 0, err
	}
	if !v.isInt {
		return 0, blazeerr.Newf(blazeerr.TypeMismatch, "expression %q did not evaluate to an integer", Describe(e))
	}
	return v.n, nil
}

// evalValue evaluates the "value" (as opposed to "boolean") shape of an
// expression: column refs, literals, and arithmetic.
func evalValue(e *Expr, t *tuple.Tuple, s *schema.Schema) (value, error) {
	switch e.Kind {
	case Column:
		idx, err := s.MustIndex(e.Column)
		if err != nil {
			return value{}, err
		}
		raw, err := t.Field(idx)
		if err != nil {
			return value{}, err
		}
		n, perr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if perr != nil {
			return value{raw: raw}, nil
		}
		return value{raw: raw, n: n, isInt: true}, nil

	case Literal, LiteralContribution:
		return value{raw: strconv.FormatInt(e.Literal, 10), n: e.Literal, isInt: true}, nil

	case Add, Mul:
		l, err := evalValue(e.Left, t, s)
		if err != nil {
			return value{}, err
		}
		r, err := evalValue(e.Right, t, s)
		if err != nil {
			return value{}, err
		}
		if !l.isInt || !r.isInt {
			return value{}, blazeerr.Newf(blazeerr.TypeMismatch, "arithmetic requires integer operands, got %q and %q", l.raw, r.raw)
		}
		var n int64
		if e.Kind == Add {
			n = l.n + r.n // wrapping int64 semantics, documented in SPEC_FULL.md
		} else {
			n = l.n * r.n
		}
		return value{raw: strconv.FormatInt(n, 10), n: n, isInt: true}, nil

	default:
		return value{}, blazeerr.Newf(blazeerr.Unsupported, "expression kind %d is not a value expression", e.Kind)
	}
}

// EvalBool evaluates e as a predicate: Eq, Neq, Lt, Lte, Gt, Gte, or And.
// Any other kind is an error.
func EvalBool(e *Expr, t *tuple.Tuple, s *schema.Schema) (bool, error) {
	switch e.Kind {
	case And:
		l, err := EvalBool(e.Left, t, s)
		if err != nil {
			return false, err
		}
		r, err := EvalBool(e.Right, t, s)
		if err != nil {
			return false, err
		}
		return l && r, nil

	case Eq, Neq:
		l, err := evalValue(e.Left, t, s)
		if err != nil {
			return false, err
		}
		r, err := evalValue(e.Right, t, s)
		if err != nil {
			return false, err
		}
		var eq bool
		if l.isInt && r.isInt {
			eq = l.n == r.n
		} else {
			eq = l.raw == r.raw
		}
		if e.Kind == Eq {
			return eq, nil
		}
		return !eq, nil

	case Lt, Lte, Gt, Gte:
		l, err := evalValue(e.Left, t, s)
		if err != nil {
			return false, err
		}
		r, err := evalValue(e.Right, t, s)
		if err != nil {
			return false, err
		}
		if !l.isInt || !r.isInt {
			return false, blazeerr.Newf(blazeerr.TypeMismatch, "inequality requires integer operands, got %q and %q", l.raw, r.raw)
		}
		switch e.Kind {
		case Lt:
			return l.n < r.n, nil
		case Lte:
			return l.n <= r.n, nil
		case Gt:
			return l.n > r.n, nil
		default:
			return l.n >= r.n, nil
		}

	default:
		return false, blazeerr.Newf(blazeerr.Unsupported, "expression kind %d is not a boolean expression", e.Kind)
	}
}

// Describe renders a short human-readable form of e, for error messages and
// planner diagnostics.
func Describe(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case Column:
		return e.Column
	case Literal, LiteralContribution:
		return strconv.FormatInt(e.Literal, 10)
	case Add:
		return Describe(e.Left) + " + " + Describe(e.Right)
	case Mul:
		return Describe(e.Left) + " * " + Describe(e.Right)
	case Eq:
		return Describe(e.Left) + " = " + Describe(e.Right)
	case Neq:
		return Describe(e.Left) + " <> " + Describe(e.Right)
	case Lt:
		return Describe(e.Left) + " < " + Describe(e.Right)
	case Lte:
		return Describe(e.Left) + " <= " + Describe(e.Right)
	case Gt:
		return Describe(e.Left) + " > " + Describe(e.Right)
	case Gte:
		return Describe(e.Left) + " >= " + Describe(e.Right)
	case And:
		return Describe(e.Left) + " AND " + Describe(e.Right)
	default:
		return "<expr>"
	}
}
