// Package ast holds the parsed representation of a SELECT statement: the
// sealed tree of statement/clause/expression nodes the parser produces and
// the planner consumes. The parser's job ends here — it performs no schema
// resolution and no semantic validation beyond grammar shape.
package ast

import "blazedb/pkg/expr"

// TableRef names a table in FROM or JOIN, with its optional alias (equal to
// Name when no alias was given).
type TableRef struct {
	Name  string
	Alias string
}

// SelectItem is one entry of the SELECT list: either a bare expression, or
// a SUM(expression) aggregate.
type SelectItem struct {
	Expr  *expr.Expr
	IsSum bool
	Alias string
}

// JoinClause is one joined table: `JOIN table [ON expr]` or `, table`. On
// is nil when there is no ON clause.
type JoinClause struct {
	Table TableRef
	On    *expr.Expr
}

// OrderItem is one ORDER BY entry: an expression (possibly SUM(expr)) and
// its sort direction.
type OrderItem struct {
	Expr  *expr.Expr
	IsSum bool
	Desc  bool
}

// SelectStatement is the parser's complete output for one query.
type SelectStatement struct {
	Distinct bool
	Star     bool // true for `SELECT *`
	Columns  []SelectItem
	From     TableRef
	Joins    []JoinClause
	Where    *expr.Expr // nil when there is no WHERE clause
	GroupBy  []*expr.Expr
	OrderBy  []OrderItem
}

// Tables returns the canonical left-to-right join order: the FROM table
// first, then each join's right-hand table.
func (s *SelectStatement) Tables() []TableRef {
	tables := make([]TableRef, 0, 1+len(s.Joins))
	tables = append(tables, s.From)
	for _, j := range s.Joins {
		tables = append(tables, j.Table)
	}
	return tables
}

// HasAggregation reports whether any SELECT item is a SUM aggregate.
func (s *SelectStatement) HasAggregation() bool {
	for _, c := range s.Columns {
		if c.IsSum {
			return true
		}
	}
	return false
}
