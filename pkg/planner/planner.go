// Package planner turns a parsed SELECT statement into an executable
// operator tree: scan, local filter, left-deep join, projection, optional
// aggregation/distinct, and a final projection plus sort.
package planner

import (
	"strconv"
	"strings"

	"blazedb/pkg/ast"
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/catalog"
	"blazedb/pkg/csv"
	"blazedb/pkg/expr"
	"blazedb/pkg/iterator"
	"blazedb/pkg/logging"
	"blazedb/pkg/ops"
	"blazedb/pkg/schema"
)

const component = "planner"

// Plan is the planner's output: the operator tree root plus the schema
// mapping accompanying it, so a driver may optionally serialize a header.
type Plan struct {
	Root   iterator.Operator
	Schema *schema.Schema
}

// Build compiles stmt into an executable Plan against cat.
func Build(stmt *ast.SelectStatement, cat *catalog.Catalog) (*Plan, error) {
	log := logging.WithComponent(component)

	conjuncts := newConjunctSet(stmt.Where)

	root, sch, err := buildJoinTree(stmt, conjuncts, cat)
	if err != nil {
		return nil, err
	}

	if unresolved := conjuncts.remaining(); len(unresolved) > 0 {
		return nil, blazeerr.Newf(blazeerr.ParseError,
			"predicate %q could not be placed as a local or join predicate (it references columns from more than two tables, or no table-qualified column), which this planner's left-deep WHERE decomposition does not support",
			expr.Describe(unresolved[0]))
	}

	needed := neededColumns(stmt, sch)

	if stmt.HasAggregation() {
		root, sch, err = buildAggregationPath(stmt, root, sch, needed)
	} else {
		root, sch, err = buildProjectionPath(stmt, root, sch, needed)
	}
	if err != nil {
		return nil, err
	}

	// ORDER BY is applied beneath the final projection, so sort keys that
	// are not in the SELECT list are still present in the schema it sorts.
	root, sch, err = buildOrderBy(stmt, root, sch)
	if err != nil {
		return nil, err
	}

	root, sch, err = buildFinalProjection(stmt, root, sch)
	if err != nil {
		return nil, err
	}

	log.Debug("plan built", "tables", len(stmt.Tables()), "columns", sch.Len())
	return &Plan{Root: root, Schema: sch}, nil
}

// ============================================================================
// SCAN + LOCAL FILTER (step 2)
// ============================================================================

func buildScan(ref ast.TableRef, cat *catalog.Catalog) (iterator.Operator, *schema.Schema, error) {
	info, err := cat.Resolve(ref.Name)
	if err != nil {
		return nil, nil, err
	}

	cols := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		_, bare := splitQualified(c)
		cols[i] = ref.Alias + "." + bare
	}

	scan, err := csv.New(ref.Alias, info.Path, false, cols)
	if err != nil {
		return nil, nil, err
	}

	return scan, schema.New(cols), nil
}

func buildScanWithLocalFilter(ref ast.TableRef, conjuncts *conjunctSet, cat *catalog.Catalog) (iterator.Operator, *schema.Schema, error) {
	scan, sch, err := buildScan(ref, cat)
	if err != nil {
		return nil, nil, err
	}

	local := conjuncts.takeLocal(ref.Alias)
	if local == nil {
		return scan, sch, nil
	}

	sel, err := ops.NewSelect(scan, local, sch)
	if err != nil {
		return nil, nil, err
	}
	return sel, sch, nil
}

// ============================================================================
// LEFT-DEEP JOIN TREE (step 3)
// ============================================================================

func buildJoinTree(stmt *ast.SelectStatement, conjuncts *conjunctSet, cat *catalog.Catalog) (iterator.Operator, *schema.Schema, error) {
	root, sch, err := buildScanWithLocalFilter(stmt.From, conjuncts, cat)
	if err != nil {
		return nil, nil, err
	}
	builtAliases := map[string]bool{stmt.From.Alias: true}

	for _, jc := range stmt.Joins {
		rightOp, rightSch, err := buildScanWithLocalFilter(jc.Table, conjuncts, cat)
		if err != nil {
			return nil, nil, err
		}

		fromWhere := conjuncts.takeJoin(builtAliases, jc.Table.Alias)
		joinPred := expr.Combine(nonNil(jc.On, fromWhere))
		combined := sch.Concat(rightSch)

		joined, err := ops.NewJoin(root, rightOp, joinPred, combined)
		if err != nil {
			return nil, nil, err
		}

		root = joined
		sch = combined
		builtAliases[jc.Table.Alias] = true
	}

	return root, sch, nil
}

// nonNil returns the non-nil elements of es, preserving order.
func nonNil(es ...*expr.Expr) []*expr.Expr {
	out := make([]*expr.Expr, 0, len(es))
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// ============================================================================
// NEEDED COLUMNS (step 4)
// ============================================================================

func neededColumns(stmt *ast.SelectStatement, joinSch *schema.Schema) []string {
	if stmt.Star {
		return joinSch.Columns()
	}

	seen := map[string]bool{}
	var out []string
	add := func(cols []string) {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}

	for _, c := range stmt.Columns {
		add(expr.Columns(c.Expr))
	}
	add(expr.Columns(stmt.Where))
	for _, g := range stmt.GroupBy {
		add(expr.Columns(g))
	}
	for _, o := range stmt.OrderBy {
		add(expr.Columns(o.Expr))
	}

	return out
}

// ============================================================================
// NON-AGGREGATION PATH (step 5) + DISTINCT (step 7)
// ============================================================================

func buildProjectionPath(stmt *ast.SelectStatement, root iterator.Operator, sch *schema.Schema, needed []string) (iterator.Operator, *schema.Schema, error) {
	cols := append([]string{}, needed...)
	for _, o := range stmt.OrderBy {
		for _, c := range expr.Columns(o.Expr) {
			if !contains(cols, c) {
				cols = append(cols, c)
			}
		}
	}

	proj, err := ops.NewProject(root, cols, sch)
	if err != nil {
		return nil, nil, err
	}
	root, sch = proj, proj.Schema()

	if stmt.Distinct || len(stmt.GroupBy) > 0 {
		d, err := ops.NewDuplicateElimination(root, sch)
		if err != nil {
			return nil, nil, err
		}
		root = d
	}

	return root, sch, nil
}

// ============================================================================
// AGGREGATION PATH (step 6)
// ============================================================================

func buildAggregationPath(stmt *ast.SelectStatement, root iterator.Operator, sch *schema.Schema, needed []string) (iterator.Operator, *schema.Schema, error) {
	var groupBy *expr.Expr
	if len(stmt.GroupBy) > 0 {
		groupBy = stmt.GroupBy[0]
	}

	var sums []*expr.Expr
	for _, c := range stmt.Columns {
		if c.IsSum {
			sums = append(sums, rewriteLiteralSum(c.Expr))
		}
	}
	if len(sums) == 0 {
		return nil, nil, blazeerr.New(blazeerr.ParseError, "aggregation query has no SUM expression in its SELECT list")
	}

	cols := append([]string{}, needed...)
	proj, err := ops.NewProject(root, cols, sch)
	if err != nil {
		return nil, nil, err
	}

	agg, err := ops.NewAggregation(proj, groupBy, sums, proj.Schema())
	if err != nil {
		return nil, nil, err
	}

	return agg, agg.Schema(), nil
}

// rewriteLiteralSum replaces a bare integer-literal SUM argument SUM(k)
// with the synthetic literalContribution(k) leaf, so the aggregation
// operator's inner loop stays uniform.
func rewriteLiteralSum(e *expr.Expr) *expr.Expr {
	if e.Kind == expr.Literal {
		return expr.NewLiteralContribution(e.Literal)
	}
	return e
}

// ============================================================================
// FINAL PROJECTION (step 8)
// ============================================================================

func buildFinalProjection(stmt *ast.SelectStatement, root iterator.Operator, sch *schema.Schema) (iterator.Operator, *schema.Schema, error) {
	if stmt.Star {
		return root, sch, nil
	}

	if stmt.HasAggregation() {
		return buildAggregationFinalProjection(stmt, root, sch)
	}

	cols := make([]string, 0, len(stmt.Columns))
	for _, c := range stmt.Columns {
		if c.Expr.Kind != expr.Column {
			return nil, nil, blazeerr.Newf(blazeerr.Unsupported, "SELECT item %q is not a plain column reference", expr.Describe(c.Expr))
		}
		cols = append(cols, c.Expr.Column)
	}

	proj, err := ops.NewProject(root, cols, sch)
	if err != nil {
		return nil, nil, err
	}
	return proj, proj.Schema(), nil
}

// buildAggregationFinalProjection maps the aggregation operator's emitted
// (Group, SUM) or (SUM_0 .. SUM_{k-1}) schema onto the SELECT list's
// requested order of GROUP vs SUM items.
func buildAggregationFinalProjection(stmt *ast.SelectStatement, root iterator.Operator, sch *schema.Schema) (iterator.Operator, *schema.Schema, error) {
	cols := make([]string, 0, len(stmt.Columns))
	sumIdx := 0

	for _, c := range stmt.Columns {
		if c.IsSum {
			if sch.Has("SUM") {
				cols = append(cols, "SUM")
			} else {
				cols = append(cols, "SUM_"+strconv.Itoa(sumIdx))
			}
			sumIdx++
			continue
		}
		cols = append(cols, "Group")
	}

	proj, err := ops.NewProject(root, cols, sch)
	if err != nil {
		return nil, nil, err
	}
	return proj, proj.Schema(), nil
}

// ============================================================================
// ORDER BY (step 9)
// ============================================================================

func buildOrderBy(stmt *ast.SelectStatement, root iterator.Operator, sch *schema.Schema) (iterator.Operator, *schema.Schema, error) {
	if len(stmt.OrderBy) == 0 {
		return root, sch, nil
	}

	keys := make([]ops.SortKey, 0, len(stmt.OrderBy))
	for _, item := range stmt.OrderBy {
		e := item.Expr
		if item.IsSum {
			e = rewriteOrderBySum(sch)
		} else if stmt.HasAggregation() && len(stmt.GroupBy) > 0 && e.Kind == expr.Column && e.Column == stmt.GroupBy[0].Column {
			// The grouping column is emitted by the aggregation as "Group".
			e = expr.NewColumn("Group")
		}
		if e.Kind != expr.Column {
			return nil, nil, blazeerr.Newf(blazeerr.Unsupported, "ORDER BY item %q is not a column reference", expr.Describe(item.Expr))
		}
		keys = append(keys, ops.SortKey{Expr: e, Desc: item.Desc})
	}

	s, err := ops.NewSort(root, keys, sch)
	if err != nil {
		return nil, nil, err
	}
	return s, sch, nil
}

// rewriteOrderBySum rewrites a SUM(expr) ORDER BY item to reference the
// aggregation operator's emitted column name instead.
func rewriteOrderBySum(sch *schema.Schema) *expr.Expr {
	if sch.Has("SUM") {
		return expr.NewColumn("SUM")
	}
	return expr.NewColumn("SUM_0")
}

// ============================================================================
// WHERE DECOMPOSITION
// ============================================================================

// conjunctSet tracks the WHERE clause's top-level AND conjuncts and which
// ones have been consumed as a local or join predicate.
type conjunctSet struct {
	all      []*expr.Expr
	consumed []bool
	tableSet [][]string // qualifiers (table aliases) referenced by each conjunct
}

func newConjunctSet(where *expr.Expr) *conjunctSet {
	conjuncts := expr.Conjuncts(where)
	cs := &conjunctSet{
		all:      conjuncts,
		consumed: make([]bool, len(conjuncts)),
		tableSet: make([][]string, len(conjuncts)),
	}
	for i, c := range conjuncts {
		cs.tableSet[i] = tableQualifiers(c)
	}
	return cs
}

// takeLocal consumes and combines every unconsumed conjunct that references
// only alias.
func (cs *conjunctSet) takeLocal(alias string) *expr.Expr {
	var picked []*expr.Expr
	for i, c := range cs.all {
		if cs.consumed[i] {
			continue
		}
		if len(cs.tableSet[i]) == 1 && cs.tableSet[i][0] == alias {
			cs.consumed[i] = true
			picked = append(picked, c)
		}
	}
	return expr.Combine(picked)
}

// takeJoin consumes and combines every unconsumed conjunct whose columns
// come from exactly two tables: rightAlias and one table in leftAliases.
// The number of columns referenced on each side is not restricted.
func (cs *conjunctSet) takeJoin(leftAliases map[string]bool, rightAlias string) *expr.Expr {
	var picked []*expr.Expr
	for i, c := range cs.all {
		if cs.consumed[i] {
			continue
		}
		ts := cs.tableSet[i]
		if len(ts) != 2 {
			continue
		}
		a, b := ts[0], ts[1]
		matches := (a == rightAlias && leftAliases[b]) || (b == rightAlias && leftAliases[a])
		if !matches {
			continue
		}
		cs.consumed[i] = true
		picked = append(picked, c)
	}
	return expr.Combine(picked)
}

// remaining returns every conjunct never consumed as local or join: one
// referencing columns from three or more tables, or one with no
// table-qualified column (e.g. a bare column name or only literals).
func (cs *conjunctSet) remaining() []*expr.Expr {
	var out []*expr.Expr
	for i, c := range cs.all {
		if !cs.consumed[i] {
			out = append(out, c)
		}
	}
	return out
}

// tableQualifiers returns the distinct table-alias qualifiers referenced by
// e's columns, in first-occurrence order.
func tableQualifiers(e *expr.Expr) []string {
	cols := expr.Columns(e)
	seen := map[string]bool{}
	var out []string
	for _, c := range cols {
		q, _ := splitQualified(c)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// splitQualified splits "Alias.Column" into ("Alias", "Column"). An
// unqualified name returns ("", name).
func splitQualified(name string) (qualifier, bare string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
