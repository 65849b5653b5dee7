package expr

// Conjuncts splits e by recursive descent through And nodes, returning the
// flat list of top-level conjuncts. A nil e yields an empty list. A
// non-And, non-nil e yields a single-element list containing e itself.
func Conjuncts(e *Expr) []*Expr {
	if e == nil {
		return nil
	}
	if e.Kind != And {
		return []*Expr{e}
	}
	return append(Conjuncts(e.Left), Conjuncts(e.Right)...)
}

// Combine joins a list of conjuncts back into a single expression with
// And, left-associatively. Returns nil for an empty list.
func Combine(conjuncts []*Expr) *Expr {
	if len(conjuncts) == 0 {
		return nil
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = NewBinary(And, result, c)
	}
	return result
}

// Columns returns every column name referenced anywhere in e, in
// first-occurrence order, without duplicates.
func Columns(e *Expr) []string {
	var out []string
	seen := make(map[string]bool)
	walkColumns(e, &out, seen)
	return out
}

func walkColumns(e *Expr, out *[]string, seen map[string]bool) {
	if e == nil {
		return
	}
	switch e.Kind {
	case Column:
		if !seen[e.Column] {
			seen[e.Column] = true
			*out = append(*out, e.Column)
		}
	case Literal, LiteralContribution:
		return
	default:
		walkColumns(e.Left, out, seen)
		walkColumns(e.Right, out, seen)
	}
}
