// Package parser is a hand-rolled recursive-descent parser over BlazeDB's
// supported SELECT grammar. It performs no schema resolution and no
// semantic validation beyond grammar shape; resolving column references
// happens later, in the planner and evaluator.
package parser

import (
	"strconv"

	"blazedb/pkg/ast"
	"blazedb/pkg/blazeerr"
	"blazedb/pkg/expr"
	"blazedb/pkg/lexer"
)

// Parse parses a single SELECT statement from src.
func Parse(src string) (*ast.SelectStatement, error) {
	p := &parser{lex: lexer.New(src)}
	stmt, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}

	if tok := p.next(); tok.Type != lexer.EOF {
		return nil, parseErrf("unexpected trailing input %q", tok.Value)
	}

	return stmt, nil
}

type parser struct {
	lex *lexer.Lexer
}

func parseErrf(format string, args ...any) error {
	return blazeerr.Newf(blazeerr.ParseError, format, args...)
}

func (p *parser) next() lexer.Token {
	return p.lex.NextToken()
}

// putBack rewinds the lexer so tok will be re-scanned by the next call to
// next(). This implements single-token lookahead.
func (p *parser) putBack(tok lexer.Token) {
	p.lex.SetPos(tok.Position)
}

func (p *parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, parseErrf("expected %s, got %q (%s)", tt, tok.Value, tok.Type)
	}
	return tok, nil
}

func (p *parser) parseSelectStatement() (*ast.SelectStatement, error) {
	if _, err := p.expect(lexer.SELECT); err != nil {
		return nil, err
	}

	stmt := &ast.SelectStatement{}

	if tok := p.next(); tok.Type == lexer.DISTINCT {
		stmt.Distinct = true
	} else {
		p.putBack(tok)
	}

	if err := p.parseSelectList(stmt); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}

	from, err := p.parseTableRef()
	if err != nil {
		return nil, err
	}
	stmt.From = from

	if err := p.parseJoins(stmt); err != nil {
		return nil, err
	}

	if err := p.parseWhere(stmt); err != nil {
		return nil, err
	}

	if err := p.parseGroupBy(stmt); err != nil {
		return nil, err
	}

	if err := p.parseOrderBy(stmt); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) parseSelectList(stmt *ast.SelectStatement) error {
	tok := p.next()
	if tok.Type == lexer.STAR {
		stmt.Star = true
		return nil
	}
	p.putBack(tok)

	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return err
		}
		stmt.Columns = append(stmt.Columns, item)

		if tok := p.next(); tok.Type == lexer.COMMA {
			continue
		} else {
			p.putBack(tok)
			break
		}
	}

	return nil
}

func (p *parser) parseSelectItem() (ast.SelectItem, error) {
	tok := p.next()
	if tok.Type == lexer.SUM {
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return ast.SelectItem{}, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return ast.SelectItem{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return ast.SelectItem{}, err
		}
		return ast.SelectItem{Expr: e, IsSum: true}, nil
	}
	p.putBack(tok)

	e, err := p.parseExpr()
	if err != nil {
		return ast.SelectItem{}, err
	}
	return ast.SelectItem{Expr: e}, nil
}

func (p *parser) parseTableRef() (ast.TableRef, error) {
	tok, err := p.expect(lexer.IDENTIFIER)
	if err != nil {
		return ast.TableRef{}, parseErrf("expected table name, got %q", tok.Value)
	}
	ref := ast.TableRef{Name: tok.Value, Alias: tok.Value}

	if alias := p.next(); alias.Type == lexer.IDENTIFIER {
		ref.Alias = alias.Value
	} else {
		p.putBack(alias)
	}

	return ref, nil
}

func (p *parser) parseJoins(stmt *ast.SelectStatement) error {
	for {
		tok := p.next()
		if tok.Type != lexer.JOIN && tok.Type != lexer.COMMA {
			p.putBack(tok)
			return nil
		}

		table, err := p.parseTableRef()
		if err != nil {
			return err
		}

		// ON is optional after JOIN and absent after a comma; a nil On is
		// a join whose predicate comes from WHERE, or a cross join.
		var on *expr.Expr
		if onTok := p.next(); tok.Type == lexer.JOIN && onTok.Type == lexer.ON {
			if on, err = p.parseExpr(); err != nil {
				return err
			}
		} else {
			p.putBack(onTok)
		}

		stmt.Joins = append(stmt.Joins, ast.JoinClause{Table: table, On: on})
	}
}

func (p *parser) parseWhere(stmt *ast.SelectStatement) error {
	tok := p.next()
	if tok.Type != lexer.WHERE {
		p.putBack(tok)
		return nil
	}

	where, err := p.parseExpr()
	if err != nil {
		return err
	}
	stmt.Where = where
	return nil
}

func (p *parser) parseGroupBy(stmt *ast.SelectStatement) error {
	tok := p.next()
	if tok.Type != lexer.GROUP {
		p.putBack(tok)
		return nil
	}

	if _, err := p.expect(lexer.BY); err != nil {
		return err
	}

	for {
		e, err := p.parseExpr()
		if err != nil {
			return err
		}
		stmt.GroupBy = append(stmt.GroupBy, e)

		if tok := p.next(); tok.Type == lexer.COMMA {
			continue
		} else {
			p.putBack(tok)
			return nil
		}
	}
}

func (p *parser) parseOrderBy(stmt *ast.SelectStatement) error {
	tok := p.next()
	if tok.Type != lexer.ORDER {
		p.putBack(tok)
		return nil
	}

	if _, err := p.expect(lexer.BY); err != nil {
		return err
	}

	for {
		item, err := p.parseOrderItem()
		if err != nil {
			return err
		}
		stmt.OrderBy = append(stmt.OrderBy, item)

		if tok := p.next(); tok.Type == lexer.COMMA {
			continue
		} else {
			p.putBack(tok)
			return nil
		}
	}
}

func (p *parser) parseOrderItem() (ast.OrderItem, error) {
	tok := p.next()
	isSum := false
	var e *expr.Expr
	var err error

	if tok.Type == lexer.SUM {
		isSum = true
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return ast.OrderItem{}, err
		}
		e, err = p.parseExpr()
		if err != nil {
			return ast.OrderItem{}, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return ast.OrderItem{}, err
		}
	} else {
		p.putBack(tok)
		e, err = p.parseExpr()
		if err != nil {
			return ast.OrderItem{}, err
		}
	}

	item := ast.OrderItem{Expr: e, IsSum: isSum}
	if dir := p.next(); dir.Type == lexer.DESC {
		item.Desc = true
	} else if dir.Type == lexer.ASC {
		item.Desc = false
	} else {
		p.putBack(dir)
	}

	return item, nil
}

// expr := andExpr
func (p *parser) parseExpr() (*expr.Expr, error) {
	return p.parseAnd()
}

// andExpr := cmpExpr (AND cmpExpr)*
func (p *parser) parseAnd() (*expr.Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.next()
		if tok.Type != lexer.AND {
			p.putBack(tok)
			return left, nil
		}

		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(expr.And, left, right)
	}
}

var cmpKinds = map[lexer.TokenType]expr.Kind{
	lexer.EQ:  expr.Eq,
	lexer.NEQ: expr.Neq,
	lexer.LT:  expr.Lt,
	lexer.LTE: expr.Lte,
	lexer.GT:  expr.Gt,
	lexer.GTE: expr.Gte,
}

// cmpExpr := addExpr (('='|'<>'|'<'|'<='|'>'|'>=') addExpr)?
func (p *parser) parseCmp() (*expr.Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}

	tok := p.next()
	kind, ok := cmpKinds[tok.Type]
	if !ok {
		p.putBack(tok)
		return left, nil
	}

	right, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	return expr.NewBinary(kind, left, right), nil
}

// addExpr := mulExpr ('+' mulExpr)*
func (p *parser) parseAdd() (*expr.Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.next()
		if tok.Type != lexer.PLUS {
			p.putBack(tok)
			return left, nil
		}

		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(expr.Add, left, right)
	}
}

// mulExpr := unary ('*' unary)*
func (p *parser) parseMul() (*expr.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.next()
		if tok.Type != lexer.STAR {
			p.putBack(tok)
			return left, nil
		}

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = expr.NewBinary(expr.Mul, left, right)
	}
}

// unary := '(' expr ')' | INTEGER | columnRef
//
// SUM(expr) is parsed only where the grammar allows an aggregate: at the
// top level of a SELECT item or ORDER BY item (see parseSelectItem,
// parseOrderItem). It never appears as a general sub-expression, since
// SUM is always the whole aggregate argument, never a value combined by
// arithmetic with other values.
func (p *parser) parseUnary() (*expr.Expr, error) {
	tok := p.next()

	switch tok.Type {
	case lexer.LPAREN:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.INTEGER:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, parseErrf("invalid integer literal %q", tok.Value)
		}
		return expr.NewLiteral(v), nil

	case lexer.IDENTIFIER:
		return p.parseColumnRef(tok)

	default:
		return nil, parseErrf("unexpected token %q (%s) in expression", tok.Value, tok.Type)
	}
}

// columnRef := identifier ['.' identifier]
func (p *parser) parseColumnRef(first lexer.Token) (*expr.Expr, error) {
	name := first.Value

	tok := p.next()
	if tok.Type == lexer.DOT {
		col, err := p.expect(lexer.IDENTIFIER)
		if err != nil {
			return nil, parseErrf("expected column name after '.', got %q", col.Value)
		}
		name = name + "." + col.Value
	} else {
		p.putBack(tok)
	}

	return expr.NewColumn(name), nil
}
