package parser

import (
	"github.com/kolkov/sawk/internal/ast"
	"github.com/kolkov/sawk/internal/lexer"
	"github.com/kolkov/sawk/internal/token"
	"github.com/kolkov/sawk/internal/types"
)

// Parser parses sawk source into an AST.
// Errors abort parsing via panic and are recovered in Parse.
type Parser struct {
	lex *lexer.Lexer
	tok lexer.Token // current token
}

// Parse parses a complete program.
func Parse(src string) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				prog = nil
				err = pe
				return
			}
			panic(r)
		}
	}()

	p := &Parser{lex: lexer.New(src)}
	p.next()
	return p.parseProgram(), nil
}

// ParseExpr parses a single expression, for embedding and the REPL.
func ParseExpr(src string) (expr ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				expr = nil
				err = pe
				return
			}
			panic(r)
		}
	}()

	p := &Parser{lex: lexer.New(src)}
	p.next()
	e := p.parseExpr()
	p.skipTerminators()
	if p.tok.Type != token.EOF {
		panic(errorf(p.tok.Pos, "unexpected %s after expression", p.tokenDesc()))
	}
	return e, nil
}

// -----------------------------------------------------------------------------
// Token plumbing
// -----------------------------------------------------------------------------

func (p *Parser) next() {
	p.tok = p.lex.Scan()
	if p.tok.Type == token.ILLEGAL {
		panic(errorf(p.tok.Pos, "%s", p.tok.Value))
	}
}

func (p *Parser) expect(tok token.Token) {
	if p.tok.Type != tok {
		panic(errorf(p.tok.Pos, "expected %s, got %s", tok, p.tokenDesc()))
	}
	p.next()
}

func (p *Parser) expectName() string {
	if p.tok.Type != token.NAME {
		panic(errorf(p.tok.Pos, "expected name, got %s", p.tokenDesc()))
	}
	name := p.tok.Value
	p.next()
	return name
}

func (p *Parser) tokenDesc() string {
	if p.tok.Type == token.NAME || p.tok.Type == token.NUMBER || p.tok.Type == token.STRING {
		return "\"" + p.tok.Value + "\""
	}
	return p.tok.Type.String()
}

func (p *Parser) optionalNewlines() {
	for p.tok.Type == token.NEWLINE {
		p.next()
	}
}

func (p *Parser) isTerminator() bool {
	switch p.tok.Type {
	case token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF:
		return true
	}
	return false
}

func (p *Parser) skipTerminators() {
	for p.tok.Type == token.NEWLINE || p.tok.Type == token.SEMICOLON {
		p.next()
	}
}

// -----------------------------------------------------------------------------
// Top level
// -----------------------------------------------------------------------------

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for {
		p.skipTerminators()
		switch p.tok.Type {
		case token.EOF:
			return prog
		case token.FUNCTION:
			prog.Functions = append(prog.Functions, p.parseFunction())
		case token.BEGIN:
			p.next()
			p.optionalNewlines()
			prog.Begin = append(prog.Begin, p.parseBlock())
		case token.END:
			p.next()
			p.optionalNewlines()
			prog.EndBlocks = append(prog.EndBlocks, p.parseBlock())
		default:
			prog.Rules = append(prog.Rules, p.parseRule())
		}
	}
}

func (p *Parser) parseRule() *ast.Rule {
	rule := &ast.Rule{}
	if p.tok.Type != token.LBRACE {
		rule.Pattern = p.parseExpr()
		if p.tok.Type == token.COMMA {
			p.next()
			p.optionalNewlines()
			rule.RangeEnd = p.parseExpr()
		}
	}
	if p.tok.Type == token.LBRACE {
		rule.Action = p.parseBlock()
	} else if rule.Pattern == nil {
		panic(errorf(p.tok.Pos, "expected pattern or action, got %s", p.tokenDesc()))
	}
	return rule
}

func (p *Parser) parseFunction() *ast.FuncDecl {
	p.expect(token.FUNCTION)
	fn := &ast.FuncDecl{Name: p.expectName()}
	p.expect(token.LPAREN)
	for p.tok.Type != token.RPAREN {
		fn.Params = append(fn.Params, p.expectName())
		if p.tok.Type == token.COMMA {
			p.next()
			p.optionalNewlines()
		}
	}
	p.expect(token.RPAREN)
	p.optionalNewlines()
	fn.Body = p.parseBlock()
	return fn
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (p *Parser) parseBlock() *ast.BlockStmt {
	p.expect(token.LBRACE)
	block := &ast.BlockStmt{}
	for {
		p.skipTerminators()
		if p.tok.Type == token.RBRACE || p.tok.Type == token.EOF {
			break
		}
		block.Stmts = append(block.Stmts, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.tok.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.BREAK:
		p.next()
		return &ast.BreakStmt{}
	case token.CONTINUE:
		p.next()
		return &ast.ContinueStmt{}
	case token.NEXT:
		p.next()
		return &ast.NextStmt{}
	case token.NEXTFILE:
		p.next()
		return &ast.NextFileStmt{}
	case token.RETURN:
		p.next()
		st := &ast.ReturnStmt{}
		if !p.isTerminator() {
			st.Value = p.parseExpr()
		}
		return st
	case token.EXIT:
		p.next()
		st := &ast.ExitStmt{}
		if !p.isTerminator() {
			st.Code = p.parseExpr()
		}
		return st
	case token.DELETE:
		return p.parseDeleteStmt()
	case token.PRINT, token.PRINTF:
		return p.parsePrintStmt()
	default:
		return &ast.ExprStmt{Expr: p.parseExpr()}
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	p.expect(token.IF)
	p.expect(token.LPAREN)
	st := &ast.IfStmt{Cond: p.parseExpr()}
	p.expect(token.RPAREN)
	p.optionalNewlines()
	st.Then = p.parseStmt()
	p.skipTerminators()
	if p.tok.Type == token.ELSE {
		p.next()
		p.optionalNewlines()
		st.Else = p.parseStmt()
	}
	return st
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	st := &ast.WhileStmt{Cond: p.parseExpr()}
	p.expect(token.RPAREN)
	p.optionalNewlines()
	st.Body = p.parseStmt()
	return st
}

func (p *Parser) parseDoWhileStmt() *ast.DoWhileStmt {
	p.expect(token.DO)
	p.optionalNewlines()
	st := &ast.DoWhileStmt{Body: p.parseStmt()}
	p.skipTerminators()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	st.Cond = p.parseExpr()
	p.expect(token.RPAREN)
	return st
}

func (p *Parser) parseForStmt() ast.Stmt {
	p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	if p.tok.Type != token.SEMICOLON {
		init = &ast.ExprStmt{Expr: p.parseExpr()}
		// for (key in arr) form
		if es, ok := init.(*ast.ExprStmt); ok {
			if in, ok := es.Expr.(*ast.InExpr); ok && p.tok.Type == token.RPAREN {
				if len(in.Index) != 1 {
					panic(errorf(p.tok.Pos, "for-in needs a single loop variable"))
				}
				v, ok := in.Index[0].(*ast.Ident)
				if !ok {
					panic(errorf(p.tok.Pos, "for-in loop variable must be a name"))
				}
				p.next() // consume )
				p.optionalNewlines()
				return &ast.ForInStmt{Var: v, Array: in.Array, Body: p.parseStmt()}
			}
		}
	}
	p.expect(token.SEMICOLON)
	p.optionalNewlines()

	st := &ast.ForStmt{Init: init}
	if p.tok.Type != token.SEMICOLON {
		st.Cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON)
	p.optionalNewlines()

	if p.tok.Type != token.RPAREN {
		st.Post = &ast.ExprStmt{Expr: p.parseExpr()}
	}
	p.expect(token.RPAREN)
	p.optionalNewlines()
	st.Body = p.parseStmt()
	return st
}

func (p *Parser) parseDeleteStmt() *ast.DeleteStmt {
	p.expect(token.DELETE)
	st := &ast.DeleteStmt{Array: p.expectName()}
	if p.tok.Type == token.LBRACKET {
		p.next()
		st.Index = p.parseExprList()
		p.expect(token.RBRACKET)
	}
	return st
}

func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	st := &ast.PrintStmt{Printf: p.tok.Type == token.PRINTF}
	p.next()
	if !p.isTerminator() {
		st.Args = p.parseExprList()
	}
	if st.Printf && len(st.Args) == 0 {
		panic(errorf(p.tok.Pos, "printf needs a format argument"))
	}
	return st
}

// -----------------------------------------------------------------------------
// Expressions, lowest to highest precedence
// -----------------------------------------------------------------------------

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() ast.Expr {
	left := p.parseTernary()
	switch p.tok.Type {
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN, token.POW_ASSIGN:
		if !ast.IsLValue(left) {
			panic(errorf(p.tok.Pos, "assignment target must be a variable, field, or array element"))
		}
		op := p.tok.Type
		p.next()
		p.optionalNewlines()
		// Right-associative: a = b = c
		return &ast.AssignExpr{Left: left, Op: op, Right: p.parseAssign()}
	}
	return left
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseOr()
	if p.tok.Type != token.QUESTION {
		return cond
	}
	p.next()
	p.optionalNewlines()
	then := p.parseTernary()
	p.expect(token.COLON)
	p.optionalNewlines()
	return &ast.TernaryExpr{Cond: cond, Then: then, Else: p.parseTernary()}
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.tok.Type == token.OR {
		p.next()
		p.optionalNewlines()
		left = &ast.BinaryExpr{Left: left, Op: token.OR, Right: p.parseAnd()}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseIn()
	for p.tok.Type == token.AND {
		p.next()
		p.optionalNewlines()
		left = &ast.BinaryExpr{Left: left, Op: token.AND, Right: p.parseIn()}
	}
	return left
}

func (p *Parser) parseIn() ast.Expr {
	left := p.parseMatch()
	for p.tok.Type == token.IN {
		p.next()
		name := p.expectName()
		left = &ast.InExpr{Index: indexList(left), Array: name}
	}
	return left
}

// indexList flattens a parenthesized tuple into a subscript list,
// so that (i, j) in arr tests the SUBSEP-joined key.
func indexList(e ast.Expr) []ast.Expr {
	if t, ok := e.(*ast.TupleExpr); ok {
		return t.Exprs
	}
	return []ast.Expr{e}
}

func (p *Parser) parseMatch() ast.Expr {
	left := p.parseCompare()
	for p.tok.Type == token.MATCH || p.tok.Type == token.NOT_MATCH {
		op := p.tok.Type
		p.next()
		p.optionalNewlines()
		left = &ast.MatchExpr{Expr: left, Op: op, Pattern: p.parseCompare()}
	}
	return left
}

func (p *Parser) parseCompare() ast.Expr {
	left := p.parseConcat()
	switch p.tok.Type {
	case token.LESS, token.LTE, token.GREATER, token.GTE, token.EQUALS, token.NOT_EQUALS:
		op := p.tok.Type
		p.next()
		p.optionalNewlines()
		return &ast.BinaryExpr{Left: left, Op: op, Right: p.parseConcat()}
	}
	return left
}

func (p *Parser) parseConcat() ast.Expr {
	expr := p.parseAdd()
	var parts []ast.Expr
	for p.canStartConcatOperand() {
		if parts == nil {
			parts = []ast.Expr{expr}
		}
		parts = append(parts, p.parseAdd())
	}
	if parts != nil {
		return &ast.ConcatExpr{Exprs: parts}
	}
	return expr
}

// canStartConcatOperand reports whether the current token can begin the
// next operand of an implicit concatenation. +/- are excluded so that
// "a - b" stays a subtraction.
func (p *Parser) canStartConcatOperand() bool {
	switch p.tok.Type {
	case token.NUMBER, token.STRING, token.NAME, token.REGEX,
		token.DOLLAR, token.NOT, token.LPAREN, token.INCR, token.DECR:
		return true
	}
	return false
}

func (p *Parser) parseAdd() ast.Expr {
	left := p.parseMul()
	for p.tok.Type == token.ADD || p.tok.Type == token.SUB {
		op := p.tok.Type
		p.next()
		p.optionalNewlines()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.parseMul()}
	}
	return left
}

func (p *Parser) parseMul() ast.Expr {
	left := p.parseUnary()
	for p.tok.Type == token.MUL || p.tok.Type == token.DIV || p.tok.Type == token.MOD {
		op := p.tok.Type
		p.next()
		p.optionalNewlines()
		left = &ast.BinaryExpr{Left: left, Op: op, Right: p.parseUnary()}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.tok.Type {
	case token.NOT, token.SUB, token.ADD:
		op := p.tok.Type
		p.next()
		return &ast.UnaryExpr{Op: op, Expr: p.parseUnary()}
	}
	return p.parsePow()
}

func (p *Parser) parsePow() ast.Expr {
	base := p.parsePostfix()
	if p.tok.Type == token.POW {
		p.next()
		// Right-associative, and the exponent may be unary: 2^-3
		return &ast.BinaryExpr{Left: base, Op: token.POW, Right: p.parseUnary()}
	}
	return base
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	if (p.tok.Type == token.INCR || p.tok.Type == token.DECR) && ast.IsLValue(expr) {
		op := p.tok.Type
		p.next()
		return &ast.IncrExpr{Op: op, Post: true, Target: expr}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Type {
	case token.NUMBER:
		n, err := types.ParseNum(p.tok.Value)
		if err != nil {
			panic(errorf(p.tok.Pos, "invalid number %q", p.tok.Value))
		}
		p.next()
		return &ast.NumLit{Value: n}

	case token.STRING:
		s := p.tok.Value
		p.next()
		return &ast.StrLit{Value: s}

	case token.REGEX:
		pat := p.tok.Value
		p.next()
		return &ast.RegexLit{Pattern: pat}

	case token.DOLLAR:
		p.next()
		return &ast.FieldExpr{Index: p.parsePrimary()}

	case token.INCR, token.DECR:
		op := p.tok.Type
		pos := p.tok.Pos
		p.next()
		target := p.parsePrimary()
		if !ast.IsLValue(target) {
			panic(errorf(pos, "%s target must be a variable, field, or array element", op))
		}
		return &ast.IncrExpr{Op: op, Post: false, Target: target}

	case token.GETLINE:
		return p.parseGetline()

	case token.LPAREN:
		p.next()
		p.optionalNewlines()
		exprs := []ast.Expr{p.parseExpr()}
		for p.tok.Type == token.COMMA {
			p.next()
			p.optionalNewlines()
			exprs = append(exprs, p.parseExpr())
		}
		p.expect(token.RPAREN)
		if len(exprs) > 1 {
			return &ast.TupleExpr{Exprs: exprs}
		}
		return exprs[0]

	case token.NAME:
		name := p.tok.Value
		p.next()
		switch p.tok.Type {
		case token.LPAREN:
			p.next()
			p.optionalNewlines()
			call := &ast.CallExpr{Name: name}
			if p.tok.Type != token.RPAREN {
				call.Args = p.parseExprList()
			}
			p.expect(token.RPAREN)
			return call
		case token.LBRACKET:
			p.next()
			idx := &ast.IndexExpr{Name: name, Index: p.parseExprList()}
			p.expect(token.RBRACKET)
			return idx
		}
		return &ast.Ident{Name: name}

	default:
		panic(errorf(p.tok.Pos, "expected expression, got %s", p.tokenDesc()))
	}
}

func (p *Parser) parseGetline() ast.Expr {
	p.expect(token.GETLINE)
	g := &ast.GetlineExpr{}

	// Optional target variable: getline v, getline arr[k], getline $3
	if p.tok.Type == token.NAME || p.tok.Type == token.DOLLAR {
		target := p.parsePrimary()
		if !ast.IsLValue(target) {
			panic(errorf(p.tok.Pos, "getline target must be a variable, field, or array element"))
		}
		g.Target = target
	}

	// Optional file source; binds tighter than comparison, so the
	// filename expression is parsed at concatenation level.
	if p.tok.Type == token.LESS {
		p.next()
		g.File = p.parseConcat()
	}
	return g
}

func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for p.tok.Type == token.COMMA {
		p.next()
		p.optionalNewlines()
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}
