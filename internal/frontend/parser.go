package frontend

import (
	"fmt"

	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
)

// Precedence levels, lowest to highest — mirrors the teacher's own
// Pratt-parser precedence table (internal/parser/parser.go), trimmed to
// this surface grammar's operator set.
const (
	_ int = iota
	lowest
	orPrec
	andPrec
	equalsPrec
	relPrec
	sumPrec
	productPrec
	prefixPrec
	callPrec
)

var precedences = map[TokenType]int{
	OR: orPrec, AND: andPrec,
	EQ: equalsPrec, NEQ: equalsPrec, IN: equalsPrec, IS: equalsPrec, AS: equalsPrec,
	LANGLE: relPrec, RANGLE: relPrec, LE: relPrec, GE: relPrec,
	PLUS: sumPrec, MINUS: sumPrec,
	STAR: productPrec, SLASH: productPrec, PERCENT: productPrec,
	LPAREN: callPrec, DOT: callPrec, LBRACKET: callPrec,
}

// Parser is a recursive-descent + Pratt-expression parser producing
// internal/cst nodes, grounded on the teacher's curToken/peekToken
// lookahead shape (internal/parser/parser.go).
type Parser struct {
	lex  *Lexer
	file string

	cur  Token
	peek Token

	errs []*diagnostics.CompilerError
	src  string
}

// NewParser returns a Parser ready to parse source, attributing diagnostics to
// file.
func NewParser(source, file string) *Parser {
	p := &Parser{lex: New(source, file), file: file, src: source}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []*diagnostics.CompilerError { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) errorf(pos ident.Position, format string, args ...any) {
	p.errs = append(p.errs, diagnostics.NewCompilerError(diagnostics.KindSyntax, pos, fmt.Sprintf(format, args...), p.src, p.file))
}

func (p *Parser) expect(t TokenType, what string) Token {
	if p.cur.Type != t {
		p.errorf(p.cur.Pos, "expected %s, found %q", what, p.cur.Literal)
		return p.cur
	}
	tok := p.cur
	p.next()
	return tok
}

// ParseModule parses one whole source file into a cst.Module.
func (p *Parser) ParseModule(name string) *cst.Module {
	mod := &cst.Module{Name: name}
	for p.cur.Type != EOF {
		switch p.cur.Type {
		case NATIVE:
			p.next()
			mod.Native = true
		case CLASS, ABSTRACT:
			mod.Decls = append(mod.Decls, p.parseClassDecl())
		case FUNC, GENERATOR:
			mod.Decls = append(mod.Decls, p.parseFuncDecl())
		case VAR:
			mod.Stmts = append(mod.Stmts, p.parseLocalVarStmt())
		default:
			mod.Stmts = append(mod.Stmts, p.parseStmt())
		}
	}
	return mod
}

func (p *Parser) parseClassDecl() *cst.ClassDecl {
	pos := p.cur.Pos
	abstract := false
	if p.cur.Type == ABSTRACT {
		abstract = true
		p.next()
	}
	p.expect(CLASS, "'class'")
	name := p.expect(IDENT, "class name").Literal

	var generics []string
	if p.cur.Type == LANGLE {
		p.next()
		for p.cur.Type != RANGLE && p.cur.Type != EOF {
			generics = append(generics, p.expect(IDENT, "generic parameter").Literal)
			if p.cur.Type == COMMA {
				p.next()
			}
		}
		p.expect(RANGLE, "'>'")
	}

	var supers []string
	if p.cur.Type == EXTENDS {
		p.next()
		supers = append(supers, p.expect(IDENT, "superclass name").Literal)
		for p.cur.Type == COMMA {
			p.next()
			supers = append(supers, p.expect(IDENT, "superclass name").Literal)
		}
	}

	decl := &cst.ClassDecl{Base: cst.NewBase(pos), Name: name, Abstract: abstract, Generics: generics, Supers: supers}

	p.expect(LBRACE, "'{'")
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		switch p.cur.Type {
		case FUNC, ABSTRACT, NATIVE, GENERATOR:
			fn := p.parseFuncDecl()
			if fn.Name == "Create" || fn.Name == name {
				decl.Initializers = append(decl.Initializers, fn)
			} else {
				decl.Methods = append(decl.Methods, fn)
			}
		case OPERATOR:
			decl.Operators = append(decl.Operators, p.parseOperatorDecl())
		case IDENT:
			decl.Fields = append(decl.Fields, p.parseFieldDecl())
		default:
			p.errorf(p.cur.Pos, "unexpected token %q in class body", p.cur.Literal)
			p.next()
		}
	}
	p.expect(RBRACE, "'}'")
	return decl
}

func (p *Parser) parseFieldDecl() *cst.FieldDecl {
	pos := p.cur.Pos
	name := p.expect(IDENT, "field name").Literal
	p.expect(COLON, "':'")
	ty := p.expect(IDENT, "field type").Literal
	return &cst.FieldDecl{Base: cst.NewBase(pos), Name: name, Type: ty}
}

func (p *Parser) parseOperatorDecl() *cst.OperatorDecl {
	pos := p.cur.Pos
	p.expect(OPERATOR, "'operator'")
	symbol := p.cur.Literal
	p.next()
	fn := p.parseFuncDeclFrom(pos, symbol)
	return &cst.OperatorDecl{Base: cst.NewBase(pos), Symbol: symbol, Method: fn}
}

func (p *Parser) parseFuncDecl() *cst.FuncDecl {
	pos := p.cur.Pos
	abstract, native, generator := false, false, false
	for {
		switch p.cur.Type {
		case ABSTRACT:
			abstract = true
			p.next()
			continue
		case NATIVE:
			native = true
			p.next()
			continue
		case GENERATOR:
			generator = true
			p.next()
			continue
		}
		break
	}
	p.expect(FUNC, "'func'")
	name := p.expect(IDENT, "function name").Literal
	fn := p.parseFuncDeclFrom(pos, name)
	fn.Abstract, fn.Native, fn.IsGenerator = abstract, native, generator
	return fn
}

func (p *Parser) parseFuncDeclFrom(pos ident.Position, name string) *cst.FuncDecl {
	fn := &cst.FuncDecl{Base: cst.NewBase(pos), Name: name}
	p.expect(LPAREN, "'('")
	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		param := &cst.Param{Name: p.expect(IDENT, "parameter name").Literal}
		if p.cur.Type == COLON {
			p.next()
			param.Type = p.expect(IDENT, "parameter type").Literal
		}
		if p.cur.Type == ASSIGN {
			p.next()
			param.Default = p.parseExpr(lowest)
		}
		fn.Params = append(fn.Params, param)
		if p.cur.Type == COMMA {
			p.next()
		}
	}
	p.expect(RPAREN, "')'")
	if p.cur.Type == ARROW {
		p.next()
		fn.ReturnType = p.expect(IDENT, "return type").Literal
	}
	if p.cur.Type == LBRACE {
		fn.Body = p.parseBlock()
	} else {
		p.expect(SEMI, "';' (abstract/native declaration)")
	}
	return fn
}

func (p *Parser) parseBlock() []cst.Stmt {
	p.expect(LBRACE, "'{'")
	var stmts []cst.Stmt
	for p.cur.Type != RBRACE && p.cur.Type != EOF {
		if p.cur.Type == VAR {
			stmts = append(stmts, p.parseLocalVarStmt())
			continue
		}
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(RBRACE, "'}'")
	return stmts
}

func (p *Parser) parseLocalVarStmt() cst.Stmt {
	pos := p.cur.Pos
	p.expect(VAR, "'var'")
	name := p.expect(IDENT, "variable name").Literal
	vd := &cst.VarDecl{Base: cst.NewBase(pos), Name: name}
	if p.cur.Type == COLON {
		p.next()
		vd.Type = p.expect(IDENT, "variable type").Literal
	}
	if p.cur.Type == ASSIGN {
		p.next()
		vd.Init = p.parseExpr(lowest)
	}
	return &cst.LocalVarStmt{Base: cst.NewBase(pos), Decl: vd}
}

func (p *Parser) parseStmt() cst.Stmt {
	pos := p.cur.Pos
	switch p.cur.Type {
	case IF:
		return p.parseIfStmt()
	case WHILE:
		return p.parseWhileStmt()
	case FOR:
		return p.parseForInStmt()
	case BREAK:
		p.next()
		return &cst.BreakStmt{Base: cst.NewBase(pos)}
	case SKIP:
		p.next()
		return &cst.SkipStmt{Base: cst.NewBase(pos)}
	case RETURN:
		p.next()
		var val cst.Expr
		if p.cur.Type != RBRACE {
			val = p.parseExpr(lowest)
		}
		return &cst.ReturnStmt{Base: cst.NewBase(pos), Value: val}
	case YIELD:
		p.next()
		return &cst.YieldStmt{Base: cst.NewBase(pos), Value: p.parseExpr(lowest)}
	case RAISE:
		p.next()
		var val cst.Expr
		if p.cur.Type != RBRACE {
			val = p.parseExpr(lowest)
		}
		return &cst.RaiseStmt{Base: cst.NewBase(pos), Value: val}
	case TRY:
		return p.parseTryStmt()
	case LPAREN:
		return p.parseTupleOrExprStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

func (p *Parser) parseIfStmt() cst.Stmt {
	pos := p.cur.Pos
	p.next()
	cond := p.parseExpr(lowest)
	then := p.parseBlock()
	var els []cst.Stmt
	if p.cur.Type == ELSE {
		p.next()
		if p.cur.Type == IF {
			els = []cst.Stmt{p.parseIfStmt()}
		} else {
			els = p.parseBlock()
		}
	}
	return &cst.IfStmt{Base: cst.NewBase(pos), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() cst.Stmt {
	pos := p.cur.Pos
	p.next()
	cond := p.parseExpr(lowest)
	body := p.parseBlock()
	return &cst.WhileStmt{Base: cst.NewBase(pos), Cond: cond, Body: body}
}

func (p *Parser) parseForInStmt() cst.Stmt {
	pos := p.cur.Pos
	p.next()
	varName := p.expect(IDENT, "loop variable").Literal
	p.expect(IN, "'in'")
	iterable := p.parseExpr(lowest)
	body := p.parseBlock()
	return &cst.ForInStmt{Base: cst.NewBase(pos), VarName: varName, Iterable: iterable, Body: body}
}

func (p *Parser) parseTryStmt() cst.Stmt {
	pos := p.cur.Pos
	p.next()
	body := p.parseBlock()
	var handlers []*cst.ExceptClause
	for p.cur.Type == EXCEPT {
		p.next()
		clause := &cst.ExceptClause{}
		clause.ExceptionType = p.expect(IDENT, "exception type").Literal
		if p.cur.Type == IDENT {
			clause.BindingName = p.cur.Literal
			p.next()
		}
		clause.Body = p.parseBlock()
		handlers = append(handlers, clause)
	}
	var finally []cst.Stmt
	if p.cur.Type == FINALLY {
		p.next()
		finally = p.parseBlock()
	}
	return &cst.TryStmt{Base: cst.NewBase(pos), Body: body, Handlers: handlers, Finally: finally}
}

// parseTupleOrExprStmt disambiguates "(a, b) := rhs" tuple-unpack
// assignment from a parenthesized expression statement by looking for a
// comma before the closing paren.
func (p *Parser) parseTupleOrExprStmt() cst.Stmt {
	pos := p.cur.Pos
	p.next()
	var elems []cst.Expr
	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		elems = append(elems, p.parseExpr(lowest))
		if p.cur.Type == COMMA {
			p.next()
		}
	}
	p.expect(RPAREN, "')'")
	if len(elems) > 1 && p.cur.Type == WALRUS {
		p.next()
		rhs := p.parseExpr(lowest)
		return &cst.TupleAssignStmt{Base: cst.NewBase(pos), Targets: elems, Right: rhs}
	}
	var expr cst.Expr = &cst.Tuple{Base: cst.NewBase(pos), Elements: elems}
	if len(elems) == 1 {
		expr = elems[0]
	}
	return p.finishExprStmt(pos, p.continueExpr(expr, lowest))
}

func (p *Parser) parseAssignOrExprStmt() cst.Stmt {
	pos := p.cur.Pos
	left := p.parseExpr(lowest)
	switch p.cur.Type {
	case WALRUS, ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN:
		op := tokenAssignOp(p.cur.Type)
		p.next()
		right := p.parseExpr(lowest)
		return &cst.AssignStmt{Base: cst.NewBase(pos), Op: op, Left: left, Right: right}
	}
	return p.finishExprStmt(pos, left)
}

func (p *Parser) finishExprStmt(pos ident.Position, e cst.Expr) cst.Stmt {
	return &cst.ExprStmt{Base: cst.NewBase(pos), Value: e}
}

func tokenAssignOp(t TokenType) string {
	switch t {
	case PLUS_ASSIGN:
		return "+="
	case MINUS_ASSIGN:
		return "-="
	case STAR_ASSIGN:
		return "*="
	case SLASH_ASSIGN:
		return "/="
	default:
		return ":="
	}
}

// --- Expressions (Pratt parsing) ---------------------------------------

func (p *Parser) parseExpr(prec int) cst.Expr {
	left := p.parsePrefix()
	return p.continueExpr(left, prec)
}

func (p *Parser) continueExpr(left cst.Expr, prec int) cst.Expr {
	for prec < precedences[p.cur.Type] {
		switch p.cur.Type {
		case DOT:
			left = p.parseMemberOrCall(left)
		case LPAREN:
			left = p.parseCall(left)
		case LBRACKET:
			left = p.parseIndexAsCall(left)
		case AS:
			left = p.parseCastExpr(left)
		case IS:
			left = p.parseIsExpr(left)
		default:
			left = p.parseInfix(left)
		}
	}
	if p.cur.Type == QUESTION {
		left = p.parseConditional(left)
	}
	return left
}

func (p *Parser) parsePrefix() cst.Expr {
	pos := p.cur.Pos
	switch p.cur.Type {
	case INT:
		v := p.cur.Literal
		p.next()
		return &cst.IntLit{Base: cst.NewBase(pos), Value: parseInt(v)}
	case FLOAT:
		v := p.cur.Literal
		p.next()
		return &cst.FloatLit{Base: cst.NewBase(pos), Value: parseFloat(v)}
	case TRUE:
		p.next()
		return &cst.BoolLit{Base: cst.NewBase(pos), Value: true}
	case FALSE:
		p.next()
		return &cst.BoolLit{Base: cst.NewBase(pos), Value: false}
	case CHAR:
		v := []rune(p.cur.Literal)
		p.next()
		if len(v) == 0 {
			return &cst.CharLit{Base: cst.NewBase(pos)}
		}
		return &cst.CharLit{Base: cst.NewBase(pos), Value: v[0]}
	case STRING:
		v := p.cur.Literal
		p.next()
		return &cst.StringLit{Base: cst.NewBase(pos), Value: v}
	case IDENT:
		name := p.cur.Literal
		p.next()
		return &cst.Ident{Base: cst.NewBase(pos), Name: name}
	case SELF:
		p.next()
		return &cst.Self{Base: cst.NewBase(pos)}
	case PARENT:
		p.next()
		p.expect(LPAREN, "'('")
		target := p.expect(IDENT, "parent type").Literal
		p.expect(RPAREN, "')'")
		return &cst.Parent{Base: cst.NewBase(pos), Target: target}
	case NEW:
		p.next()
		name := p.expect(IDENT, "class name").Literal
		p.expect(LPAREN, "'('")
		args := p.parseArgs()
		return &cst.New{Base: cst.NewBase(pos), ClassName: name, Arguments: args}
	case MINUS, NOT, PLUS:
		op := p.cur.Literal
		p.next()
		operand := p.parseExpr(prefixPrec)
		return &cst.UnaryExpr{Base: cst.NewBase(pos), Op: op, Operand: operand}
	case LPAREN:
		p.next()
		e := p.parseExpr(lowest)
		p.expect(RPAREN, "')'")
		return e
	case LBRACKET:
		return p.parseArrayOrListComp()
	case LAMBDA:
		return p.parseLambda()
	default:
		p.errorf(pos, "unexpected token %q in expression", p.cur.Literal)
		p.next()
		return &cst.Ident{Base: cst.NewBase(pos), Name: "<error>"}
	}
}

func (p *Parser) parseArgs() []cst.Expr {
	var args []cst.Expr
	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		args = append(args, p.parseExpr(lowest))
		if p.cur.Type == COMMA {
			p.next()
		}
	}
	p.expect(RPAREN, "')'")
	return args
}

func (p *Parser) parseMemberOrCall(object cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	member := p.expect(IDENT, "member name").Literal
	access := &cst.MemberAccess{Base: cst.NewBase(pos), Object: object, Member: member}
	if p.cur.Type == LPAREN {
		p.next()
		args := p.parseArgs()
		return &cst.Call{Base: cst.NewBase(pos), Callee: access, Arguments: args}
	}
	return access
}

func (p *Parser) parseCall(callee cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	args := p.parseArgs()
	return &cst.Call{Base: cst.NewBase(pos), Callee: callee, Arguments: args}
}

// parseIndexAsCall lowers "a[i]" to a call against the "_index_" method,
// following the same operator-method lowering shape internal/desugar
// applies to every other binary operator.
func (p *Parser) parseIndexAsCall(object cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	index := p.parseExpr(lowest)
	p.expect(RBRACKET, "']'")
	access := &cst.MemberAccess{Base: cst.NewBase(pos), Object: object, Member: "_index_"}
	return &cst.Call{Base: cst.NewBase(pos), Callee: access, Arguments: []cst.Expr{index}}
}

func (p *Parser) parseCastExpr(value cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	target := p.expect(IDENT, "cast target type").Literal
	return &cst.Cast{Base: cst.NewBase(pos), Value: value, Target: target}
}

func (p *Parser) parseIsExpr(value cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	target := p.expect(IDENT, "is-check target type").Literal
	return &cst.IsExpr{Base: cst.NewBase(pos), Value: value, Target: target}
}

func (p *Parser) parseInfix(left cst.Expr) cst.Expr {
	pos := p.cur.Pos
	op := p.cur.Literal
	prec := precedences[p.cur.Type]
	p.next()
	right := p.parseExpr(prec)
	return &cst.BinaryExpr{Base: cst.NewBase(pos), Op: op, Left: left, Right: right}
}

func (p *Parser) parseConditional(cond cst.Expr) cst.Expr {
	pos := p.cur.Pos
	p.next()
	then := p.parseExpr(lowest)
	p.expect(COLON, "':'")
	els := p.parseExpr(lowest)
	return &cst.Conditional{Base: cst.NewBase(pos), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseArrayOrListComp() cst.Expr {
	pos := p.cur.Pos
	p.next()
	if p.cur.Type == RBRACKET {
		p.next()
		return &cst.ArrayLit{Base: cst.NewBase(pos)}
	}
	first := p.parseExpr(lowest)
	if p.cur.Type == FOR {
		p.next()
		varName := p.expect(IDENT, "comprehension variable").Literal
		p.expect(IN, "'in'")
		source := p.parseExpr(lowest)
		var filter cst.Expr
		if p.cur.Type == IF {
			p.next()
			filter = p.parseExpr(lowest)
		}
		p.expect(RBRACKET, "']'")
		return &cst.ListComp{Base: cst.NewBase(pos), Elem: first, Var: varName, Source: source, Filter: filter}
	}
	elems := []cst.Expr{first}
	for p.cur.Type == COMMA {
		p.next()
		elems = append(elems, p.parseExpr(lowest))
	}
	p.expect(RBRACKET, "']'")
	return &cst.ArrayLit{Base: cst.NewBase(pos), Elements: elems}
}

func (p *Parser) parseLambda() cst.Expr {
	pos := p.cur.Pos
	p.next()
	p.expect(LPAREN, "'('")
	var params []*cst.Param
	for p.cur.Type != RPAREN && p.cur.Type != EOF {
		param := &cst.Param{Name: p.expect(IDENT, "parameter name").Literal}
		if p.cur.Type == COLON {
			p.next()
			param.Type = p.expect(IDENT, "parameter type").Literal
		}
		params = append(params, param)
		if p.cur.Type == COMMA {
			p.next()
		}
	}
	p.expect(RPAREN, "')'")
	returnType := ""
	if p.cur.Type == ARROW {
		p.next()
		returnType = p.expect(IDENT, "return type").Literal
	}
	if p.cur.Type == LBRACE {
		return &cst.Lambda{Base: cst.NewBase(pos), Params: params, ReturnType: returnType, Body: p.parseBlock()}
	}
	// "=>" lexes as ASSIGN followed by RANGLE.
	if p.cur.Type == ASSIGN && p.peek.Type == RANGLE {
		p.next()
		p.next()
	} else {
		p.errorf(p.cur.Pos, "expected '=>', found %q", p.cur.Literal)
	}
	return &cst.Lambda{Base: cst.NewBase(pos), Params: params, ReturnType: returnType, Shorthand: p.parseExpr(lowest)}
}

func parseInt(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
	}
	return n
}

func parseFloat(s string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	seenDot := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			seenDot = true
			continue
		}
		d := float64(c - '0')
		if !seenDot {
			intPart = intPart*10 + d
		} else {
			fracDiv *= 10
			fracPart = fracPart*10 + d
		}
	}
	return intPart + fracPart/fracDiv
}
