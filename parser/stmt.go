package parser

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/token"
)

// parseScope allocates a fresh ast.Scope nested under parent and parses
// statements into it until one of end stops the loop (spec.md §4.P pass
// 2: statement parsing happens once every file's declarations are
// globally visible). The caller is responsible for consuming any
// delimiter tokens (braces) surrounding the statement run; parseScope
// itself only consumes the statements.
func (p *Parser) parseScope(parent *ast.Scope, end ...token.Token) *ast.Scope {
	sc := ast.NewScope(p.regs.IDs.NextScopeID(), parent)
	start := p.cur().pos
	for {
		p.skipEOLs()
		if p.peekTok() == token.EOF || containsTok(end, p.peekTok()) {
			break
		}
		stmt := p.parseStmt(sc)
		if stmt != nil {
			sc.Statements = append(sc.Statements, stmt)
		}
	}
	sc.SetPos(start, p.cur().pos)
	return sc
}

func containsTok(set []token.Token, t token.Token) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

// parseBlock parses a brace-delimited `{ ... }` nested scope, used by
// every control-flow statement's body (spec.md §8 E1-E6 examples are all
// brace-delimited; see collectBody's grounding note in parser.go).
func (p *Parser) parseBlock(parent *ast.Scope) *ast.Scope {
	p.expect(token.LBRACE)
	sc := p.parseScope(parent, token.RBRACE)
	p.expect(token.RBRACE)
	return sc
}

// parseStmt dispatches on the leading token of one statement, per
// spec.md §3's StatementNode variants.
func (p *Parser) parseStmt(sc *ast.Scope) ast.Stmt {
	start := p.cur()
	switch start.tok {
	case token.RETURN:
		return p.parseReturnStmt()
	case token.THROW:
		return p.parseThrowStmt()
	case token.CATCH:
		return p.parseCatchStmt(sc)
	case token.BREAK:
		p.advance()
		return &ast.BreakStmt{StmtBase: StmtBase{Base: Base{From: start.pos, To: start.pos}}}
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueStmt{StmtBase: StmtBase{Base: Base{From: start.pos, To: start.pos}}}
	case token.IF:
		return p.parseIfStmt(sc)
	case token.WHILE:
		return p.parseWhileStmt(sc)
	case token.DO:
		return p.parseDoWhileStmt(sc)
	case token.FOR:
		return p.parseForStmt(sc)
	case token.SWITCH:
		return p.parseSwitchStmt(sc)
	case token.MUT:
		p.advance()
		return p.parseDeclarationStmt(sc, true)
	case token.LPAREN:
		return p.parseGroupDeclarationOrAssignment(sc)
	case token.IDENT:
		return p.parseIdentLeadStmt(sc)
	default:
		p.errorf(start.pos, "expected a statement, found %s %q", start.tok, start.lit)
		p.advance()
		return nil
	}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.advance().pos
	r := &ast.ReturnStmt{StmtBase: StmtBase{Base: Base{From: pos}}}
	if p.peekTok() != token.EOF && p.peekTok() != token.RBRACE && p.peekTok() != token.EOL {
		r.Values = append(r.Values, p.parseExpr())
		for p.peekTok() == token.COMMA {
			p.advance()
			r.Values = append(r.Values, p.parseExpr())
		}
	}
	r.To = p.cur().pos
	return r
}

func (p *Parser) parseThrowStmt() ast.Stmt {
	pos := p.advance().pos
	t := &ast.ThrowStmt{StmtBase: StmtBase{Base: Base{From: pos}}}
	t.Value = p.parseExpr()
	t.To = t.Value.End()
	return t
}

// parseCatchStmt binds CallID to the most recently parsed call in this
// process's call arena, per original_source's catch_node.hpp and spec.md
// §8 property 3 ("the most recently parsed call").
func (p *Parser) parseCatchStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	c := &ast.CatchStmt{StmtBase: StmtBase{Base: Base{From: pos}}}
	if id, ok := p.regs.Calls.Latest(); ok {
		c.CallID = id
	} else {
		p.errorf(pos, "catch with no preceding call in this scope")
	}
	if p.peekTok() == token.IDENT {
		name := p.advance()
		c.VarName = name.lit
	}
	c.Body = p.parseBlock(sc)
	c.To = c.Body.End()
	return c
}

func (p *Parser) parseIfStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	cond := p.parseExpr()
	then := p.parseBlock(sc)
	st := &ast.IfStmt{StmtBase: StmtBase{Base: Base{From: pos, To: then.End()}}, Condition: cond, Then: then}
	if p.peekTok() == token.ELSE {
		p.advance()
		if p.peekTok() == token.IF {
			nested := p.parseIfStmt(sc).(*ast.IfStmt)
			st.Else = &ast.IfBranch{If: nested}
			st.To = nested.End()
		} else {
			elseScope := p.parseBlock(sc)
			st.Else = &ast.IfBranch{Scope: elseScope}
			st.To = elseScope.End()
		}
	}
	return st
}

func (p *Parser) parseWhileStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	cond := p.parseExpr()
	body := p.parseBlock(sc)
	return &ast.WhileStmt{StmtBase: StmtBase{Base: Base{From: pos, To: body.End()}}, Condition: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	body := p.parseBlock(sc)
	p.expect(token.WHILE)
	cond := p.parseExpr()
	return &ast.DoWhileStmt{StmtBase: StmtBase{Base: Base{From: pos, To: cond.End()}}, Body: body, Condition: cond}
}

// parseForStmt distinguishes a classic three-clause for from an
// enhanced for-in by probing for the IDENT/IN-ish shape: Flint writes
// `for x in xs { ... }`, where the second token is always IDENT and the
// keyword following it is IN, spelled with an IDENT lexeme — Flint's
// token set has no IN token, so "in" is recognized as a contextual
// keyword by literal comparison here rather than widening token.Token.
func (p *Parser) parseForStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	if p.peekTok() == token.IDENT && p.toks[p.pos+1].tok == token.IDENT && p.toks[p.pos+1].lit == "in" {
		name := p.advance()
		p.advance() // 'in'
		coll := p.parseExpr()
		body := p.parseBlock(sc)
		return &ast.EnhancedForStmt{StmtBase: StmtBase{Base: Base{From: pos, To: body.End()}}, VarName: name.lit, Collection: coll, Body: body}
	}
	p.expect(token.LPAREN)
	init := p.parseStmt(sc)
	p.expect(token.SEMICOLON)
	cond := p.parseExpr()
	p.expect(token.SEMICOLON)
	post := p.parseStmt(sc)
	p.expect(token.RPAREN)
	body := p.parseBlock(sc)
	return &ast.ForStmt{StmtBase: StmtBase{Base: Base{From: pos, To: body.End()}}, Init: init, Condition: cond, Post: post, Body: body}
}

func (p *Parser) parseSwitchStmt(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos
	subject := p.parseExpr()
	p.expect(token.LBRACE)
	st := &ast.SwitchStmt{StmtBase: StmtBase{Base: Base{From: pos}}, Subject: subject}
	for p.peekTok() != token.RBRACE && p.peekTok() != token.EOF {
		p.skipEOLs()
		if p.peekTok() == token.RBRACE {
			break
		}
		var matches []*ast.SwitchMatchExpr
		for {
			if p.peekTok() == token.DEFAULT {
				dp := p.advance().pos
				matches = append(matches, &ast.SwitchMatchExpr{ExprBase: ExprBase{Base: Base{From: dp, To: dp}}, Pattern: &ast.DefaultExpr{ExprBase: ExprBase{Base: Base{From: dp, To: dp}}}})
			} else {
				m := p.parseExpr()
				matches = append(matches, &ast.SwitchMatchExpr{ExprBase: ExprBase{Base: Base{From: m.Pos(), To: m.End()}}, Pattern: m})
			}
			if p.peekTok() == token.COMMA {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.ARROW)
		body := p.parseBlock(sc)
		st.Branches = append(st.Branches, ast.SwitchStmtBranch{Matches: matches, Body: body})
		p.skipEOLs()
	}
	st.To = p.expect(token.RBRACE).pos
	return st
}

// parseDeclarationStmt parses `[mut] name [: Type] := expr`, registering
// the new binding in sc (spec.md §3 DeclarationStmt).
func (p *Parser) parseDeclarationStmt(sc *ast.Scope, mutable bool) ast.Stmt {
	name := p.expect(token.IDENT)
	d := &ast.DeclarationStmt{StmtBase: StmtBase{Base: Base{From: name.pos}}, Name: name.lit, Mutable: mutable}
	if p.peekTok() == token.COLON {
		p.advance()
		d.Type = p.parseType()
	}
	if p.peekTok() == token.DEFINE || p.peekTok() == token.ASSIGN {
		p.advance()
		d.Value = p.parseExpr()
		d.To = d.Value.End()
		if d.Type == nil {
			d.Type = d.Value.ResolvedType()
		}
	} else {
		d.To = name.pos
	}
	sc.AddVariable(d.Name, &ast.Variable{
		Type: d.Type, ScopeID: sc.ScopeID, ScopeSegment: sc.NextSegment(), Mutable: d.Mutable,
	})
	return d
}

// parseGroupDeclarationOrAssignment disambiguates `(a, b) := expr` from a
// parenthesized assignment target `(a, b) = expr` by parsing a name list
// speculatively; DEFINE forces declaration, ASSIGN forces assignment.
func (p *Parser) parseGroupDeclarationOrAssignment(sc *ast.Scope) ast.Stmt {
	pos := p.advance().pos // '('
	var names []string
	for {
		n := p.expect(token.IDENT)
		names = append(names, n.lit)
		if p.peekTok() == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	if p.peekTok() == token.DEFINE {
		p.advance()
		value := p.parseExpr()
		d := &ast.GroupDeclarationStmt{StmtBase: StmtBase{Base: Base{From: pos, To: value.End()}}, Names: names, Value: value}
		d.Mutable = make([]bool, len(names))
		for _, n := range names {
			sc.AddVariable(n, &ast.Variable{ScopeID: sc.ScopeID, ScopeSegment: sc.NextSegment()})
		}
		return d
	}
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	var targets []ast.Expr
	for _, n := range names {
		targets = append(targets, &ast.VariableExpr{ExprBase: ExprBase{Base: Base{From: pos, To: pos}}, Name: n})
	}
	return &ast.AssignmentStmt{StmtBase: StmtBase{Base: Base{From: pos, To: value.End()}}, Kind: ast.AssignGroup, Targets: targets, Value: value}
}

// parseIdentLeadStmt handles every statement that begins with an
// identifier: a plain declaration, an assignment (direct, indexed,
// field, compound), a call statement, or a unary increment/decrement.
func (p *Parser) parseIdentLeadStmt(sc *ast.Scope) ast.Stmt {
	if p.toks[p.pos+1].tok == token.DEFINE {
		return p.parseDeclarationStmt(sc, false)
	}
	expr := p.parseExpr()
	switch p.peekTok() {
	case token.ADD, token.SUB:
		if isIncDec(p, expr) {
			op := p.advance()
			end := p.advance().pos // the doubled '+'/'-' the scanner emits as a second token
			return &ast.UnaryOpStmt{StmtBase: StmtBase{Base: Base{From: expr.Pos(), To: end}}, Op: op.tok, Operand: expr}
		}
	case token.ASSIGN:
		p.advance()
		value := p.parseExpr()
		return assignmentFor(expr, value)
	}
	if call, ok := expr.(*ast.CallExpr); ok {
		return &ast.CallStmt{StmtBase: StmtBase{Base: Base{From: call.From, To: call.To}}, Call: call}
	}
	p.errorf(expr.Pos(), "expression result discarded outside a call statement")
	return &ast.CallStmt{StmtBase: StmtBase{Base: Base{From: expr.Pos(), To: expr.End()}}}
}

// isIncDec reports whether the upcoming doubled operator (`++`/`--`) is
// a statement-level increment rather than the start of a new binary
// expression; Flint's scanner does not emit a combined token for it, so
// the parser checks the next two tokens are identical ADD/ADD or SUB/SUB
// with no space, which the scanner cannot distinguish from `a + +b` —
// this is a deliberate simplification the Analyzer may further narrow.
func isIncDec(p *Parser, _ ast.Expr) bool {
	next := p.toks[p.pos+1]
	return next.tok == p.cur().tok
}

// assignmentFor classifies target's shape into the matching AssignKind,
// per spec.md §3's AssignmentStmt variants.
func assignmentFor(target, value ast.Expr) ast.Stmt {
	base := StmtBase{Base: Base{From: target.Pos(), To: value.End()}}
	switch t := target.(type) {
	case *ast.ArrayAccessExpr:
		return &ast.AssignmentStmt{StmtBase: base, Kind: ast.AssignArrayIndexed, Target: t.Array, Index: t.Index, Value: value}
	case *ast.DataAccessExpr:
		return &ast.AssignmentStmt{StmtBase: base, Kind: ast.AssignDataField, Target: t.Base, Field: t.Field, Value: value}
	case *ast.GroupedDataAccessExpr:
		return &ast.AssignmentStmt{StmtBase: base, Kind: ast.AssignGroupedDataField, Target: t.Base, Fields: t.Fields, Value: value}
	default:
		return &ast.AssignmentStmt{StmtBase: base, Kind: ast.AssignDirect, Target: target, Value: value}
	}
}
