package parser

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/literal"
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// parseExpr is the Pratt precedence-climbing entry point, following the
// teacher's parseBinaryExpr/parseUnaryExpr shape (cue/parser/parser.go)
// retargeted at Flint's operator table (token.Token.Precedence).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(token.LowestPrec + 1)
}

func (p *Parser) parseBinaryExpr(prec1 int) ast.Expr {
	x := p.parseUnaryExpr()
	for {
		op := p.peekTok()
		prec := op.Precedence()
		if prec < prec1 || prec == token.LowestPrec {
			return x
		}
		opPos := p.advance().pos
		y := p.parseBinaryExpr(prec + 1)
		x = p.foldOrBuild(x, op, y, opPos)
	}
}

// foldOrBuild implements spec.md §4.P's literal-folding rule (open
// question (i), resolved per SPEC_FULL.md in favor of consistency):
// two literal operands of the same primitive type fold into a single
// LiteralExpr at parse time instead of a BinaryOpExpr node, for the
// operators tryFold handles (+ - * / % on numbers, + on str).
func (p *Parser) foldOrBuild(x ast.Expr, op token.Token, y ast.Expr, pos token.Pos) ast.Expr {
	lx, lxOK := x.(*ast.LiteralExpr)
	ly, lyOK := y.(*ast.LiteralExpr)
	if lxOK && lyOK && lx.Type == ly.Type && lx.Type != nil {
		if folded, ok := p.tryFold(lx, op, ly); ok {
			return folded
		}
	}
	// The parser seeds BinaryOpExpr's type with the left operand's type so
	// code that reads ResolvedType() gets a reasonable guess instead of
	// nil; no later phase refines it.
	return &ast.BinaryOpExpr{
		ExprBase: ExprBase{Base: Base{From: x.Pos(), To: y.End()}, Type: x.ResolvedType()},
		Op:       op, Left: x, Right: y,
	}
}

func (p *Parser) tryFold(lx *ast.LiteralExpr, op token.Token, ly *ast.LiteralExpr) (*ast.LiteralExpr, bool) {
	if lx.Type == types.Str() {
		if op != token.ADD {
			return nil, false
		}
		sx, _ := lx.Value.(string)
		sy, _ := ly.Value.(string)
		return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: lx.From, To: ly.To}, Type: lx.Type}, Value: literal.FoldStrings(sx, sy)}, true
	}
	nx, okx := lx.Value.(literal.Number)
	ny, oky := ly.Value.(literal.Number)
	if !okx || !oky {
		return nil, false
	}
	var fop literal.FoldOp
	switch op {
	case token.ADD:
		fop = literal.FoldAdd
	case token.SUB:
		fop = literal.FoldSub
	case token.MUL:
		fop = literal.FoldMul
	case token.QUO:
		fop = literal.FoldQuo
	case token.REM:
		fop = literal.FoldRem
	default:
		return nil, false
	}
	out, err := literal.FoldNumbers(nx, ny, fop)
	if err != nil {
		return nil, false
	}
	return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: lx.From, To: ly.To}, Type: lx.Type}, Value: out, Raw: out.String()}, true
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	switch p.peekTok() {
	case token.ADD, token.SUB, token.NOT, token.XOR:
		op := p.advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryOpExpr{ExprBase: ExprBase{Base: Base{From: op.pos, To: operand.End()}}, Op: op.tok, Operand: operand}
	}
	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

// parsePostfixExpr handles the postfix productions that bind tighter
// than any binary operator (spec.md §4.P): array-access, data-access,
// optional-chain/unwrap, range, as-extraction, unwrap. Calls are parsed
// by parsePrimaryExpr.
func (p *Parser) parsePostfixExpr(x ast.Expr) ast.Expr {
	for {
		switch p.peekTok() {
		case token.LBRACK:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBRACK).pos
			x = &ast.ArrayAccessExpr{ExprBase: ExprBase{Base: Base{From: x.Pos(), To: end}}, Array: x, Index: idx}
		case token.PERIOD:
			p.advance()
			if p.peekTok() == token.LPAREN {
				x = p.parseGroupedDataAccess(x)
				continue
			}
			field := p.expect(token.IDENT)
			x = &ast.DataAccessExpr{ExprBase: ExprBase{Base: Base{From: x.Pos(), To: field.pos}}, Base: x, Field: field.lit, FieldID: -1}
		case token.OPTCHAIN:
			p.advance()
			field := p.expect(token.IDENT)
			oc, ok := x.(*ast.OptionalChainExpr)
			if !ok {
				oc = &ast.OptionalChainExpr{ExprBase: ExprBase{Base: Base{From: x.Pos()}}, BaseExpr: x, IsToplevel: true}
			}
			oc.Operations = append(oc.Operations, ast.OptionalChainOp{Field: field.lit})
			oc.To = field.pos
			x = oc
		case token.OPTUNWRAP:
			pos := p.advance().pos
			x = &ast.OptionalUnwrapExpr{ExprBase: ExprBase{Base: Base{From: x.Pos(), To: pos}}, Operand: x}
		case token.RANGE:
			p.advance()
			high := p.parseUnaryExpr()
			x = &ast.RangeExpr{ExprBase: ExprBase{Base: Base{From: x.Pos(), To: high.End()}}, Low: x, High: high}
		case token.AS:
			p.advance()
			et := p.parseType()
			x = &ast.VariantExtractionExpr{ExprBase: ExprBase{Base: Base{From: x.Pos()}, Type: p.ns.Types.Intern(&types.Type{Kind: types.Optional, Inner: et})}, BaseExpr: x, ExtractedType: et}
		default:
			return x
		}
	}
}

// parseGroupedDataAccess parses `base.(f1, f2, ...)`, reading several
// fields off one data/entity value at once into a group-typed result.
func (p *Parser) parseGroupedDataAccess(base ast.Expr) ast.Expr {
	p.advance() // '('
	d := &ast.GroupedDataAccessExpr{ExprBase: ExprBase{Base: Base{From: base.Pos()}}, Base: base}
	for p.peekTok() != token.RPAREN && p.peekTok() != token.EOF {
		f := p.expect(token.IDENT)
		d.Fields = append(d.Fields, f.lit)
		if p.peekTok() == token.COMMA {
			p.advance()
		}
	}
	d.To = p.expect(token.RPAREN).pos
	return d
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	cur := p.cur()
	switch cur.tok {
	case token.INT, token.FLOAT:
		p.advance()
		n, err := literal.ParseNumber(cur.lit)
		if err != nil {
			p.errorf(cur.pos, "%s", err.Error())
		}
		typ := types.I32()
		if n.Float {
			typ = types.F64()
		}
		return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: cur.pos, To: cur.pos}, Type: typ}, Value: n, Raw: cur.lit}
	case token.STRING:
		p.advance()
		s, err := literal.Unquote(trimQuotes(cur.lit))
		if err != nil {
			p.errorf(cur.pos, "%s", err.Error())
		}
		return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: cur.pos, To: cur.pos}, Type: types.Str()}, Value: s, Raw: cur.lit}
	case token.STRPART:
		return p.parseInterpolation()
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: cur.pos, To: cur.pos}, Type: types.Bool()}, Value: cur.tok == token.TRUE, Raw: cur.lit}
	case token.LPAREN:
		p.advance()
		var elems []ast.Expr
		elems = append(elems, p.parseExpr())
		isGroup := false
		for p.peekTok() == token.COMMA {
			isGroup = true
			p.advance()
			elems = append(elems, p.parseExpr())
		}
		end := p.expect(token.RPAREN).pos
		if !isGroup {
			return elems[0]
		}
		return &ast.GroupExpr{ExprBase: ExprBase{Base: Base{From: cur.pos, To: end}}, Elements: elems, GroupID: p.regs.IDs.NextGroupID()}
	case token.IDENT:
		name := p.advance()
		if p.peekTok() == token.LPAREN {
			if p.regs.FindData(name.lit) != nil {
				return p.parseInitializer(name)
			}
			return p.parseCall(name)
		}
		return &ast.VariableExpr{ExprBase: ExprBase{Base: Base{From: name.pos, To: name.pos}}, Name: name.lit}
	case token.SWITCH:
		return p.parseSwitchExpr()
	default:
		p.errorf(cur.pos, "expected operand, found %s %q", cur.tok, cur.lit)
		p.advance()
		return &ast.LiteralExpr{ExprBase: ExprBase{Base: Base{From: cur.pos, To: cur.pos}, Type: types.Void()}}
	}
}

// parseInterpolation follows the scanner's STR_PART/INTERP_EXPR
// alternation, directly adapted from the teacher's parseInterpolation
// resumption loop (cue/parser/parser.go). The scanner's first segment
// literal still carries its opening quote; every segment's trailing
// delimiter is either the closing quote (STRING) or the absorbed '\('
// (STRPART) — neither looks like the other, so segments are trimmed
// positionally rather than via the plain-string trimQuotes helper.
func (p *Parser) parseInterpolation() ast.Expr {
	start := p.cur()
	res := &ast.StringInterpolationExpr{ExprBase: ExprBase{Base: Base{From: start.pos}, Type: types.Str()}}
	first := true
	for {
		part := p.advance() // STRPART or STRING
		body := part.lit
		if first {
			body = body[1:] // strip the opening quote
			first = false
		}
		if part.tok == token.STRPART {
			body = body[:len(body)-2] // strip the trailing '\('
		} else {
			body = body[:len(body)-1] // strip the trailing '"'
		}
		text, _ := literal.Unquote(body)
		res.Parts = append(res.Parts, text)
		if part.tok == token.STRING {
			res.To = part.pos
			return res
		}
		res.Exprs = append(res.Exprs, p.parseExpr())
		if p.peekTok() != token.STRPART && p.peekTok() != token.STRING {
			p.errorf(p.cur().pos, "expected string continuation")
			return res
		}
	}
}

func (p *Parser) parseCall(name tok) ast.Expr {
	p.advance() // '('
	call := &ast.CallExpr{ExprBase: ExprBase{Base: Base{From: name.pos}}, FunctionName: name.lit}
	for p.peekTok() != token.RPAREN && p.peekTok() != token.EOF {
		ref := false
		if p.peekTok() == token.AND {
			p.advance()
			ref = true
		}
		call.Arguments = append(call.Arguments, ast.Argument{Value: p.parseExpr(), ByRef: ref})
		if p.peekTok() == token.COMMA {
			p.advance()
		}
	}
	call.To = p.expect(token.RPAREN).pos
	call.CallID = p.regs.Calls.Append(call)
	p.resolveCall(call)
	return call
}

// parseInitializer parses a `D(5)`-style positional record construction
// (spec.md §3 InitializerExpr, §8 scenario E3), distinguished from a
// function call by regs.FindData: by the time pass 2 parses any body,
// every file's pass 1 has already run to completion and registered
// every data declaration via regs.AddData, so a callee name already
// recorded there can never also be a function (names are looked up in
// one shared, file-spanning namespace). Unlike CallExpr, the result's
// type is known immediately, since it is exactly the named data type.
func (p *Parser) parseInitializer(name tok) ast.Expr {
	p.advance() // '('
	typ := p.ns.Types.Intern(&types.Type{Kind: types.Data, Name: name.lit})
	init := &ast.InitializerExpr{ExprBase: ExprBase{Base: Base{From: name.pos}, Type: typ}, TypeName: name.lit}
	for p.peekTok() != token.RPAREN && p.peekTok() != token.EOF {
		init.Fields = append(init.Fields, p.parseExpr())
		if p.peekTok() == token.COMMA {
			p.advance()
		}
	}
	init.To = p.expect(token.RPAREN).pos
	return init
}

func (p *Parser) parseSwitchExpr() ast.Expr {
	pos := p.advance().pos // 'switch'
	subject := p.parseExpr()
	p.expect(token.LBRACE)
	sw := &ast.SwitchExpr{ExprBase: ExprBase{Base: Base{From: pos}}, Subject: subject}
	for p.peekTok() != token.RBRACE && p.peekTok() != token.EOF {
		p.skipEOLs()
		if p.peekTok() == token.RBRACE {
			break
		}
		branch := p.parseSwitchBranch()
		sw.Branches = append(sw.Branches, branch)
		p.skipEOLs()
	}
	sw.To = p.expect(token.RBRACE).pos
	if len(sw.Branches) > 0 {
		sw.Type = sw.Branches[0].Result.ResolvedType()
	}
	return sw
}

func (p *Parser) parseSwitchBranch() ast.SwitchBranch {
	var matches []*ast.SwitchMatchExpr
	for {
		if p.peekTok() == token.DEFAULT {
			pos := p.advance().pos
			matches = append(matches, &ast.SwitchMatchExpr{ExprBase: ExprBase{Base: Base{From: pos, To: pos}}, Pattern: &ast.DefaultExpr{ExprBase: ExprBase{Base: Base{From: pos, To: pos}}}})
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
	result := p.parseExpr()
	return ast.SwitchBranch{Matches: matches, Result: result}
}
