package parser

import (
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// parseType parses a type annotation, interning the result into the
// file's Namespace (spec.md §4.T's add/get pair) so that two structurally
// equal types created while parsing this file share identity.
func (p *Parser) parseType() *types.Type {
	t := p.parsePrimaryType()
	for {
		switch p.peekTok() {
		case token.LBRACK:
			p.advance()
			p.expect(token.RBRACK)
			t = p.ns.Types.Intern(&types.Type{Kind: types.Array, Element: t, Rank: 1})
		case token.QUESTION:
			p.advance()
			t = p.ns.Types.Intern(&types.Type{Kind: types.Optional, Inner: t})
		default:
			return t
		}
	}
}

func (p *Parser) parsePrimaryType() *types.Type {
	cur := p.cur()
	switch cur.tok {
	case token.LPAREN:
		p.advance()
		var elems []*types.Type
		if p.peekTok() != token.RPAREN {
			elems = append(elems, p.parseType())
			for p.peekTok() == token.COMMA {
				p.advance()
				elems = append(elems, p.parseType())
			}
		}
		p.expect(token.RPAREN)
		if len(elems) == 1 {
			return elems[0]
		}
		return p.ns.Types.Intern(&types.Type{Kind: types.Group, Elements: elems})
	case token.IDENT:
		name := cur.lit
		p.advance()
		if name == "range" && p.peekTok() == token.LSS {
			p.advance()
			bound := p.parseType()
			p.expect(token.GTR)
			return p.ns.Types.Intern(&types.Type{Kind: types.RangeKind, Bound: bound})
		}
		if name == "ptr" && p.peekTok() == token.LSS {
			p.advance()
			inner := p.parseType()
			p.expect(token.GTR)
			return p.ns.Types.Intern(&types.Type{Kind: types.Pointer, Inner: inner})
		}
		if prim := types.Primitive_(name); prim != nil {
			return prim
		}
		// Forward reference to a data/enum/variant name not yet
		// necessarily interned; pass-2 (or the Analyzer) resolves it
		// against the Namespace once all top-level signatures are
		// visible (spec.md §4.P pass 2).
		if existing, ok := p.ns.Types.Get(name); ok {
			return existing
		}
		return p.ns.Types.Intern(&types.Type{Kind: types.Data, Name: name})
	default:
		p.errorf(cur.pos, "expected type, found %s %q", cur.tok, cur.lit)
		p.advance()
		return types.Void()
	}
}

// parseTypeList parses a comma-separated list of types until tEnd, not
// consuming tEnd.
func (p *Parser) parseTypeList(tEnd token.Token) []*types.Type {
	var out []*types.Type
	if p.peekTok() == tEnd {
		return out
	}
	out = append(out, p.parseType())
	for p.peekTok() == token.COMMA {
		p.advance()
		out = append(out, p.parseType())
	}
	return out
}
