// Package parser implements component P: a two-pass, per-file Parser
// modeled on cuelang.org/go/cue/parser's per-file `parser` struct and
// functional-options entry point (ParseFile), retargeted at Flint's
// two-pass design (spec.md §4.P): pass 1 skims declarations and stashes
// body tokens; pass 2 parses bodies once every file's pass 1 has
// completed globally.
package parser

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/errors"
	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/scanner"
	"github.com/flint-lang/flintc/token"
)

// tok is one buffered (position, kind, literal) triple.
type tok struct {
	pos token.Pos
	tok token.Token
	lit string
}

// Option configures a Parser, following the teacher's functional-options
// pattern (cue/parser/interface.go's Option type).
type Option func(*Parser)

// Trace installs fn as the Parser's trace callback, useful when
// debugging the grammar by hand.
func Trace(fn func(msg string)) Option {
	return func(p *Parser) { p.trace = fn }
}

// openBody is one stashed (declaration, body token slice) pair, pass-1's
// output per spec.md §4.P — `open_functions` / `open_tests` generalized
// to every definition kind with a body.
type openBody struct {
	decl  ast.Decl
	toks  []tok
}

// PreFile is the typed pass-1/pass-2 handoff spec.md §9 asks for
// ("pass-1 returns a PreFileNode"): declarations plus stashed token
// slices, preventing pass-2 from creating new top-level definitions.
type PreFile struct {
	File  *ast.File
	Open  []openBody
	NS    *namespace.Namespace
}

// Parser is bound to one file for its entire pass-1/pass-2 lifetime.
type Parser struct {
	file *token.File
	toks []tok
	pos  int // index into toks of the next unconsumed token

	regs *registry.Registries
	nsMap *namespace.Map
	ns    *namespace.Namespace

	imports []*ast.ImportDecl
	errs    errors.List

	trace func(string)
}

// New returns a Parser for one file's source, lexing it eagerly into a
// buffered token slice (the Parser's "pending token list" of spec.md
// §4.P) so that pass-1 can stash arbitrary sub-slices as bodies.
func New(file *token.File, src []byte, regs *registry.Registries, nsMap *namespace.Map, opts ...Option) *Parser {
	p := &Parser{file: file, regs: regs, nsMap: nsMap}
	for _, o := range opts {
		o(p)
	}

	var errs errors.List
	var sc scanner.Scanner
	sc.Init(file, src, scanner.ErrHandler(&errs))
	for {
		pos, tk, lit := sc.Scan()
		p.toks = append(p.toks, tok{pos, tk, lit})
		if tk == token.EOF {
			break
		}
	}
	p.errs = append(p.errs, errs...)
	return p
}

func (p *Parser) cur() tok { return p.toks[p.pos] }

func (p *Parser) peekTok() token.Token { return p.cur().tok }

func (p *Parser) advance() tok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	if p.trace != nil {
		p.trace("advance: " + t.tok.String() + " " + t.lit)
	}
	return t
}

// skipEOLs consumes any run of synthesized EOL tokens, used between
// statements/declarations where blank lines are insignificant.
func (p *Parser) skipEOLs() {
	for p.peekTok() == token.EOL {
		p.advance()
	}
}

func (p *Parser) errorf(pos token.Pos, format string, args ...interface{}) {
	p.errs = append(p.errs, errors.Newf(errors.Parse, pos, format, args...))
}

// expect consumes the current token if it matches want, else records a
// parse error and returns the token unconsumed (error-recovery matches
// the teacher's expect/errorExpected helpers).
func (p *Parser) expect(want token.Token) tok {
	t := p.cur()
	if t.tok != want {
		p.errorf(t.pos, "expected %s, found %s %q", want, t.tok, t.lit)
		return t
	}
	return p.advance()
}

// Errors returns every diagnostic recorded so far.
func (p *Parser) Errors() errors.List { return p.errs }

// Namespace returns the file's Namespace, valid once pass 1 has run.
func (p *Parser) Namespace() *namespace.Namespace { return p.ns }

// collectBody stashes the token slice of a `{ ... }` body (matching
// braces, honoring nested braces), per spec.md §4.P's "stash the body
// tokens without parsing them". The opening LBRACE must be the current
// token; consumes through the matching RBRACE inclusive.
func (p *Parser) collectBody() []tok {
	p.expect(token.LBRACE)
	depth := 1
	start := p.pos
	for depth > 0 {
		switch p.peekTok() {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				end := p.pos
				p.advance() // consume the final RBRACE
				body := append([]tok(nil), p.toks[start:end]...)
				return body
			}
		case token.EOF:
			p.errorf(p.cur().pos, "unterminated block, expected '}'")
			return append([]tok(nil), p.toks[start:p.pos]...)
		}
		p.advance()
	}
	return nil
}

// bodyParser returns a fresh Parser-like cursor over a stashed token
// slice, sharing this Parser's file/registries/namespace/import context
// so pass-2 body parsing resolves names exactly as pass-1 would have.
func (p *Parser) bodyParser(body []tok) *Parser {
	toks := append(append([]tok(nil), body...), tok{tok: token.EOF})
	return &Parser{
		file: p.file, toks: toks, regs: p.regs, nsMap: p.nsMap, ns: p.ns,
		imports: p.imports, trace: p.trace,
	}
}

// Hash is a convenience for deriving this file's identity.
func (p *Parser) Hash() fhash.Hash { return fhash.Of(p.file.Name()) }
