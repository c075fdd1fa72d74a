package parser

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/errors"
)

// Pass2 parses every body stashed by Pass1, now that every file's pass 1
// has completed globally and every top-level signature is visible
// (spec.md §4.P: "Pass 2 may be performed in parallel across
// functions" — the caller, typically the Driver, decides whether to
// invoke Pass2 concurrently across PreFiles; each call is independent
// since it only touches pf's own declarations and this Parser's shared,
// already-thread-safe Registries/Namespace).
//
// includeTests mirrors the `--test` CLI flag (spec.md §6): when false,
// TestDecl bodies are left unparsed (Body stays nil) since a plain
// `check` run never needs them; FunctionDecl bodies are always parsed,
// since every other definition's signature may depend on them being
// analyzed.
func (p *Parser) Pass2(pf *PreFile, includeTests bool) errors.List {
	var errs errors.List
	for _, ob := range pf.Open {
		if !includeTests {
			if _, isTest := ob.decl.(*ast.TestDecl); isTest {
				continue
			}
		}
		bp := p.bodyParser(ob.toks)
		body := bp.parseScope(nil)
		errs = append(errs, bp.errs...)
		attachBody(ob.decl, body)
	}
	return errs
}

func attachBody(d ast.Decl, body *ast.Scope) {
	switch t := d.(type) {
	case *ast.FunctionDecl:
		t.Body = body
	case *ast.TestDecl:
		t.Body = body
	}
}
