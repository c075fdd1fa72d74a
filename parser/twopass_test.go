package parser_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/parser"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/token"
)

// pass12 runs Pass1 followed by Pass2 over src and returns the resulting
// *ast.File, using independent Registries/Namespace so successive calls
// in the same test never collide (e.g. over duplicate function names).
func pass12(t *testing.T, src string, reorder func(p *parser.Parser, pf *parser.PreFile)) *ast.File {
	t.Helper()
	regs := registry.New()
	nsMap := namespace.NewMap()
	file := token.NewFile("twopass.flint", []byte(src))
	p := parser.New(file, []byte(src), regs, nsMap)
	pf, err := p.Pass1()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(p.Errors(), 0))
	if reorder != nil {
		reorder(p, pf)
	}
	errs := p.Pass2(pf, true)
	qt.Assert(t, qt.HasLen(errs, 0))
	return pf.File
}

func callChain(f *ast.File, fnName string) []string {
	var out []string
	for _, d := range f.Definitions {
		fn, ok := d.(*ast.FunctionDecl)
		if !ok || fn.Name() != fnName || fn.Body == nil {
			continue
		}
		for _, stmt := range fn.Body.Statements {
			ret, ok := stmt.(*ast.ReturnStmt)
			if !ok || len(ret.Values) == 0 {
				continue
			}
			if call, ok := ret.Values[0].(*ast.CallExpr); ok && call.Function != nil {
				out = append(out, call.Function.Name())
			}
		}
	}
	return out
}

// Property 5 (spec.md §8): for a program free of forward references, the
// AST produced by the two-pass scheme does not depend on the order pass
// 2 parses stashed bodies in — every body's declaration signatures were
// already visible the moment pass 1 finished, so pass 2's own internal
// scheduling is irrelevant to the result.
func TestTwoPassBodyOrderIndependence(t *testing.T) {
	const src = `def a() -> i32 { return 0 }
def b() -> i32 { return a() }
def c() -> i32 { return b() }
`
	forward := pass12(t, src, nil)
	reversed := pass12(t, src, func(p *parser.Parser, pf *parser.PreFile) {
		for i, j := 0, len(pf.Open)-1; i < j; i, j = i+1, j-1 {
			pf.Open[i], pf.Open[j] = pf.Open[j], pf.Open[i]
		}
	})

	qt.Assert(t, qt.DeepEquals(callChain(forward, "b"), callChain(reversed, "b")))
	qt.Assert(t, qt.DeepEquals(callChain(forward, "c"), callChain(reversed, "c")))
	qt.Assert(t, qt.DeepEquals(callChain(forward, "b"), []string{"a"}))
	qt.Assert(t, qt.DeepEquals(callChain(forward, "c"), []string{"b"}))
}

// TestTwoPassResolvesWithoutForwardReference confirms the baseline case
// property 5 talks about: when every callee is declared before its
// caller, pass 2 resolves the call the first time it is parsed, with no
// dependency on any other body having run first.
func TestTwoPassResolvesWithoutForwardReference(t *testing.T) {
	const src = `def helper() -> i32 { return 1 }
def main() -> i32 { return helper() }
`
	f := pass12(t, src, nil)
	qt.Assert(t, qt.DeepEquals(callChain(f, "main"), []string{"helper"}))
}
