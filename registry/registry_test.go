package registry_test

import (
	"sync"
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/registry"
)

// Property 2 (spec.md §8): across one compile run, no two Scopes carry
// the same scope-id, even when parsing is parallel.
func TestScopeIDUniquenessUnderConcurrency(t *testing.T) {
	r := registry.New()
	const n = 500
	ids := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = r.IDs.NextScopeID()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for _, id := range ids {
		qt.Assert(t, qt.IsFalse(seen[id]))
		seen[id] = true
	}
}

// Property 3 (spec.md §8): the keys of parsed_calls appear in strictly
// increasing parse order, and "catch" at the point of parse references
// the largest key present.
func TestCallArenaOrdering(t *testing.T) {
	r := registry.New()
	var last uint64
	for i := 0; i < 5; i++ {
		call := &ast.CallExpr{FunctionName: "f"}
		id := r.Calls.Append(call)
		qt.Assert(t, qt.Equals(id, uint64(i)))
		qt.Assert(t, qt.Equals(call.CallID, id))
		last = id
	}
	latest, ok := r.Calls.Latest()
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(latest, last))
}

// Property 7 (spec.md §8): check_test_name returns true the first time
// and false for every subsequent call with the same pair.
func TestCheckTestNameUniqueness(t *testing.T) {
	r := registry.New()
	qt.Assert(t, qt.IsTrue(r.CheckTestName("a.flint", "t")))
	qt.Assert(t, qt.IsFalse(r.CheckTestName("a.flint", "t")))
	qt.Assert(t, qt.IsTrue(r.CheckTestName("b.flint", "t")))
}

func TestClearResetsState(t *testing.T) {
	r := registry.New()
	r.Calls.Append(&ast.CallExpr{})
	r.AddFunction(&ast.FunctionDecl{}, "a.flint")
	r.CheckTestName("a.flint", "t")
	r.Clear()

	qt.Assert(t, qt.HasLen(r.Functions(), 0))
	qt.Assert(t, qt.IsTrue(r.CheckTestName("a.flint", "t")))
}
