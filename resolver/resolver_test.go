package resolver_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/resolver"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(contents), 0o644)))
	return path
}

// E4 (spec.md §8): files p.flint and q.flint mutually import each other
// → the Resolver produces a dependency graph with one back-edge;
// GetDependencyGraphTips returns one leaf.
func TestMutualImportCycleTolerance(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.flint", `import "q.flint"
def pf() -> i32 { return 0 }
`)
	writeFile(t, dir, "q.flint", `import "p.flint"
def qf() -> i32 { return 0 }
`)

	regs := registry.New()
	nsMap := namespace.NewMap()
	res, errs := resolver.CreateDependencyGraph(filepath.Join(dir, "p.flint"), regs, nsMap, resolver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Not(qt.IsNil(res)))

	root := res.Graph.Root()
	qt.Assert(t, qt.Not(qt.IsNil(root)))

	backEdges := 0
	for _, e := range root.Edges {
		if !e.Owning {
			backEdges++
		}
		for _, e2 := range e.To.Edges {
			if !e2.Owning {
				backEdges++
			}
		}
	}
	qt.Assert(t, qt.Equals(backEdges, 1))

	tips := resolver.GetDependencyGraphTips(root)
	qt.Assert(t, qt.HasLen(tips, 1))
}

// Property 4 (spec.md §8): after pass-1 globally, for every ImportNode
// whose target is a file path, namespace_map contains that file's
// Namespace.
func TestNamespaceClosureAfterGlobalPass1(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.flint", `def main() -> i32 { return 0 }
`)
	bPath := writeFile(t, dir, "b.flint", `import "a.flint"
def other() -> i32 { return 0 }
`)

	regs := registry.New()
	nsMap := namespace.NewMap()
	res, errs := resolver.CreateDependencyGraph(bPath, regs, nsMap, resolver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))

	aHash := fhash.Of(filepath.Join(dir, "a.flint"))
	_, ok := nsMap.Get(aHash)
	qt.Assert(t, qt.IsTrue(ok))

	bHash := fhash.Of(bPath)
	_, ok = nsMap.Get(bHash)
	qt.Assert(t, qt.IsTrue(ok))

	qt.Assert(t, qt.HasLen(res.PreFiles, 2))
}

// Property 8 (spec.md §8): a dependency graph with files A<->B resolves
// without infinite recursion (exercised here with --parallel on, so each
// round runs on the worker pool).
func TestCycleResolvesUnderParallelScheduling(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.flint", `import "q.flint"
def pf() -> i32 { return 0 }
`)
	writeFile(t, dir, "q.flint", `import "p.flint"
def qf() -> i32 { return 0 }
`)

	regs := registry.New()
	nsMap := namespace.NewMap()
	done := make(chan struct{})
	var res *resolver.Result
	var errs []error
	go func() {
		r, e := resolver.CreateDependencyGraph(filepath.Join(dir, "p.flint"), regs, nsMap, resolver.Options{Parallel: true})
		res = r
		for _, err := range e {
			errs = append(errs, err)
		}
		close(done)
	}()
	<-done

	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(res.Graph.Len(), 2))
}

// MinimalTree (spec.md §4.R point 5): a non-aliased import does not
// recurse when MinimalTree is set.
func TestMinimalTreeSkipsNonAliasedImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.flint", `def main() -> i32 { return 0 }
`)
	bPath := writeFile(t, dir, "b.flint", `import "a.flint"
def other() -> i32 { return 0 }
`)

	regs := registry.New()
	nsMap := namespace.NewMap()
	res, errs := resolver.CreateDependencyGraph(bPath, regs, nsMap, resolver.Options{MinimalTree: true})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Equals(res.Graph.Len(), 1))
}

// MaxDepth (spec.md §4.R point 4): a depth cap of one round reports a
// resolve error when the root's import would need a second round.
func TestMaxDepthExceeded(t *testing.T) {
	dir := t.TempDir()
	aPath := writeFile(t, dir, "a.flint", `import "b.flint"
def main() -> i32 { return 0 }
`)
	writeFile(t, dir, "b.flint", `def other() -> i32 { return 0 }
`)

	regs := registry.New()
	nsMap := namespace.NewMap()
	_, errs := resolver.CreateDependencyGraph(aPath, regs, nsMap, resolver.Options{MaxDepth: 1})
	qt.Assert(t, qt.IsTrue(len(errs) > 0))
}
