package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/driver"
	"github.com/flint-lang/flintc/fhash"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(contents), 0o644)))
	return path
}

// E1 (spec.md §8): file a.flint = `def main() -> i32 { return 0 }` → pass
// 1 yields one FunctionDecl named main with empty parameters, return
// types [i32], error types []; Analyzer OK; the namespace's definitions
// list for a.flint has length 1.
func TestCompileSingleFunctionFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.flint", `def main() -> i32 { return 0 }
`)

	res, errs := driver.Compile(path, driver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.Not(qt.IsNil(res)))

	h := fhash.Of(mustAbs(t, path))
	f, ok := res.Files[h]
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(f.Definitions, 1))

	fn, ok := f.Definitions[0].(*ast.FunctionDecl)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(fn.Name(), "main"))
	qt.Assert(t, qt.HasLen(fn.Parameters, 0))
	qt.Assert(t, qt.HasLen(fn.ReturnTypes, 1))
	qt.Assert(t, qt.HasLen(fn.ErrorTypes, 0))

	ns, ok := res.NSMap.Get(h)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(ns.Definitions(), 1))
}

// E2 (spec.md §8): file b.flint imports a.flint and calls main() →
// once pass 2 completes, the CallExpr's resolved Function field points
// at a.flint's FunctionDecl.
func TestCompileResolvesCrossFileCall(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.flint", `def main() -> i32 { return 0 }
`)
	bPath := writeFile(t, dir, "b.flint", `import "a.flint"

def caller() -> i32 {
	return main()
}
`)

	res, errs := driver.Compile(bPath, driver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))

	bHash := fhash.Of(mustAbs(t, bPath))
	bFile, ok := res.Files[bHash]
	qt.Assert(t, qt.IsTrue(ok))

	caller := findFunction(t, bFile, "caller")
	qt.Assert(t, qt.Not(qt.IsNil(caller.Body)))
	qt.Assert(t, qt.HasLen(caller.Body.Statements, 1))

	ret, ok := caller.Body.Statements[0].(*ast.ReturnStmt)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(ret.Values, 1))

	call, ok := ret.Values[0].(*ast.CallExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Not(qt.IsNil(call.Function)))
	qt.Assert(t, qt.Equals(call.Function.Name(), "main"))
}

// E3 (spec.md §8): file c.flint declares `data D { x: i32 }` and a
// function holding a D-typed variable with a `d.x` field access → the
// type registry contains exactly one D (interned once, shared by every
// reference to the name), and the field access parses to a
// DataAccessExpr naming field "x" off that variable.
func TestCompileDataFieldAccess(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.flint", `data D {
	x: i32
}

def use(d: D) -> i32 {
	return d.x
}
`)

	res, errs := driver.Compile(path, driver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))

	h := fhash.Of(mustAbs(t, path))
	f, ok := res.Files[h]
	qt.Assert(t, qt.IsTrue(ok))

	use := findFunction(t, f, "use")
	qt.Assert(t, qt.HasLen(use.Parameters, 1))
	qt.Assert(t, qt.Not(qt.IsNil(use.Body)))

	ret, ok := use.Body.Statements[len(use.Body.Statements)-1].(*ast.ReturnStmt)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.HasLen(ret.Values, 1))

	access, ok := ret.Values[0].(*ast.DataAccessExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(access.Field, "x"))

	base, ok := access.Base.(*ast.VariableExpr)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(base.Name, "d"))

	ns, ok := res.NSMap.Get(h)
	qt.Assert(t, qt.IsTrue(ok))
	dType, ok := ns.Types.Get("D")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(use.Parameters[0].Type, dType))
}

// E4 (spec.md §8): mutually importing files still complete a full
// Compile run without a deadlock or a reported resolve error — the
// one-back-edge behavior itself is covered at the Resolver layer in
// resolver_test.go; this is a smoke test that the Driver tolerates it
// end to end.
func TestCompileToleratesMutualImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.flint", `import "q.flint"
def pf() -> i32 { return 0 }
`)
	qPath := writeFile(t, dir, "q.flint", `import "p.flint"
def qf() -> i32 { return 0 }
`)

	res, errs := driver.Compile(qPath, driver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))
	qt.Assert(t, qt.HasLen(res.Files, 2))
}

// E5 (spec.md §8): a pointer type outside an extern context is rejected
// by the Analyzer with ERR_PTR_NOT_ALLOWED_IN_NON_EXTERN_CONTEXT.
func TestCompileRejectsPointerOutsideExtern(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "d.flint", `def f() -> i32 {
	mut a: ptr<i32> := 0
	return 0
}
`)

	_, errs := driver.Compile(path, driver.Options{})
	qt.Assert(t, qt.Not(qt.HasLen(errs, 0)))
}

// E6 (spec.md §8): a file declaring two tests named "t" reports a
// duplicate-test-name error with both positions.
func TestCompileRejectsDuplicateTestName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "e.flint", `test "t" {
	return 0
}

test "t" {
	return 0
}
`)

	_, errs := driver.Compile(path, driver.Options{Test: true})
	qt.Assert(t, qt.Not(qt.HasLen(errs, 0)))
}

// TestCompileParallelMatchesSerial checks that running with Parallel set
// produces the same set of discovered files as a serial run, for a
// small multi-file project — spec.md §5's parallelism knobs must not
// change the result, only the scheduling.
func TestCompileParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.flint", `def a() -> i32 { return 0 }
`)
	writeFile(t, dir, "b.flint", `import "a.flint"
def b() -> i32 { return a() }
`)
	path := writeFile(t, dir, "c.flint", `import "b.flint"
def c() -> i32 { return b() }
`)

	serial, serialErrs := driver.Compile(path, driver.Options{})
	parallel, parallelErrs := driver.Compile(path, driver.Options{Parallel: true})

	qt.Assert(t, qt.HasLen(serialErrs, 0))
	qt.Assert(t, qt.HasLen(parallelErrs, 0))
	qt.Assert(t, qt.Equals(len(serial.Files), len(parallel.Files)))
}

// TestCompileOmitsTestBodiesWithoutFlag confirms the --test CLI flag
// semantics (spec.md §6): without Test set, a TestDecl's Body stays nil
// after Compile; with it set, the body is parsed.
func TestCompileOmitsTestBodiesWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.flint", `test "only" {
	return 0
}
`)

	withoutTests, errs := driver.Compile(path, driver.Options{})
	qt.Assert(t, qt.HasLen(errs, 0))
	h := fhash.Of(mustAbs(t, path))
	fNoTest := withoutTests.Files[h]
	td := findTest(t, fNoTest, "only")
	qt.Assert(t, qt.IsNil(td.Body))

	withTests, errs := driver.Compile(path, driver.Options{Test: true})
	qt.Assert(t, qt.HasLen(errs, 0))
	fWithTest := withTests.Files[h]
	td2 := findTest(t, fWithTest, "only")
	qt.Assert(t, qt.Not(qt.IsNil(td2.Body)))
}

func mustAbs(t *testing.T, path string) string {
	t.Helper()
	abs, err := filepath.Abs(path)
	qt.Assert(t, qt.IsNil(err))
	return abs
}

func findFunction(t *testing.T, f *ast.File, name string) *ast.FunctionDecl {
	t.Helper()
	for _, d := range f.Definitions {
		if fn, ok := d.(*ast.FunctionDecl); ok && fn.Name() == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}

func findTest(t *testing.T, f *ast.File, name string) *ast.TestDecl {
	t.Helper()
	for _, d := range f.Definitions {
		if td, ok := d.(*ast.TestDecl); ok && td.Name() == name {
			return td
		}
	}
	t.Fatalf("test %q not found", name)
	return nil
}
