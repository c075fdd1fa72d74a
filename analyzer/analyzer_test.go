package analyzer_test

import (
	"testing"

	qt "github.com/go-quicktest/qt"

	"github.com/flint-lang/flintc/analyzer"
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/namespace"
	"github.com/flint-lang/flintc/registry"
	"github.com/flint-lang/flintc/types"
)

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(registry.New(), namespace.NewMap())
}

func varExpr(name string, t *types.Type) *ast.VariableExpr {
	return &ast.VariableExpr{ExprBase: ast.ExprBase{Type: t}, Name: name}
}

func scopeWith(stmts ...ast.Stmt) *ast.Scope {
	return &ast.Scope{Variables: map[string]*ast.Variable{}, Statements: stmts}
}

func fn(body *ast.Scope, opts ...func(*ast.FunctionDecl)) *ast.FunctionDecl {
	f := &ast.FunctionDecl{Body: body}
	for _, o := range opts {
		o(f)
	}
	return f
}

// property 6 (spec.md §8): a pointer type used outside an extern context
// is rejected; the same type is accepted inside one.
func TestPointerTypeRejectedOutsideExtern(t *testing.T) {
	ptr := &types.Type{Kind: types.Pointer, Inner: types.I32()}
	f := &ast.FunctionDecl{
		Parameters: []ast.Param{{Name: "p", Type: ptr}},
		Body:       scopeWith(),
	}
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestPointerTypeAcceptedInExtern(t *testing.T) {
	ptr := &types.Type{Kind: types.Pointer, Inner: types.I32()}
	f := &ast.FunctionDecl{
		IsExtern:   true,
		Parameters: []ast.Param{{Name: "p", Type: ptr}},
		Body:       scopeWith(),
	}
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestBreakOutsideLoopRejected(t *testing.T) {
	f := fn(scopeWith(&ast.BreakStmt{}))
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestBreakInsideLoopAccepted(t *testing.T) {
	loopBody := scopeWith(&ast.BreakStmt{})
	f := fn(scopeWith(&ast.WhileStmt{Condition: varExpr("ok", types.Bool()), Body: loopBody}))
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestThrowWithoutErrorTypesRejected(t *testing.T) {
	f := fn(scopeWith(&ast.ThrowStmt{Value: varExpr("e", nil)}))
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestThrowWithErrorTypesAccepted(t *testing.T) {
	errType := &types.Type{Kind: types.Data, Name: "MyErr"}
	f := fn(scopeWith(&ast.ThrowStmt{Value: varExpr("e", errType)}),
		func(f *ast.FunctionDecl) { f.ErrorTypes = []*types.Type{errType} })
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestReturnArityMismatchRejected(t *testing.T) {
	f := fn(scopeWith(&ast.ReturnStmt{Values: []ast.Expr{varExpr("x", types.I32()), varExpr("y", types.I32())}}),
		func(f *ast.FunctionDecl) { f.ReturnTypes = []*types.Type{types.I32()} })
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestReturnArityMatchAccepted(t *testing.T) {
	f := fn(scopeWith(&ast.ReturnStmt{Values: []ast.Expr{varExpr("x", types.I32())}}),
		func(f *ast.FunctionDecl) { f.ReturnTypes = []*types.Type{types.I32()} })
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestCatchOnNonThrowingCallRejected(t *testing.T) {
	regs := registry.New()
	call := &ast.CallExpr{FunctionName: "f"}
	regs.Calls.Append(call)
	f := fn(scopeWith(&ast.CatchStmt{CallID: call.CallID, Body: scopeWith()}))
	a := analyzer.New(regs, namespace.NewMap())
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestCatchOnThrowingCallAccepted(t *testing.T) {
	regs := registry.New()
	errType := &types.Type{Kind: types.Data, Name: "MyErr"}
	call := &ast.CallExpr{FunctionName: "f", ErrorTypes: []*types.Type{errType}}
	regs.Calls.Append(call)
	f := fn(scopeWith(&ast.CatchStmt{CallID: call.CallID, Body: scopeWith()}))
	a := analyzer.New(regs, namespace.NewMap())
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestAssignToImmutableVariableRejected(t *testing.T) {
	sc := scopeWith()
	sc.Variables["x"] = &ast.Variable{Type: types.I32(), Mutable: false}
	sc.Statements = []ast.Stmt{&ast.AssignmentStmt{
		Kind: ast.AssignDirect, Target: varExpr("x", types.I32()), Value: varExpr("x", types.I32()),
	}}
	f := fn(sc)
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestAssignToMutableVariableAccepted(t *testing.T) {
	sc := scopeWith()
	sc.Variables["x"] = &ast.Variable{Type: types.I32(), Mutable: true}
	sc.Statements = []ast.Stmt{&ast.AssignmentStmt{
		Kind: ast.AssignDirect, Target: varExpr("x", types.I32()), Value: varExpr("x", types.I32()),
	}}
	f := fn(sc)
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestConstFunctionMutatingNonParameterRejected(t *testing.T) {
	sc := scopeWith()
	sc.Variables["local"] = &ast.Variable{Type: types.I32(), Mutable: true}
	sc.Statements = []ast.Stmt{&ast.AssignmentStmt{
		Kind: ast.AssignDirect, Target: varExpr("local", types.I32()), Value: varExpr("local", types.I32()),
	}}
	f := fn(sc, func(f *ast.FunctionDecl) {
		f.IsConst = true
		f.Parameters = []ast.Param{{Name: "p", Type: types.I32()}}
	})
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestConstFunctionMutatingParameterAccepted(t *testing.T) {
	sc := scopeWith()
	sc.Statements = []ast.Stmt{&ast.AssignmentStmt{
		Kind: ast.AssignDirect, Target: varExpr("p", types.I32()), Value: varExpr("p", types.I32()),
	}}
	f := fn(sc, func(f *ast.FunctionDecl) {
		f.IsConst = true
		f.Parameters = []ast.Param{{Name: "p", Type: types.I32()}}
	})
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestArrayIndexMustBeIntegerRejected(t *testing.T) {
	arr := &types.Type{Kind: types.Array, Element: types.I32(), Rank: 1}
	idx := varExpr("b", types.Bool())
	sc := scopeWith(&ast.CallStmt{Call: &ast.CallExpr{
		FunctionName: "use",
		Function:     &ast.FunctionDecl{DeclBase: ast.DeclBase{DeclName: "use"}},
		Arguments:    []ast.Argument{{Value: &ast.ArrayAccessExpr{ExprBase: ast.ExprBase{Type: types.I32()}, Array: varExpr("a", arr), Index: idx}}},
	}})
	f := fn(sc)
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestArrayIndexIntegerAccepted(t *testing.T) {
	arr := &types.Type{Kind: types.Array, Element: types.I32(), Rank: 1}
	idx := varExpr("i", types.I32())
	sc := scopeWith(&ast.CallStmt{Call: &ast.CallExpr{
		FunctionName: "use",
		Function:     &ast.FunctionDecl{DeclBase: ast.DeclBase{DeclName: "use"}},
		Arguments:    []ast.Argument{{Value: &ast.ArrayAccessExpr{ExprBase: ast.ExprBase{Type: types.I32()}, Array: varExpr("a", arr), Index: idx}}},
	}})
	f := fn(sc)
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

// spec.md §4.A: a switch over an enum subject must cover every value
// unless it has a default branch.
func TestNonExhaustiveEnumSwitchRejected(t *testing.T) {
	h := fhash.Of("/enum.flint")
	ns := namespace.New(h)
	enumDecl := &ast.EnumDecl{DeclBase: ast.DeclBase{DeclName: "Color"}, Values: []string{"Red", "Green", "Blue"}}
	qt.Assert(t, qt.IsNil(ns.AddDefinition("Color", enumDecl)))
	nsMap := namespace.NewMap()
	nsMap.Store(ns)

	enumType := &types.Type{Kind: types.Enum, Name: "Color"}
	sc := scopeWith(&ast.SwitchStmt{
		Subject: varExpr("c", enumType),
		Branches: []ast.SwitchStmtBranch{
			{Matches: []*ast.SwitchMatchExpr{{Pattern: varExpr("Red", enumType)}}, Body: scopeWith()},
		},
	})
	f := fn(sc)
	a := analyzer.New(registry.New(), nsMap)
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestExhaustiveEnumSwitchAccepted(t *testing.T) {
	h := fhash.Of("/enum2.flint")
	ns := namespace.New(h)
	enumDecl := &ast.EnumDecl{DeclBase: ast.DeclBase{DeclName: "Color"}, Values: []string{"Red", "Green"}}
	qt.Assert(t, qt.IsNil(ns.AddDefinition("Color", enumDecl)))
	nsMap := namespace.NewMap()
	nsMap.Store(ns)

	enumType := &types.Type{Kind: types.Enum, Name: "Color"}
	sc := scopeWith(&ast.SwitchStmt{
		Subject: varExpr("c", enumType),
		Branches: []ast.SwitchStmtBranch{
			{Matches: []*ast.SwitchMatchExpr{{Pattern: varExpr("Red", enumType)}}, Body: scopeWith()},
			{Matches: []*ast.SwitchMatchExpr{{Pattern: varExpr("Green", enumType)}}, Body: scopeWith()},
		},
	})
	f := fn(sc)
	a := analyzer.New(registry.New(), nsMap)
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

// spec.md §4.A: each variant case must bind its payload name uniquely.
func TestDuplicateVariantBindingRejected(t *testing.T) {
	variantType := &types.Type{Kind: types.VariantKind, Name: "Shape"}
	sc := scopeWith(&ast.SwitchStmt{
		Subject: varExpr("s", variantType),
		Branches: []ast.SwitchStmtBranch{
			{Matches: []*ast.SwitchMatchExpr{{Pattern: &ast.DefaultExpr{}, Bind: "payload"}}, Body: scopeWith()},
			{Matches: []*ast.SwitchMatchExpr{{Pattern: &ast.DefaultExpr{}, Bind: "payload"}}, Body: scopeWith()},
		},
	})
	f := fn(sc)
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

// immutable data fields may only be written from a constructor context.
func TestAssignToImmutableDataFieldOutsideConstructorRejected(t *testing.T) {
	regs := registry.New()
	dataType := &types.Type{Kind: types.Data, Name: "Point"}
	decl := &ast.DataDecl{DeclBase: ast.DeclBase{DeclName: "Point"}, IsImmutable: true, Fields: []ast.Field{{Name: "x", Type: types.I32()}}}
	regs.AddData("point.flint", decl)

	sc := scopeWith(&ast.AssignmentStmt{
		Kind:   ast.AssignDataField,
		Target: varExpr("p", dataType),
		Field:  "x",
		Value:  varExpr("v", types.I32()),
	})
	f := fn(sc)
	a := analyzer.New(regs, namespace.NewMap())
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.Not(qt.HasLen(a.Errors(), 0)))
}

func TestAssignToMutableDataFieldAccepted(t *testing.T) {
	regs := registry.New()
	dataType := &types.Type{Kind: types.Data, Name: "Point"}
	decl := &ast.DataDecl{DeclBase: ast.DeclBase{DeclName: "Point"}, IsImmutable: false, Fields: []ast.Field{{Name: "x", Type: types.I32()}}}
	regs.AddData("point.flint", decl)

	sc := scopeWith(&ast.AssignmentStmt{
		Kind:   ast.AssignDataField,
		Target: varExpr("p", dataType),
		Field:  "x",
		Value:  varExpr("v", types.I32()),
	})
	f := fn(sc)
	a := analyzer.New(regs, namespace.NewMap())
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}

func TestNilBodyDoesNotPanic(t *testing.T) {
	f := &ast.FunctionDecl{DeclBase: ast.DeclBase{DeclName: "noop"}}
	a := newAnalyzer()
	a.AnalyzeFile(&ast.File{Definitions: []ast.Decl{f}})
	qt.Assert(t, qt.HasLen(a.Errors(), 0))
}
