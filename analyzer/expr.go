package analyzer

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

func (a *Analyzer) analyzeExpr(ctx *Context, sc *ast.Scope, e ast.Expr) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.LiteralExpr:
		// no children

	case *ast.VariableExpr:
		// const-function mutation is checked at write sites; back-fill the
		// declared type from scope so downstream checks that gate on
		// ResolvedType() (e.g. switch exhaustiveness) see a real type for
		// the common `switch someVar {...}` case instead of treating it as
		// untyped, since the parser itself never populates this.
		if x.Type == nil && sc != nil {
			if v := lookupVariable(sc, x.Name); v != nil {
				x.Type = v.Type
			}
		}

	case *ast.UnaryOpExpr:
		a.analyzeExpr(ctx, sc, x.Operand)

	case *ast.BinaryOpExpr:
		a.analyzeExpr(ctx, sc, x.Left)
		a.analyzeExpr(ctx, sc, x.Right)

	case *ast.CallExpr:
		for _, arg := range x.Arguments {
			a.analyzeExpr(ctx, sc, arg.Value)
		}
		if x.Function == nil {
			a.report(x.Pos(), ErrUnresolvedCall,
				"no matching overload for call to %q with %d argument(s)", x.FunctionName, len(x.Arguments))
		}

	case *ast.InstanceCallExpr:
		a.analyzeExpr(ctx, sc, x.Receiver)
		if x.Call != nil {
			a.analyzeExpr(ctx, sc, x.Call)
		}

	case *ast.InitializerExpr:
		for _, f := range x.Fields {
			a.analyzeExpr(ctx, sc, f)
		}

	case *ast.ArrayInitializerExpr:
		for _, d := range x.Dimensions {
			a.analyzeExpr(ctx, sc, d)
			if t := d.ResolvedType(); t != nil && !isIntegerType(t) {
				a.report(d.Pos(), ErrArrayIndexNotInteger, "array dimension must be an integer type, got %q", t.String())
			}
		}
		for _, el := range x.Elements {
			a.analyzeExpr(ctx, sc, el)
		}

	case *ast.ArrayAccessExpr:
		a.analyzeExpr(ctx, sc, x.Array)
		a.analyzeExpr(ctx, sc, x.Index)
		if t := x.Index.ResolvedType(); t != nil && !isIntegerType(t) {
			a.report(x.Index.Pos(), ErrArrayIndexNotInteger, "array index must be an integer type, got %q", t.String())
		}

	case *ast.DataAccessExpr:
		a.analyzeExpr(ctx, sc, x.Base)

	case *ast.GroupedDataAccessExpr:
		a.analyzeExpr(ctx, sc, x.Base)

	case *ast.GroupExpr:
		for _, el := range x.Elements {
			a.analyzeExpr(ctx, sc, el)
		}

	case *ast.RangeExpr:
		a.analyzeExpr(ctx, sc, x.Low)
		a.analyzeExpr(ctx, sc, x.High)

	case *ast.StringInterpolationExpr:
		for _, sub := range x.Exprs {
			a.analyzeExpr(ctx, sc, sub)
		}

	case *ast.SwitchExpr:
		a.analyzeSwitchExhaustivenessExpr(ctx, sc, x.Subject, x.Branches)
		for _, br := range x.Branches {
			a.analyzeExpr(ctx, sc, br.Result)
		}

	case *ast.TypeCastExpr:
		a.analyzeType(ctx, x.Type)
		a.analyzeExpr(ctx, sc, x.Operand)

	case *ast.TypeExpr:
		a.analyzeType(ctx, x.Denoted)

	case *ast.OptionalChainExpr:
		a.analyzeExpr(ctx, sc, x.BaseExpr)
		for _, op := range x.Operations {
			if op.Index != nil {
				a.analyzeExpr(ctx, sc, op.Index)
			}
		}

	case *ast.OptionalUnwrapExpr:
		a.analyzeExpr(ctx, sc, x.Operand)

	case *ast.VariantExtractionExpr:
		a.analyzeExpr(ctx, sc, x.BaseExpr)

	case *ast.VariantUnwrapExpr:
		a.analyzeExpr(ctx, sc, x.Operand)
	}
}

// checkConstMutation implements "Constants (const functions) touch no
// variables outside their parameter list" (spec.md §4.A), applied at
// mutation sites: a write (assignment or increment/decrement) inside a
// const function is only legal when its target is one of the function's
// own parameters.
func (a *Analyzer) checkConstMutation(ctx *Context, pos token.Pos, target ast.Expr) {
	if !ctx.IsConstFn {
		return
	}
	v, ok := target.(*ast.VariableExpr)
	if !ok {
		return
	}
	if !ctx.Params[v.Name] {
		a.report(pos, ErrConstFunctionMutatesNonParameter,
			"const function mutates %q, which is not one of its parameters", v.Name)
	}
}

// checkImmutableField implements "immutable-data fields are written
// only in a constructor context" (spec.md §4.A) for an
// AssignDataField/AssignGroupedDataField target, where base is the
// receiver expression (AssignmentStmt.Target) and field is the written
// field name (AssignmentStmt.Field, or one entry of .Fields).
func (a *Analyzer) checkImmutableField(ctx *Context, pos token.Pos, base ast.Expr, field string) {
	baseType := base.ResolvedType()
	if baseType == nil {
		return
	}
	decl := a.dataDeclFor(baseType.Name)
	if decl == nil || !decl.IsImmutable {
		return
	}
	if ctx.Level != ConstData {
		a.report(pos, ErrAssignToImmutableData,
			"field %q of immutable data %q written outside a constructor context", field, baseType.Name)
	}
}

// analyzeSwitchExhaustiveness implements "switch branches are
// exhaustive for enum and variant switches, and every variant case
// binds its payload name uniquely" (spec.md §4.A) for the statement
// form of switch.
func (a *Analyzer) analyzeSwitchExhaustiveness(ctx *Context, sc *ast.Scope, subject ast.Expr, branches []ast.SwitchStmtBranch) {
	a.analyzeExpr(ctx, sc, subject)
	var matches [][]*ast.SwitchMatchExpr
	hasDefault := false
	for _, br := range branches {
		matches = append(matches, br.Matches)
		for _, m := range br.Matches {
			if _, ok := m.Pattern.(*ast.DefaultExpr); ok {
				hasDefault = true
			}
		}
	}
	a.checkSwitchExhaustiveness(subject, matches, hasDefault)
}

func (a *Analyzer) analyzeSwitchExhaustivenessExpr(ctx *Context, sc *ast.Scope, subject ast.Expr, branches []ast.SwitchBranch) {
	a.analyzeExpr(ctx, sc, subject)
	var matches [][]*ast.SwitchMatchExpr
	hasDefault := false
	for _, br := range branches {
		matches = append(matches, br.Matches)
		for _, m := range br.Matches {
			if _, ok := m.Pattern.(*ast.DefaultExpr); ok {
				hasDefault = true
			}
		}
	}
	a.checkSwitchExhaustiveness(subject, matches, hasDefault)
}

func (a *Analyzer) checkSwitchExhaustiveness(subject ast.Expr, matches [][]*ast.SwitchMatchExpr, hasDefault bool) {
	t := subject.ResolvedType()
	if t == nil || (t.Kind != types.Enum && t.Kind != types.VariantKind) {
		return
	}

	bindNames := make(map[string]bool)
	seen := make(map[string]bool)
	for _, ms := range matches {
		for _, m := range ms {
			if v, ok := m.Pattern.(*ast.VariableExpr); ok {
				seen[v.Name] = true
			}
			if m.Bind != "" {
				if bindNames[m.Bind] {
					a.report(m.Pos(), ErrDuplicateVariantBinding,
						"variant case binds payload name %q more than once", m.Bind)
				}
				bindNames[m.Bind] = true
			}
		}
	}

	if hasDefault {
		return
	}

	switch t.Kind {
	case types.Enum:
		decl := a.enumDeclFor(t.Name)
		if decl == nil {
			return
		}
		for _, v := range decl.Values {
			if !seen[v] {
				a.report(subject.Pos(), ErrNonExhaustiveSwitch,
					"switch over enum %q is not exhaustive: %q is unhandled", t.Name, v)
			}
		}

	case types.VariantKind:
		decl := a.variantDeclFor(t.Name)
		if decl == nil {
			return
		}
		for _, p := range decl.Possibilities {
			if p.Tag != "" && !seen[p.Tag] {
				a.report(subject.Pos(), ErrNonExhaustiveSwitch,
					"switch over variant %q is not exhaustive: %q is unhandled", t.Name, p.Tag)
			}
		}
	}
}
