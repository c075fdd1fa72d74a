package analyzer

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/token"
)

func (a *Analyzer) analyzeScope(ctx *Context, sc *ast.Scope) {
	for _, stmt := range sc.Statements {
		a.analyzeStmt(ctx, sc, stmt)
	}
}

func (a *Analyzer) analyzeStmt(ctx *Context, sc *ast.Scope, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.DeclarationStmt:
		a.analyzeType(ctx, s.Type)
		if s.Value != nil {
			a.analyzeExpr(ctx, sc, s.Value)
		}

	case *ast.GroupDeclarationStmt:
		if s.Value != nil {
			a.analyzeExpr(ctx, sc, s.Value)
		}

	case *ast.AssignmentStmt:
		a.analyzeAssignment(ctx, sc, s)

	case *ast.CallStmt:
		a.analyzeExpr(ctx, sc, s.Call)

	case *ast.CatchStmt:
		call := a.regs.Calls.At(s.CallID)
		if call != nil && len(call.ErrorTypes) == 0 {
			a.report(s.Pos(), ErrCatchOnNonThrowingCall,
				"catch refers to a call to %q, which declares no error types", call.FunctionName)
		}
		if s.Body != nil {
			a.analyzeScope(ctx, s.Body)
		}

	case *ast.ThrowStmt:
		if len(ctx.ErrorTypes) == 0 {
			a.report(s.Pos(), ErrThrowWithoutErrorTypes,
				"throw used in a function with no declared error types")
		}
		a.analyzeExpr(ctx, sc, s.Value)

	case *ast.ReturnStmt:
		if len(s.Values) != len(ctx.ReturnTypes) {
			a.report(s.Pos(), ErrReturnTypeMismatch,
				"return has %d value(s), function declares %d return type(s)", len(s.Values), len(ctx.ReturnTypes))
		} else {
			for i, v := range s.Values {
				a.analyzeExpr(ctx, sc, v)
				if got := v.ResolvedType(); got != nil && got != ctx.ReturnTypes[i] {
					a.report(s.Pos(), ErrReturnTypeMismatch,
						"return value %d has type %q, function declares %q", i, got.String(), ctx.ReturnTypes[i].String())
				}
			}
		}

	case *ast.IfStmt:
		a.analyzeExpr(ctx, sc, s.Condition)
		a.analyzeScope(ctx, s.Then)
		if s.Else != nil {
			if s.Else.If != nil {
				a.analyzeStmt(ctx, sc, s.Else.If)
			} else if s.Else.Scope != nil {
				a.analyzeScope(ctx, s.Else.Scope)
			}
		}

	case *ast.WhileStmt:
		a.analyzeExpr(ctx, sc, s.Condition)
		loopCtx := *ctx
		loopCtx.InLoop = true
		a.analyzeScope(&loopCtx, s.Body)

	case *ast.DoWhileStmt:
		loopCtx := *ctx
		loopCtx.InLoop = true
		a.analyzeScope(&loopCtx, s.Body)
		a.analyzeExpr(ctx, sc, s.Condition)

	case *ast.ForStmt:
		if s.Init != nil {
			a.analyzeStmt(ctx, sc, s.Init)
		}
		if s.Condition != nil {
			a.analyzeExpr(ctx, sc, s.Condition)
		}
		loopCtx := *ctx
		loopCtx.InLoop = true
		a.analyzeScope(&loopCtx, s.Body)
		if s.Post != nil {
			a.analyzeStmt(&loopCtx, sc, s.Post)
		}

	case *ast.EnhancedForStmt:
		a.analyzeExpr(ctx, sc, s.Collection)
		loopCtx := *ctx
		loopCtx.InLoop = true
		a.analyzeScope(&loopCtx, s.Body)

	case *ast.SwitchStmt:
		a.analyzeSwitchExhaustiveness(ctx, sc, s.Subject, s.Branches)
		for _, br := range s.Branches {
			a.analyzeScope(ctx, br.Body)
		}

	case *ast.BreakStmt:
		if !ctx.InLoop {
			a.report(s.Pos(), ErrBreakContinueOutsideLoop, "break used outside a loop body")
		}

	case *ast.ContinueStmt:
		if !ctx.InLoop {
			a.report(s.Pos(), ErrBreakContinueOutsideLoop, "continue used outside a loop body")
		}

	case *ast.UnaryOpStmt:
		a.analyzeExpr(ctx, sc, s.Operand)
		a.checkConstMutation(ctx, s.Pos(), s.Operand)
	}
}

func (a *Analyzer) analyzeAssignment(ctx *Context, sc *ast.Scope, s *ast.AssignmentStmt) {
	a.analyzeExpr(ctx, sc, s.Value)

	switch s.Kind {
	case ast.AssignDirect:
		a.analyzeExpr(ctx, sc, s.Target)
		a.checkConstMutation(ctx, s.Pos(), s.Target)
		a.checkMutable(sc, s.Pos(), s.Target)

	case ast.AssignArrayIndexed:
		a.analyzeExpr(ctx, sc, s.Target)
		a.analyzeExpr(ctx, sc, s.Index)
		if idx := s.Index.ResolvedType(); idx != nil && !isIntegerType(idx) {
			a.report(s.Pos(), ErrArrayIndexNotInteger, "array index must be an integer type, got %q", idx.String())
		}
		a.checkConstMutation(ctx, s.Pos(), s.Target)

	case ast.AssignDataField:
		a.analyzeExpr(ctx, sc, s.Target)
		a.checkImmutableField(ctx, s.Pos(), s.Target, s.Field)

	case ast.AssignGroupedDataField:
		a.analyzeExpr(ctx, sc, s.Target)
		for _, f := range s.Fields {
			a.checkImmutableField(ctx, s.Pos(), s.Target, f)
		}

	case ast.AssignGroup, ast.AssignStacked:
		for _, t := range s.Targets {
			a.analyzeExpr(ctx, sc, t)
			a.checkConstMutation(ctx, s.Pos(), t)
			a.checkMutable(sc, s.Pos(), t)
		}
	}
}

// checkMutable implements "Assignments target mutable variables"
// (spec.md §4.A) for a direct variable target. Array-element targets
// (AssignArrayIndexed) are not checked.
func (a *Analyzer) checkMutable(sc *ast.Scope, pos token.Pos, target ast.Expr) {
	v, ok := target.(*ast.VariableExpr)
	if !ok {
		return
	}
	variable := lookupVariable(sc, v.Name)
	if variable != nil && !variable.Mutable {
		a.report(pos, ErrAssignToImmutableData, "assignment to immutable variable %q", v.Name)
	}
}
