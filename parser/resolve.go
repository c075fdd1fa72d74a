package parser

import (
	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/registry"
)

// resolveCall implements spec.md §9 open question (ii): overload
// resolution compares argument types by interned *types.Type pointer
// identity rather than structural equality, following from types'
// Registry.Add guarantee that equal types share one instance (spec.md
// §8 property 1). A call is resolved during pass 2, once every file's
// pass 1 has made every function signature visible; resolveCall is also
// invoked eagerly at parse time for expressions nested inside an
// already-parsed body (e.g. a call argument that is itself a call), so
// it tolerates Function staying nil when the callee hasn't been
// registered yet. Nothing retries the lookup; the Analyzer reports a call
// whose Function is still nil (ErrUnresolvedCall).
func (p *Parser) resolveCall(call *ast.CallExpr) {
	candidates := matchingOverloads(p.regs, call)
	switch len(candidates) {
	case 0:
		// Not necessarily an error yet: pass 1 may not have registered
		// every function in every file at the point this expression is
		// parsed. Leave Function nil; analyzer.ErrUnresolvedCall reports
		// it if it is still unresolved once every file is parsed.
	case 1:
		call.Function = candidates[0].Function
		call.ErrorTypes = candidates[0].Function.ErrorTypes
	default:
		p.errorf(call.From, "ambiguous call to %q: %d overloads match the given argument types", call.FunctionName, len(candidates))
	}
}

func matchingOverloads(regs *registry.Registries, call *ast.CallExpr) []registry.FunctionEntry {
	var out []registry.FunctionEntry
	for _, fe := range regs.Functions() {
		fn := fe.Function
		if fn.Name() != call.FunctionName {
			continue
		}
		if len(fn.Parameters) != len(call.Arguments) {
			continue
		}
		match := true
		for i, param := range fn.Parameters {
			argType := call.Arguments[i].Value.ResolvedType()
			if argType == nil || param.Type == nil {
				continue // unresolved operand type; let the Analyzer judge it later
			}
			if argType != param.Type {
				match = false
				break
			}
		}
		if match {
			out = append(out, fe)
		}
	}
	return out
}
