package ast

import (
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// ExprBase carries the position and resolved-type fields every
// ExpressionNode variant of spec.md §3 holds.
type ExprBase struct {
	Base
	Type *types.Type
}

func (ExprBase) exprNode() {}

// ResolvedType returns the expression's operand/result type, satisfying
// the Expr interface for every concrete node that embeds ExprBase.
func (e ExprBase) ResolvedType() *types.Type { return e.Type }

// LiteralExpr is a literal of any primitive kind (int, float, string,
// bool, char); Value holds the already-decoded Go value.
type LiteralExpr struct {
	ExprBase
	Value interface{}
	Raw   string
}

// VariableExpr references a name resolved against the enclosing Scope
// chain, then the file Namespace, then imported Namespaces (spec.md
// §4.P pass 2).
type VariableExpr struct {
	ExprBase
	Name string
}

// UnaryOpExpr is a prefix operator applied to one operand.
type UnaryOpExpr struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// BinaryOpExpr is an infix operator applied to two operands, produced by
// Pratt precedence-climbing. When both operands are literals of the same
// primitive type, the parser folds `+ - * / %` (and `+` on str) into one
// LiteralExpr instead (parser/expr.go tryFold); every other operator,
// `**` included, and a fold that returns an error still yield a
// BinaryOpExpr.
type BinaryOpExpr struct {
	ExprBase
	Op          token.Token
	Left, Right Expr
}

// CallExpr invokes a free function resolved by (name, argument-type
// tuple) identity, grounded on original_source's call_node.hpp /
// call_node_base.hpp. CallID is the index into the process-wide call
// arena (spec.md §9's arena+index redesign).
type CallExpr struct {
	ExprBase
	FunctionName string
	Function     *FunctionDecl // resolved during pass 2; nil until then
	Arguments    []Argument
	ErrorTypes   []*types.Type
	ScopeID      uint64
	HasCatch     bool
	CallID       uint64
}

// Argument pairs an expression with whether it is passed by reference.
type Argument struct {
	Value Expr
	ByRef bool
}

// InstanceCallExpr invokes a func-module member on an entity instance.
type InstanceCallExpr struct {
	ExprBase
	Receiver Expr
	Call     *CallExpr
}

// InitializerExpr constructs a data/entity value field-by-field from
// positional arguments, e.g. `D(5)`. Named-field forms are not parsed.
type InitializerExpr struct {
	ExprBase
	TypeName string
	Fields   []Expr // positional, in argument order
}

// ArrayInitializerExpr allocates an array, e.g. `[i32; n]` or `[1, 2, 3]`.
type ArrayInitializerExpr struct {
	ExprBase
	Dimensions []Expr // must be integer-typed (spec.md §4.A)
	Elements   []Expr
}

// ArrayAccessExpr indexes into an array; Index must be integer-typed.
type ArrayAccessExpr struct {
	ExprBase
	Array Expr
	Index Expr
}

// DataAccessExpr reads a named field off a data/entity value. The parser
// sets FieldID to -1, and no later phase resolves it to the field's
// declaration order.
type DataAccessExpr struct {
	ExprBase
	Base     Expr
	Field    string
	FieldID  int
}

// GroupedDataAccessExpr reads multiple fields at once, e.g. `d.(x, y)`,
// producing a group-typed result.
type GroupedDataAccessExpr struct {
	ExprBase
	Base   Expr
	Fields []string
}

// GroupExpr is an ordered, fixed-arity tuple expression, e.g. `(a, b)`.
// GroupID is a process-wide unique id assigned at construction (spec.md
// §3's four monotonic counters; original_source's GroupExpressionNode
// assigns its own group_id the same way).
type GroupExpr struct {
	ExprBase
	Elements []Expr
	GroupID  uint64
}

// RangeExpr is `a..b`, parsed by a dedicated production per spec.md §4.P.
type RangeExpr struct {
	ExprBase
	Low, High Expr
}

// StringInterpolationExpr alternates literal STR_PART segments with
// embedded expressions, matching the scanner's STR_PART/INTERP_EXPR
// token split.
type StringInterpolationExpr struct {
	ExprBase
	Parts []string
	Exprs []Expr
}

// SwitchMatchExpr is one pattern in a SwitchExpr branch: either a literal
// value, an enum/variant tag, or DefaultExpr.
type SwitchMatchExpr struct {
	ExprBase
	Pattern Expr
	Bind    string // payload binding name for a variant case; "" otherwise
}

// DefaultExpr is the `default` wildcard match arm.
type DefaultExpr struct{ ExprBase }

// SwitchBranch is one `(matches) -> result` arm of a SwitchExpr.
type SwitchBranch struct {
	Matches []*SwitchMatchExpr
	Result  Expr
}

// SwitchExpr is a ternary-like expression whose type is inferred from
// its first branch's result (original_source's switch_expression.hpp).
type SwitchExpr struct {
	ExprBase
	Subject  Expr
	Branches []SwitchBranch
}

// TypeCastExpr explicitly casts Operand to Type via the primitive casting
// tables of types/casting.go.
type TypeCastExpr struct {
	ExprBase
	Operand Expr
}

// TypeExpr denotes a type used in expression position (e.g. as a call
// argument to a generic-like builtin); rare, kept for completeness of
// the ~23-kind expression grammar.
type TypeExpr struct {
	ExprBase
	Denoted *types.Type
}

// OptionalChainOp is either field access or array access within an
// optional chain, per original_source's optional_chain_node.hpp
// ChainOperation variant.
type OptionalChainOp struct {
	Field string // set for field access
	Index Expr   // set for array access
}

// OptionalChainExpr is `a?.b?.c`: short-circuits to an empty optional on
// any nil link in the chain.
type OptionalChainExpr struct {
	ExprBase
	BaseExpr      Expr
	IsToplevel    bool
	Operations    []OptionalChainOp
}

// OptionalUnwrapExpr is `a?!`: asserts the optional is non-empty,
// panicking (at the generated-code layer) otherwise.
type OptionalUnwrapExpr struct {
	ExprBase
	Operand Expr
}

// VariantExtractionExpr is `a as T`: narrows a variant to one of its
// possible types, producing an OptionalType(T) result (original_source's
// variant_extraction_node.hpp).
type VariantExtractionExpr struct {
	ExprBase
	BaseExpr     Expr
	ExtractedType *types.Type
}

// VariantUnwrapExpr unwraps a prior VariantExtractionExpr's optional
// result, asserting it is non-empty.
type VariantUnwrapExpr struct {
	ExprBase
	Operand Expr
}
