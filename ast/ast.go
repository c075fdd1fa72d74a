// Package ast defines Flint's abstract syntax tree as a tagged union:
// every node category (Expr, Stmt, Decl) is a marker interface
// implemented by a fixed set of concrete node structs, the Go
// replacement for the original C++ compiler's inheritance + dynamic_cast
// hierarchy (spec.md §9), modeled on cuelang.org/go/cue/ast's
// exprNode()/declNode() marker-method pattern.
package ast

import (
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// Node is the common interface for every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Expr is implemented by every ExpressionNode variant of spec.md §3.
// ResolvedType exposes the operand/result type every ExprBase carries,
// letting the Parser and Analyzer compare expression types without a
// type switch over every concrete Expr kind.
type Expr interface {
	Node
	exprNode()
	ResolvedType() *types.Type
}

// Stmt is implemented by every StatementNode variant of spec.md §3.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every DefinitionNode variant of spec.md §3.
type Decl interface {
	Node
	declNode()
	Name() string
}

// Base embeds common position bookkeeping into every concrete node.
type Base struct {
	From, To token.Pos
}

func (b Base) Pos() token.Pos { return b.From }
func (b Base) End() token.Pos { return b.To }

// File is the root node for one compilation unit: the ordered sequence
// of top-level DefinitionNodes plus its Namespace identity.
type File struct {
	Base
	Name        string // absolute path, as given to the Driver
	Hash        uint64 // fhash.Hash, stored as uint64 to avoid an import cycle
	Imports     []*ImportDecl
	Definitions []Decl
}

func (f *File) declNode() {}

// DefinitionsOf returns the subset of f.Definitions of the given Variation.
func (f *File) DefinitionsOf(v Variation) []Decl {
	var out []Decl
	for _, d := range f.Definitions {
		if VariationOf(d) == v {
			out = append(out, d)
		}
	}
	return out
}

// Variation is the discriminator tag of a DefinitionNode, mirroring
// original_source's definition_node.hpp Variation enum exactly (order and
// membership), so DESIGN.md's grounding claim is checkable by inspection.
type Variation int

const (
	VarData Variation = iota
	VarEntity
	VarEnum
	VarError
	VarFuncModule
	VarFunction
	VarImport
	VarLink
	VarTest
	VarVariant
)

// VariationOf returns d's Variation tag by a type switch — the Go
// replacement for the original's virtual get_variation().
func VariationOf(d Decl) Variation {
	switch d.(type) {
	case *DataDecl:
		return VarData
	case *EntityDecl:
		return VarEntity
	case *EnumDecl:
		return VarEnum
	case *ErrorDecl:
		return VarError
	case *FuncModuleDecl:
		return VarFuncModule
	case *FunctionDecl:
		return VarFunction
	case *ImportDecl:
		return VarImport
	case *LinkDecl:
		return VarLink
	case *TestDecl:
		return VarTest
	case *VariantDecl:
		return VarVariant
	}
	panic("ast: unknown Decl concrete type")
}
