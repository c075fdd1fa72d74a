package ast

import (
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// DeclBase carries the file-hash + source position every DefinitionNode
// holds (spec.md §3: "every definition carries file-hash + source
// position").
type DeclBase struct {
	Base
	FileHash uint64
	DeclName string
}

func (d DeclBase) declNode()    {}
func (d DeclBase) Name() string { return d.DeclName }

// Param is one function/test parameter.
type Param struct {
	Name      string
	Type      *types.Type
	Reference bool
}

// FunctionDecl is a top-level or func-module-attached function
// definition, grounded on original_source's function_node.hpp.
type FunctionDecl struct {
	DeclBase
	IsAligned  bool
	IsConst    bool // const functions: body may touch no variable outside Parameters (spec.md §4.A)
	IsExtern   bool
	Parameters []Param
	ReturnTypes []*types.Type
	ErrorTypes  []*types.Type
	Body        *Scope
}

// AnnotationKind enumerates the test annotations original_source's
// test_node.hpp consumes selectively.
type AnnotationKind int

const (
	AnnotationNone AnnotationKind = iota
	AnnotationTestOutputAlways
	AnnotationTestPerformance
	AnnotationTestShouldFail
)

// Annotation is a `@name` marker attached to a definition.
type Annotation struct {
	Kind AnnotationKind
	Pos  token.Pos
}

// TestDecl is a `test "name" { ... }` definition.
type TestDecl struct {
	DeclBase
	TestID      uint64
	Annotations []Annotation
	Body        *Scope
}

// Field is one named, optionally defaulted member of a DataDecl.
type Field struct {
	Name        string
	Type        *types.Type
	Initializer Expr // nil if the field has no default
}

// DataDecl is a `data Name { ... }` record definition, grounded on
// original_source's data_node.hpp.
type DataDecl struct {
	DeclBase
	IsShared    bool
	IsImmutable bool
	IsAligned   bool
	Fields      []Field
}

// FuncModuleDecl is a named group of free functions attached to an
// entity (SPEC_FULL §10's supplemented "func module" feature), distinct
// from a bare FunctionDecl.
type FuncModuleDecl struct {
	DeclBase
	Functions []*FunctionDecl
}

// LinkDecl rebinds a function name to another inside an entity's
// `links:` block — an in-language shadowing construct, not the external
// linker (original_source's link_node.hpp; SPEC_FULL §10).
type LinkDecl struct {
	DeclBase
	From []string
	To   []string
}

// EntityDecl composes data modules, func modules, link declarations and
// parent entities (original_source's entity_node.hpp). IsMonolithic is
// always false: spec.md §9 open question (iii) resolves in favor of the
// modular-only path, so the parser never constructs a monolithic entity.
type EntityDecl struct {
	DeclBase
	DataModules      []*DataDecl
	FuncModules      []*FuncModuleDecl
	Links            []*LinkDecl
	ParentEntities   []string
	ConstructorOrder []string
	IsMonolithic     bool
}

// EnumDecl is a named value list; a value's index is its enum id
// (original_source's enum_node.hpp).
type EnumDecl struct {
	DeclBase
	Values []string
}

// ErrorDecl declares one named error-set member usable in a function's
// ErrorTypes.
type ErrorDecl struct {
	DeclBase
	Values []string
}

// VariantPossibility pairs an optional discriminator tag with its type,
// per original_source's variant_node.hpp.
type VariantPossibility struct {
	Tag  string // "" if untagged
	Type *types.Type
}

// VariantDecl is a tagged-union type definition.
type VariantDecl struct {
	DeclBase
	Possibilities []VariantPossibility
}

// ImportDecl is a file or core-module import, fully parsed during pass 1
// and feeding the dependency graph (spec.md §4.P/§4.R).
type ImportDecl struct {
	DeclBase
	Path      string // file path, or a core module name
	Alias     string // "" if not aliased
	IsCore    bool
	TargetHash uint64 // valid only when !IsCore, set once the Resolver hashes Path
}
