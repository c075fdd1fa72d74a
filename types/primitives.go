package types

import "sync"

var (
	primOnce sync.Once
	prims    map[string]*Type
)

// primitiveNames is the fixed set of process-wide pre-interned primitive
// types spec.md §4.T names: i8..i64, u8..u64, f32, f64, bool, str, void,
// plus the SIMD vector families enumerated in original_source's
// primitive_casting_table / primitive_implicit_casting_table.
var primitiveNames = []string{
	"i8", "i16", "i32", "i64",
	"u8", "u16", "u32", "u64",
	"f32", "f64",
	"bool", "bool8", "str", "void",
	"i32x2", "i32x3", "i32x4", "i32x8",
	"i64x2", "i64x3", "i64x4",
	"f32x2", "f32x3", "f32x4", "f32x8",
	"f64x2", "f64x3", "f64x4",
}

func initPrimitives() {
	prims = make(map[string]*Type, len(primitiveNames))
	for _, n := range primitiveNames {
		prims[n] = &Type{Kind: Primitive, Name: n}
	}
}

// Primitive_ returns the process-wide shared instance for a primitive type
// name, or nil if name is not a known primitive.
func Primitive_(name string) *Type {
	primOnce.Do(initPrimitives)
	return prims[name]
}

// Void, Bool, Str and friends are convenience accessors for the most
// frequently referenced primitive singletons, mirroring spec.md §4.T's
// "primitive accessors returning process-wide pre-interned primitive
// types".
func Void() *Type { return Primitive_("void") }
func Bool() *Type { return Primitive_("bool") }
func Str() *Type  { return Primitive_("str") }
func I32() *Type  { return Primitive_("i32") }
func I64() *Type  { return Primitive_("i64") }
func U32() *Type  { return Primitive_("u32") }
func U64() *Type  { return Primitive_("u64") }
func F32() *Type  { return Primitive_("f32") }
func F64() *Type  { return Primitive_("f64") }
func U8() *Type   { return Primitive_("u8") }

// SeedRegistry interns every primitive singleton into r, so namespace
// construction never has to special-case primitives when resolving a
// type annotation by name.
func SeedRegistry(r *Registry) {
	primOnce.Do(initPrimitives)
	for _, p := range prims {
		r.Intern(p)
	}
}
