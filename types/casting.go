package types

// ExplicitCasts is the `primitive_casting_table` of
// original_source/include/lexer/builtins.hpp, reproduced verbatim: for
// each primitive, the set of primitives it may be explicitly cast to via
// a TypeCastExpr.
var ExplicitCasts = map[string][]string{
	"__flint_type_str_lit": {"str"},
	"i32":   {"str", "u8", "i64", "f32", "f64", "u32", "u64"},
	"i64":   {"str", "u8", "i32", "f32", "f64", "u32", "u64"},
	"u32":   {"str", "u8", "i32", "i64", "f32", "f64", "u64"},
	"u64":   {"str", "u8", "i32", "i64", "f32", "f64", "u32"},
	"f32":   {"str", "i32", "i64", "f64", "u32", "u64"},
	"f64":   {"str", "i32", "i64", "f32", "u32", "u64"},
	"u8":    {"bool8", "str", "i32", "i64", "u32", "u64"},
	"bool":  {"str"},
	"bool8": {"str", "u8"},
}

// ImplicitCasts is the `primitive_implicit_casting_table` of
// original_source/include/lexer/builtins.hpp, reproduced verbatim,
// including the SIMD vector decompositions (e.g. i32x4 <-> (i32,i32,i32,i32))
// and tuple-to-vector promotions.
var ImplicitCasts = map[string][]string{
	"__flint_type_str_lit": {"str"},
	"i32": {"str", "u32", "u64", "i64", "f32", "f64", "i32x2", "i32x3", "i32x4", "i32x8"},
	"i64": {"str", "i64x2", "i64x3", "i64x4"},
	"u32": {"str", "i32", "i64", "u64", "f32", "f64"},
	"u64": {"str"},
	"f32": {"str", "f64", "f32x2", "f32x3", "f32x4", "f32x8"},
	"f64": {"str", "f64x2", "f64x3", "f64x4"},
	"bool": {"str"},
	"u8":   {"bool8", "str", "i32", "u32", "i64", "u64"},
	"bool8": {"u8", "str"},

	"(i32, i32)":                                     {"i32x2"},
	"(i32, i32, i32)":                                 {"i32x3"},
	"(i32, i32, i32, i32)":                             {"i32x4"},
	"(i32, i32, i32, i32, i32, i32, i32, i32)":         {"i32x8"},
	"i32x2": {"(i32, i32)", "str"},
	"i32x3": {"(i32, i32, i32)", "str"},
	"i32x4": {"(i32, i32, i32, i32)", "str"},
	"i32x8": {"(i32, i32, i32, i32, i32, i32, i32, i32)", "str"},

	"(i64, i64)":           {"i64x2"},
	"(i64, i64, i64)":       {"i64x3"},
	"(i64, i64, i64, i64)":   {"i64x4"},
	"i64x2": {"(i64, i64)", "str"},
	"i64x3": {"(i64, i64, i64)", "str"},
	"i64x4": {"(i64, i64, i64, i64)", "str"},

	"(f32, f32)":                                     {"f32x2"},
	"(f32, f32, f32)":                                 {"f32x3"},
	"(f32, f32, f32, f32)":                             {"f32x4"},
	"(f32, f32, f32, f32, f32, f32, f32, f32)":         {"f32x8"},
	"f32x2": {"(f32, f32)", "str"},
	"f32x3": {"(f32, f32, f32)", "str"},
	"f32x4": {"(f32, f32, f32, f32)", "str"},
	"f32x8": {"(f32, f32, f32, f32, f32, f32, f32, f32)", "str"},

	"(f64, f64)":           {"f64x2"},
	"(f64, f64, f64)":       {"f64x3"},
	"(f64, f64, f64, f64)":   {"f64x4"},
	"f64x2": {"(f64, f64)", "str"},
	"f64x3": {"(f64, f64, f64)", "str"},
	"f64x4": {"(f64, f64, f64, f64)", "str"},
}

// CanExplicitlyCast reports whether from may be explicitly cast to to.
func CanExplicitlyCast(from, to string) bool { return contains(ExplicitCasts[from], to) }

// CanImplicitlyCast reports whether from may be implicitly cast to to.
func CanImplicitlyCast(from, to string) bool { return contains(ImplicitCasts[from], to) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
