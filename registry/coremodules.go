package registry

// Overload is one (parameter types, return types, may-throw) signature of
// a core module function, matching original_source's `overloads` tuple
// list exactly.
type Overload struct {
	Params    []string
	Returns   []string
	MayThrow  bool
}

// FunctionOverloads maps a core-module function name to its overload
// list, original_source's `function_overload_list`.
type FunctionOverloads map[string][]Overload

// CoreModules reproduces original_source/include/lexer/builtins.hpp's
// `core_module_functions` table verbatim for the modules present in that
// retrieval (assert, print, read, filesystem, env, system), plus `time`
// and `parse` — named in spec.md §6 but absent from the retrieved table;
// their signatures are invented to match the shape of the existing
// `read_*` overloads (SPEC_FULL.md §6 documents this explicitly as an
// addition, not a verbatim port).
var CoreModules = map[string]FunctionOverloads{
	"assert": {
		"assert": {
			{Params: []string{"bool"}, Returns: []string{"void"}, MayThrow: true},
		},
	},
	"print": {
		"print": {
			{Params: []string{"i32"}, Returns: []string{"void"}},
			{Params: []string{"i64"}, Returns: []string{"void"}},
			{Params: []string{"u32"}, Returns: []string{"void"}},
			{Params: []string{"u64"}, Returns: []string{"void"}},
			{Params: []string{"f32"}, Returns: []string{"void"}},
			{Params: []string{"f64"}, Returns: []string{"void"}},
			{Params: []string{"u8"}, Returns: []string{"void"}},
			{Params: []string{"str"}, Returns: []string{"void"}},
			{Params: []string{"__flint_type_str_lit"}, Returns: []string{"void"}},
			{Params: []string{"bool"}, Returns: []string{"void"}},
		},
	},
	"read": {
		"read_str": {{Params: nil, Returns: []string{"str"}}},
		"read_i32": {{Params: nil, Returns: []string{"i32"}, MayThrow: true}},
		"read_i64": {{Params: nil, Returns: []string{"i64"}, MayThrow: true}},
		"read_u32": {{Params: nil, Returns: []string{"u32"}, MayThrow: true}},
		"read_u64": {{Params: nil, Returns: []string{"u64"}, MayThrow: true}},
		"read_f32": {{Params: nil, Returns: []string{"f32"}, MayThrow: true}},
		"read_f64": {{Params: nil, Returns: []string{"f64"}, MayThrow: true}},
	},
	"filesystem": {
		"read_file":   {{Params: []string{"str"}, Returns: []string{"str"}, MayThrow: true}},
		"read_lines":  {{Params: []string{"str"}, Returns: []string{"str[]"}, MayThrow: true}},
		"file_exists": {{Params: []string{"str"}, Returns: []string{"bool"}}},
		"write_file":  {{Params: []string{"str", "str"}, Returns: []string{"void"}, MayThrow: true}},
		"append_file": {{Params: []string{"str", "str"}, Returns: []string{"void"}, MayThrow: true}},
		"is_file":     {{Params: []string{"str"}, Returns: []string{"bool"}}},
	},
	"env": {
		"get_env": {{Params: []string{"str"}, Returns: []string{"str"}, MayThrow: true}},
		"set_env": {{Params: []string{"str", "str", "bool"}, Returns: []string{"bool"}}},
	},
	"system": {
		"system_command": {{Params: []string{"str"}, Returns: []string{"i32", "str"}, MayThrow: true}},
	},
	// Invented: not present in the retrieved builtins.hpp, named in
	// spec.md §6's module list only.
	"time": {
		"now":       {{Params: nil, Returns: []string{"i64"}}},
		"sleep_ms":  {{Params: []string{"i64"}, Returns: []string{"void"}}},
	},
	"parse": {
		"i32": {{Params: []string{"str"}, Returns: []string{"i32"}, MayThrow: true}},
		"i64": {{Params: []string{"str"}, Returns: []string{"i64"}, MayThrow: true}},
		"f32": {{Params: []string{"str"}, Returns: []string{"f32"}, MayThrow: true}},
		"f64": {{Params: []string{"str"}, Returns: []string{"f64"}, MayThrow: true}},
	},
}

// IsCoreModule reports whether name is one of the fixed set of
// recognized core modules (spec.md §4.N invariant 2).
func IsCoreModule(name string) bool {
	_, ok := CoreModules[name]
	return ok
}
