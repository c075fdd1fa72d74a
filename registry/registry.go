// Package registry implements component G: the explicit "process
// registries" object spec.md §9 asks for in place of ad-hoc mutex+static
// globals — one Registries value threaded into every Parser instance,
// so tests can build a fresh set with no hidden global state.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/fhash"
)

// IDs holds the four process-wide monotonic counters spec.md §3 names:
// scope-id, call-id, group-id, test-id. Each is thread-safe and never
// recycles within a compile run.
type IDs struct {
	scopeID atomic.Uint64
	callID  atomic.Uint64
	groupID atomic.Uint64
	testID  atomic.Uint64
}

func (ids *IDs) NextScopeID() uint64 { return ids.scopeID.Add(1) - 1 }
func (ids *IDs) NextCallID() uint64  { return ids.callID.Add(1) - 1 }
func (ids *IDs) NextGroupID() uint64 { return ids.groupID.Add(1) - 1 }
func (ids *IDs) NextTestID() uint64  { return ids.testID.Add(1) - 1 }

// CallArena stores call nodes in a process-wide, append-only slice; the
// call-id assigned at construction **is** the slice index, per spec.md
// §9's "arena + index" redesign note — this is the replacement for the
// original's raw `CallNodeBase*` pointers kept in a global ordered map:
// since indices are already ordered, the ordered-map requirement (spec.md
// §8 property 3) falls out of append order for free.
type CallArena struct {
	mu    sync.Mutex
	calls []*ast.CallExpr
}

// Append records call, sets call.CallID to its arena index, and returns
// that index.
func (a *CallArena) Append(call *ast.CallExpr) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := uint64(len(a.calls))
	call.CallID = idx
	a.calls = append(a.calls, call)
	return idx
}

// At returns the call recorded at id, or nil if id is out of range.
func (a *CallArena) At(id uint64) *ast.CallExpr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id >= uint64(len(a.calls)) {
		return nil
	}
	return a.calls[id]
}

// Latest returns the highest call-id recorded so far and true, or
// (0, false) if the arena is empty — used by CatchStmt parsing, which
// refers to "the most recently parsed call" (spec.md §8 property 3).
func (a *CallArena) Latest() (uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.calls) == 0 {
		return 0, false
	}
	return uint64(len(a.calls) - 1), true
}

// Len reports how many calls have been recorded.
func (a *CallArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// FunctionEntry pairs a FunctionDecl with the file it was parsed from,
// spec.md §4.G's "parsed-functions: list of (FunctionNode*, file name)".
type FunctionEntry struct {
	Function *ast.FunctionDecl
	File     string
}

// TestEntry is the test-list analogue of FunctionEntry.
type TestEntry struct {
	Test *ast.TestDecl
	File string
}

// Registries is the single value threaded explicitly into every Parser
// instance (spec.md §9 "process registries" note), replacing every
// static/mutex global the original compiler used.
type Registries struct {
	IDs IDs

	Calls CallArena

	mu         sync.Mutex
	functions  []FunctionEntry
	tests      []TestEntry
	dataByFile map[string][]*ast.DataDecl

	testNamesMu sync.Mutex
	testNames   map[string]map[string]bool // file -> set of test names

	generatedMu sync.Mutex
	generated   map[fhash.Hash]bool

	Files *fhash.Table
}

// New returns an empty Registries value, ready to be shared across every
// Parser of one compile run.
func New() *Registries {
	return &Registries{
		dataByFile: make(map[string][]*ast.DataDecl),
		testNames:  make(map[string]map[string]bool),
		generated:  make(map[fhash.Hash]bool),
		Files:      fhash.NewTable(),
	}
}

// AddFunction records a parsed function definition.
func (r *Registries) AddFunction(fn *ast.FunctionDecl, file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions = append(r.functions, FunctionEntry{Function: fn, File: file})
}

// Functions returns a snapshot of every recorded function, in parse
// order — read to resolve calls by (name, argument-type list), per
// spec.md §4.P.
func (r *Registries) Functions() []FunctionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FunctionEntry, len(r.functions))
	copy(out, r.functions)
	return out
}

// AddTest records a parsed test definition.
func (r *Registries) AddTest(t *ast.TestDecl, file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests = append(r.tests, TestEntry{Test: t, File: file})
}

// Tests returns a snapshot of every recorded test, in parse order.
func (r *Registries) Tests() []TestEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestEntry, len(r.tests))
	copy(out, r.tests)
	return out
}

// AddData records file's data definitions.
func (r *Registries) AddData(file string, d *ast.DataDecl) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dataByFile[file] = append(r.dataByFile[file], d)
}

// DataFor returns the data definitions recorded for file.
func (r *Registries) DataFor(file string) []*ast.DataDecl {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ast.DataDecl(nil), r.dataByFile[file]...)
}

// AllData returns every data definition recorded across every file,
// read by the Analyzer to map a Data-kind type's name back to the
// declaration that carries its immutability flag (spec.md §4.A
// "immutable-data fields are written only in a constructor context").
func (r *Registries) AllData() []*ast.DataDecl {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ast.DataDecl
	for _, ds := range r.dataByFile {
		out = append(out, ds...)
	}
	return out
}

// FindData returns the data definition named name, or nil if none has
// been recorded yet. Read by the Parser (parser/expr.go) to tell a
// `D(5)`-style record construction apart from a call to a same-named
// function at the point a call expression's callee identifier is
// resolved.
func (r *Registries) FindData(name string) *ast.DataDecl {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ds := range r.dataByFile {
		for _, d := range ds {
			if d.Name() == name {
				return d
			}
		}
	}
	return nil
}

// CheckTestName records name as used within file and reports whether
// this is the first use (spec.md §8 property 7), mirroring
// original_source's TestNode::check_test_name mutex-guarded map.
func (r *Registries) CheckTestName(file, name string) bool {
	r.testNamesMu.Lock()
	defer r.testNamesMu.Unlock()
	set, ok := r.testNames[file]
	if !ok {
		set = make(map[string]bool)
		r.testNames[file] = set
	}
	if set[name] {
		return false
	}
	set[name] = true
	return true
}

// MarkGenerated records that h's file has completed pass-1 generation
// (spec.md §4.G's "generated-files" set).
func (r *Registries) MarkGenerated(h fhash.Hash) {
	r.generatedMu.Lock()
	defer r.generatedMu.Unlock()
	r.generated[h] = true
}

// GeneratedFilesContain reports whether h has completed pass-1.
func (r *Registries) GeneratedFilesContain(h fhash.Hash) bool {
	r.generatedMu.Lock()
	defer r.generatedMu.Unlock()
	return r.generated[h]
}

// Clear tears down every registry, implementing spec.md §4.G's ordering
// requirement that registries be cleared before AST owners are destroyed
// — useful when re-running the driver in-process (tests building a fresh
// Registries per t.Run typically just discard the old value instead, but
// long-lived hosts such as an LSP-adjacent process call Clear explicitly).
// The ID counters (r.IDs) and the file-id table (r.Files) are not reset.
func (r *Registries) Clear() {
	r.Calls.mu.Lock()
	r.Calls.calls = nil
	r.Calls.mu.Unlock()

	r.mu.Lock()
	r.functions = nil
	r.tests = nil
	r.dataByFile = make(map[string][]*ast.DataDecl)
	r.mu.Unlock()

	r.testNamesMu.Lock()
	r.testNames = make(map[string]map[string]bool)
	r.testNamesMu.Unlock()

	r.generatedMu.Lock()
	r.generated = make(map[fhash.Hash]bool)
	r.generatedMu.Unlock()
}
