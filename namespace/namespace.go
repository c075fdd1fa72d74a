// Package namespace implements component N: a per-file symbol table
// pairing a Type Registry with the file's public definitions and its
// imported core modules, plus the process-wide map consumers read from
// (spec.md §6: "a process-wide namespace_map: Hash → Namespace*").
package namespace

import (
	"fmt"
	"sync"

	"github.com/flint-lang/flintc/ast"
	"github.com/flint-lang/flintc/fhash"
	"github.com/flint-lang/flintc/types"
)

// Namespace is the per-file container of spec.md §4.N.
type Namespace struct {
	Hash fhash.Hash

	mu sync.RWMutex

	Types *types.Registry

	// definitions maps a top-level name to its AST node; invariant (1):
	// every top-level name has exactly one entry.
	definitions map[string]ast.Decl

	// coreModules maps an imported core module name to its ImportDecl;
	// invariant (2): every name here is one of the fixed set (registry
	// package's CoreModules).
	coreModules map[string]*ast.ImportDecl
}

// New returns an empty Namespace for the file identified by h, its Type
// Registry pre-seeded with every primitive singleton.
func New(h fhash.Hash) *Namespace {
	ns := &Namespace{
		Hash:        h,
		Types:       types.NewRegistry(),
		definitions: make(map[string]ast.Decl),
		coreModules: make(map[string]*ast.ImportDecl),
	}
	types.SeedRegistry(ns.Types)
	return ns
}

// AddDefinition inserts d under name, enforcing invariant (1): it returns
// an error, never silently overwrites, if name is already taken.
func (ns *Namespace) AddDefinition(name string, d ast.Decl) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, exists := ns.definitions[name]; exists {
		return fmt.Errorf("namespace: duplicate definition %q", name)
	}
	ns.definitions[name] = d
	return nil
}

// Definition looks up a public definition by name.
func (ns *Namespace) Definition(name string) (ast.Decl, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	d, ok := ns.definitions[name]
	return d, ok
}

// Definitions returns a snapshot slice of every registered definition.
func (ns *Namespace) Definitions() []ast.Decl {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]ast.Decl, 0, len(ns.definitions))
	for _, d := range ns.definitions {
		out = append(out, d)
	}
	return out
}

// Len reports how many definitions this namespace carries (spec.md §8 E1:
// "public_symbols.definitions.len == 1").
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.definitions)
}

// AddCoreModule registers an imported core module, enforcing invariant
// (2) via the validate callback (the registry package's known-module
// set); namespace does not itself import registry to avoid a cycle.
func (ns *Namespace) AddCoreModule(name string, imp *ast.ImportDecl, known func(string) bool) error {
	if !known(name) {
		return fmt.Errorf("namespace: unknown core module %q", name)
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.coreModules[name] = imp
	return nil
}

// CoreModule looks up an imported core module by name.
func (ns *Namespace) CoreModule(name string) (*ast.ImportDecl, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	imp, ok := ns.coreModules[name]
	return imp, ok
}

// Map is the process-wide namespace_map of spec.md §6: Hash → *Namespace,
// populated by pass-1 and read-only from pass-2 onward.
type Map struct {
	mu sync.RWMutex
	m  map[fhash.Hash]*Namespace
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{m: make(map[fhash.Hash]*Namespace)} }

// Store registers ns under its own Hash. Safe to call concurrently from
// distinct pass-1 Parsers, one per file.
func (m *Map) Store(ns *Namespace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[ns.Hash] = ns
}

// Get looks up the Namespace for a file hash.
func (m *Map) Get(h fhash.Hash) (*Namespace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.m[h]
	return ns, ok
}

// Len reports how many namespaces are registered.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}

// All returns a snapshot slice of every registered Namespace, read by
// consumers (e.g. the Analyzer) that need to resolve a type name back to
// its declaration across every file (spec.md §4.A enum/variant rules).
func (m *Map) All() []*Namespace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Namespace, 0, len(m.m))
	for _, ns := range m.m {
		out = append(out, ns)
	}
	return out
}
