// Package types implements structural type interning (component T):
// one Registry per Namespace, keyed by canonical string form, handing
// out shared *Type references so that equal types compare pointer-equal
// within a namespace (spec.md §8 property 1).
package types

import (
	"fmt"
	"strings"
	"sync"
)

// Kind discriminates a Type's variant, the sum-type tag of spec.md §3's
// Type entity.
type Kind int

const (
	Primitive Kind = iota
	Array
	Optional
	Group
	RangeKind
	Data
	VariantKind
	Enum
	Function
	Pointer
)

// Type is Flint's structural type value. Only one field-set is
// meaningful per Kind; Registry.add/get key exclusively on the String()
// canonical form, matching spec.md §4.T's grammar.
type Type struct {
	Kind Kind

	// Primitive
	Name string

	// Array
	Element *Type
	Rank    int

	// Optional, Pointer
	Inner *Type

	// Group
	Elements []*Type

	// Range
	Bound *Type

	// Data, Variant, Enum: declared name (Name is reused)

	// Function
	Params      []*Type
	Returns     []*Type
	ErrorTypes  []*Type

	// Pointer
	ExternOnly bool
}

// String renders the canonical form used as the Registry's interning
// key, per spec.md §4.T: primitives use their spelling; arrays render as
// T[] repeated per rank; groups as (T1, T2, …); optionals as T?; ranges
// as range<T>; data/enum/variant by their declared name; functions as
// (P1, …) -> (R1, …) !(E1, …).
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Primitive, Data, VariantKind, Enum:
		return t.Name
	case Array:
		return t.Element.String() + strings.Repeat("[]", max(t.Rank, 1))
	case Optional:
		return t.Inner.String() + "?"
	case Group:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case RangeKind:
		return "range<" + t.Bound.String() + ">"
	case Pointer:
		return "ptr<" + t.Inner.String() + ">"
	case Function:
		params := joinTypes(t.Params)
		rets := joinTypes(t.Returns)
		s := fmt.Sprintf("(%s) -> (%s)", params, rets)
		if len(t.ErrorTypes) > 0 {
			s += " !(" + joinTypes(t.ErrorTypes) + ")"
		}
		return s
	}
	return "<invalid type>"
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Registry interns Types for one Namespace, guarded by an RWMutex: write
// locks are only needed while pass-1 still owns the Namespace, or when
// pass-2 interns a freshly built group/array type (spec.md §5).
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewRegistry returns an empty Registry pre-seeded with nothing; callers
// typically intern the primitive singletons via SeedRegistry immediately
// after construction.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Add inserts t by its canonical string key. It returns the shared
// canonical reference and true if this is the first such type seen,
// or the existing shared reference and false otherwise — callers must
// always use the returned reference, discarding the one they passed in
// when it reports false (spec.md §4.T: "add(type) → bool ... caller must
// use the existing one").
func (r *Registry) Add(t *Type) (*Type, bool) {
	key := t.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[key]; ok {
		return existing, false
	}
	r.types[key] = t
	return t, true
}

// Get looks up a previously interned type by its canonical string key.
func (r *Registry) Get(key string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[key]
	return t, ok
}

// Intern is a convenience combining String()+Add for the common case of
// wanting the shared reference for t regardless of whether it already
// existed.
func (r *Registry) Intern(t *Type) *Type {
	shared, _ := r.Add(t)
	return shared
}
