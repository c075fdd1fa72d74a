package ast

import (
	"github.com/flint-lang/flintc/token"
	"github.com/flint-lang/flintc/types"
)

// Variable is one entry of a Scope's symbol table, mirroring
// original_source's scope.hpp Scope::Variable struct field-for-field.
type Variable struct {
	Type            *types.Type
	ScopeID         uint64
	ScopeSegment    int
	Mutable         bool
	IsParameter     bool
	IsReference     bool
	IsPseudo        bool // a compiler-synthesized binding, e.g. a switch payload
	ReturnScopeIDs  []uint64
}

// Scope holds an ordered statement list, its variable table, and a
// back-reference to its parent, per spec.md §3. ScopeID is assigned once
// from registry.IDs.NextScopeID and never reused within a compile run.
type Scope struct {
	Base
	ScopeID        uint64
	ParentScope    *Scope
	ParentSegment  int // the parent's segment counter at the point of nesting
	segment        int
	Statements     []Stmt
	Variables      map[string]*Variable
}

// NewScope allocates an empty Scope bound to id, optionally nested under
// parent at the parent's current segment.
func NewScope(id uint64, parent *Scope) *Scope {
	s := &Scope{ScopeID: id, ParentScope: parent, Variables: make(map[string]*Variable)}
	if parent != nil {
		s.ParentSegment = parent.segment
	}
	return s
}

// NextSegment returns and then advances the scope's segment counter; used
// to order variable declarations relative to nested sub-scopes.
func (s *Scope) NextSegment() int {
	v := s.segment
	s.segment++
	return v
}

// AddVariable inserts name if it is not already visible in this scope or
// any transitive parent's pre-nesting declarations (spec.md §3
// invariant), matching original_source's Scope::add_variable bool
// return — shadowing across nested scopes is the only legal duplication.
func (s *Scope) AddVariable(name string, v *Variable) bool {
	if _, exists := s.Variables[name]; exists {
		return false
	}
	if s.visibleFromParent(name) {
		return false
	}
	s.Variables[name] = v
	return true
}

func (s *Scope) visibleFromParent(name string) bool {
	p := s.ParentScope
	for p != nil {
		if v, ok := p.Variables[name]; ok {
			// Only declarations that existed before this scope nested are
			// visible, i.e. those with a segment <= ParentSegment at the
			// point this child was created.
			if v.ScopeSegment <= s.ParentSegment {
				return true
			}
		}
		p = p.ParentScope
	}
	return false
}

// GetVariableType looks up name's type across this scope and its
// transitive parents.
func (s *Scope) GetVariableType(name string) (*types.Type, bool) {
	for sc := s; sc != nil; sc = sc.ParentScope {
		if v, ok := sc.Variables[name]; ok {
			return v.Type, true
		}
	}
	return nil, false
}

// UniqueVariables returns the variables declared at or before segment,
// the set "live" at a given point in the scope (GLOSSARY: scope segment).
func (s *Scope) UniqueVariables(segment int) []*Variable {
	var out []*Variable
	for _, v := range s.Variables {
		if v.ScopeSegment <= segment {
			out = append(out, v)
		}
	}
	return out
}

// CloneVariables returns a shallow copy of the scope's variable table,
// used when a branch (e.g. an else-if arm) needs an independent table
// seeded from the same declarations.
func (s *Scope) CloneVariables() map[string]*Variable {
	out := make(map[string]*Variable, len(s.Variables))
	for k, v := range s.Variables {
		cp := *v
		out[k] = &cp
	}
	return out
}

// SetPos records the scope's source span; exposed separately from
// NewScope because a Scope's End position is only known once its body
// has been fully parsed.
func (s *Scope) SetPos(from, to token.Pos) {
	s.From, s.To = from, to
}
