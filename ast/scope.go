package ast

// ScopeKind distinguishes the lexical contexts that create a new Scope.
// Block scopes only capture let/const/class bindings; function scopes
// additionally capture var and the function's own parameters.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

// Scope is a lexical scope populated by the resolver. It is not produced
// by the parser: a freshly parsed tree has nil Scope fields throughout,
// and every *Identifier's DeclNode/References/Scope are filled in by a
// single resolver pass over the whole Program.
type Scope struct {
	Kind   ScopeKind
	Parent *Scope

	// Declared maps a binding name to the Identifier that declares it in
	// this scope.
	Declared map[string]*Identifier

	// Children lists scopes nested directly inside this one, in source
	// order.
	Children []*Scope
}

// Resolve looks up name starting in s and walking Parent links, returning
// the declaring Identifier or nil if the name is never bound (a global or
// a typo).
func (s *Scope) Resolve(name string) *Identifier {
	for cur := s; cur != nil; cur = cur.Parent {
		if id, ok := cur.Declared[name]; ok {
			return id
		}
	}
	return nil
}

// FunctionScope walks Parent links to the nearest enclosing function or
// global scope, the scope that `var` declarations and hoisted function
// declarations attach to regardless of how many blocks they're nested in.
func (s *Scope) FunctionScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ScopeFunction || cur.Kind == ScopeGlobal {
			return cur
		}
	}
	return nil
}
