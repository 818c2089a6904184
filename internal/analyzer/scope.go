package analyzer

// Scope is a linear parent chain (spec §9: "no shared mutable parent
// pointers... scopes form a linear parent chain accessed by lookup, never
// mutated through children"). Control-flow joins are implemented by
// snapshotting a scope's locals, analyzing each branch against its own
// copy, and merging the results back — never by linking shared state.
type Scope struct {
	parent *Scope
	locals map[string]LocalInfo
	order  []string
}

func newScope(parent *Scope) *Scope {
	return &Scope{parent: parent, locals: make(map[string]LocalInfo)}
}

// child opens a nested scope for a branch/loop/function body.
func (s *Scope) child() *Scope {
	return newScope(s)
}

func (s *Scope) orderedNames() []string {
	return s.order
}

// declareLocal introduces name in this scope, shadow/redeclare checks are
// the caller's responsibility (spec §4.2 separates "redeclare in same
// scope" from "shadow an ancestor scope").
func (s *Scope) declare(name string, info LocalInfo) {
	if _, exists := s.locals[name]; !exists {
		s.order = append(s.order, name)
	}
	s.locals[name] = info
}

// narrow shadows name in this scope only, without registering it in
// `order` — a narrowing refinement is not a new user declaration, so it
// must never trigger its own unused-local warning (checkUnused walks
// `order`, not `locals`).
func (s *Scope) narrow(name string, info LocalInfo) {
	s.locals[name] = info
}

// declaredHere reports whether name is bound directly in this scope (not an
// ancestor).
func (s *Scope) declaredHere(name string) bool {
	_, ok := s.locals[name]
	return ok
}

// shadowsAncestor reports whether name is bound in any ancestor scope.
func (s *Scope) shadowsAncestor(name string) bool {
	for p := s.parent; p != nil; p = p.parent {
		if _, ok := p.locals[name]; ok {
			return true
		}
	}
	return false
}

// lookup finds name along the parent chain, returning the scope that owns
// it so callers can write back mutations (mark used, update nilness, etc).
func (s *Scope) lookup(name string) (*Scope, LocalInfo, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if info, ok := cur.locals[name]; ok {
			return cur, info, true
		}
	}
	return nil, LocalInfo{}, false
}

func (s *Scope) set(name string, info LocalInfo) {
	if owner, _, ok := s.lookup(name); ok {
		owner.locals[name] = info
		return
	}
	s.declare(name, info)
}

// snapshotLocals copies every name->LocalInfo binding visible from s,
// keyed by name, for later comparison/merge at a control-flow join. Names
// already shadowed by a nearer scope are not overwritten by an ancestor's
// value (nearest-wins), matching ordinary lookup semantics.
func snapshotLocals(s *Scope) map[string]LocalInfo {
	out := make(map[string]LocalInfo)
	chain := []*Scope{}
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for name, info := range chain[i].locals {
			out[name] = info
		}
	}
	return out
}

// mergeJoin writes back, into s, the nilness-join and assigned-AND of two
// post-branch snapshots for every name visible before the branch. Names
// declared fresh inside a branch (not present in `before`) never leak out.
func mergeJoin(s *Scope, before, thenSnap, elseSnap map[string]LocalInfo) {
	for name := range before {
		t, tok := thenSnap[name]
		e, eok := elseSnap[name]
		if !tok && !eok {
			continue
		}
		if !tok {
			t = before[name]
		}
		if !eok {
			e = before[name]
		}
		merged := t
		merged.Nilness = JoinNilness(t.Nilness, e.Nilness)
		merged.Assigned = t.Assigned && e.Assigned
		merged.Used = t.Used || e.Used
		s.set(name, merged)
	}
}
