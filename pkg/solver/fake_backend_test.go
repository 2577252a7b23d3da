package solver

import "github.com/SDey96/Timetabler/pkg/clause"

// fakeBackend is a hand-written Backend double for tests: a small
// recursive DPLL solver over the clauses it accumulates, standing in
// for ginibackend.go's gini-backed implementation so pkg/solver's unit
// tests do not depend on a real SAT engine (mirroring the teacher's use
// of hand-written/generated fakes for its own Installable/Constraint
// test doubles).
type fakeBackend struct {
	numVars int
	clauses [][]clause.Literal
	assumed []clause.Literal
	model   map[int]bool
}

func newFakeBackend(numVars int) *fakeBackend {
	return &fakeBackend{numVars: numVars, model: make(map[int]bool)}
}

func (b *fakeBackend) NewVar() int {
	b.numVars++
	return b.numVars
}

func (b *fakeBackend) AddClause(lits []clause.Literal) {
	cp := append([]clause.Literal{}, lits...)
	b.clauses = append(b.clauses, cp)
}

func (b *fakeBackend) Assume(lits []clause.Literal) {
	b.assumed = append(b.assumed, lits...)
}

func (b *fakeBackend) ClearAssumptions() {
	b.assumed = b.assumed[:0]
}

func (b *fakeBackend) Solve() bool {
	all := make([][]clause.Literal, 0, len(b.clauses)+len(b.assumed))
	all = append(all, b.clauses...)
	for _, l := range b.assumed {
		all = append(all, []clause.Literal{l})
	}
	model, ok := dpll(all, map[int]bool{})
	b.ClearAssumptions()
	if ok {
		b.model = model
	}
	return ok
}

func (b *fakeBackend) Value(id int) bool {
	return b.model[id]
}

func evalClause(c []clause.Literal, assign map[int]bool) (sat bool, unassigned []clause.Literal) {
	for _, l := range c {
		v, ok := assign[l.Var]
		if !ok {
			unassigned = append(unassigned, l)
			continue
		}
		truth := v
		if l.Neg {
			truth = !v
		}
		if truth {
			return true, nil
		}
	}
	return false, unassigned
}

func findUnit(clauses [][]clause.Literal, assign map[int]bool) (lit clause.Literal, hasUnit bool, conflict bool) {
	for _, c := range clauses {
		sat, unassigned := evalClause(c, assign)
		if sat {
			continue
		}
		if len(unassigned) == 0 {
			return clause.Literal{}, false, true
		}
		if len(unassigned) == 1 {
			return unassigned[0], true, false
		}
	}
	return clause.Literal{}, false, false
}

func clauseStatus(clauses [][]clause.Literal, assign map[int]bool) (allSatisfied bool, conflict bool) {
	allSatisfied = true
	for _, c := range clauses {
		sat, unassigned := evalClause(c, assign)
		if sat {
			continue
		}
		allSatisfied = false
		if len(unassigned) == 0 {
			return false, true
		}
	}
	return allSatisfied, false
}

func pickUnassigned(clauses [][]clause.Literal, assign map[int]bool) (int, bool) {
	for _, c := range clauses {
		for _, l := range c {
			if _, ok := assign[l.Var]; !ok {
				return l.Var, true
			}
		}
	}
	return 0, false
}

func cloneAssign(assign map[int]bool) map[int]bool {
	out := make(map[int]bool, len(assign))
	for k, v := range assign {
		out[k] = v
	}
	return out
}

// dpll returns a satisfying assignment and true if clauses is
// satisfiable given the partial assignment in assign, or false
// otherwise. It never mutates the map passed in.
func dpll(clauses [][]clause.Literal, assign map[int]bool) (map[int]bool, bool) {
	assign = cloneAssign(assign)

	for {
		lit, hasUnit, conflict := findUnit(clauses, assign)
		if conflict {
			return nil, false
		}
		if !hasUnit {
			break
		}
		assign[lit.Var] = !lit.Neg
	}

	allSatisfied, conflict := clauseStatus(clauses, assign)
	if conflict {
		return nil, false
	}
	if allSatisfied {
		return assign, true
	}

	v, ok := pickUnassigned(clauses, assign)
	if !ok {
		return assign, true
	}

	assign[v] = true
	if result, ok := dpll(clauses, assign); ok {
		return result, true
	}
	assign[v] = false
	if result, ok := dpll(clauses, assign); ok {
		return result, true
	}
	return nil, false
}
