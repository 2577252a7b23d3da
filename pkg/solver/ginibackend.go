package solver

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"

	"github.com/SDey96/Timetabler/pkg/clause"
)

// giniBackend implements Backend directly over gini's raw CNF-ingestion
// API (Add(lit)/Add(0)), not its logic.C Tseitin circuit builder: the
// clause algebra in pkg/clause already produces flat CNF, so there is
// nothing for a circuit builder to do here (spec.md §9 non-Tseitin
// design note).
type giniBackend struct {
	g       inter.S
	numVars int
	assumed []z.Lit
}

// NewGiniBackend wraps a fresh gini instance sized for numVars
// pre-allocated variables (the ones pkg/allocator already assigned).
func NewGiniBackend(numVars int) Backend {
	g := gini.New()
	for i := 0; i < numVars; i++ {
		g.NewVar()
	}
	return &giniBackend{g: g, numVars: numVars}
}

// NewVar allocates a fresh gini variable and returns its id in the same
// numbering space as pkg/allocator's ids: gini numbers variables 1..N
// in creation order, matching the allocator's dense 1..N assignment, so
// a gini-created variable's id is simply its position in that sequence.
func (b *giniBackend) NewVar() int {
	v := b.g.NewVar()
	b.numVars++
	return int(v)
}

func (b *giniBackend) lit(l clause.Literal) z.Lit {
	m := z.Var(l.Var).Pos()
	if l.Neg {
		return m.Not()
	}
	return m
}

func (b *giniBackend) AddClause(lits []clause.Literal) {
	for _, l := range lits {
		b.g.Add(b.lit(l))
	}
	b.g.Add(0)
}

func (b *giniBackend) Assume(lits []clause.Literal) {
	for _, l := range lits {
		b.assumed = append(b.assumed, b.lit(l))
	}
}

func (b *giniBackend) ClearAssumptions() {
	b.assumed = b.assumed[:0]
}

func (b *giniBackend) Solve() bool {
	if len(b.assumed) > 0 {
		b.g.Assume(b.assumed...)
	}
	result := b.g.Solve()
	b.ClearAssumptions()
	return result == 1
}

func (b *giniBackend) Value(id int) bool {
	return b.g.Value(z.Var(id).Pos())
}
