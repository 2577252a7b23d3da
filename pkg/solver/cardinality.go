package solver

import "github.com/SDey96/Timetabler/pkg/clause"

// cardinality is a Sinz (2005) sequential-counter at-most-k sorting
// network over a fixed set of input literals. It plays the same role
// in the optimization loop as the teacher's logic.CardSort (built via
// gini's Tseitin circuit builder d.c.CardSort) but is hand-rolled
// because the clause algebra this module uses is explicitly non-Tseitin
// (spec.md §9): the cardinality encoder is the one place a fresh-variable
// encoding is appropriate, and it bypasses pkg/clause entirely, teaching
// its clauses straight to the Backend instead of going through
// clause.Fragment.
//
// For n inputs x_1..x_n, it introduces registers s_{i,j} (1<=i<=n,
// 1<=j<=n) meaning "at least j of x_1..x_i are true", with the standard
// clauses:
//
//	x_i        => s_{i,1}
//	s_{i-1,j}  => s_{i,j}
//	x_i ∧ s_{i-1,j-1} => s_{i,j}
//	s_{i,j} => s_{i+1,j}          (propagation, folded into the above)
//
// Leq(k) asks for the literal ¬s_{n,k+1} (true means "at most k of the
// inputs are true"); for k >= n the bound holds vacuously, so Leq
// reports ok=false and returns no literal rather than indexing out of
// range.
type cardinality struct {
	n       int
	regs    [][]int // regs[i][j], 1-indexed in i and j, 0 = unallocated
	backend Backend
}

// newCardinality builds the sorting network over inputs and returns a
// handle supporting Leq queries. Every clause is taught to backend
// immediately.
func newCardinality(backend Backend, inputs []clause.Literal) *cardinality {
	n := len(inputs)
	c := &cardinality{n: n, backend: backend}
	c.regs = make([][]int, n+1)
	for i := 1; i <= n; i++ {
		c.regs[i] = make([]int, n+1)
	}

	reg := func(i, j int) int {
		if j < 1 || j > i {
			return 0
		}
		if c.regs[i][j] == 0 {
			c.regs[i][j] = backend.NewVar()
		}
		return c.regs[i][j]
	}
	lit := func(id int, neg bool) clause.Literal { return clause.Literal{Var: id, Neg: neg} }

	for i := 1; i <= n; i++ {
		xi := inputs[i-1]
		for j := 1; j <= i; j++ {
			sij := reg(i, j)

			// s_{i-1,j} => s_{i,j} (register never decreases).
			if prev := reg(i-1, j); prev != 0 {
				backend.AddClause([]clause.Literal{lit(prev, true), lit(sij, false)})
			}

			// x_i ∧ s_{i-1,j-1} => s_{i,j}.
			if j > 1 {
				if prev := reg(i-1, j-1); prev != 0 {
					backend.AddClause([]clause.Literal{xi.Negate(), lit(prev, true), lit(sij, false)})
				}
			} else {
				// j == 1: x_i alone implies s_{i,1}.
				backend.AddClause([]clause.Literal{xi.Negate(), lit(sij, false)})
			}
		}
	}
	return c
}

// N is the number of inputs the network was built over; Leq(N) is
// always satisfiable.
func (c *cardinality) N() int {
	return c.n
}

// Leq returns a literal that is true in a model iff at most k of the
// network's inputs are true, and ok reporting whether such a literal
// exists. ok is false when k >= N(): the constraint holds vacuously and
// the caller should simply not assume anything for this tier.
func (c *cardinality) Leq(k int) (lit clause.Literal, ok bool) {
	if k >= c.n {
		return clause.Literal{}, false
	}
	j := k + 1
	return clause.Literal{Var: c.regs[c.n][j], Neg: true}, true
}
