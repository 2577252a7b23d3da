// Package solver implements the solver facade of spec.md §4.6: it buffers
// (fragment, weight) submissions, decomposes each fragment's clauses into
// hard or soft CNF clauses over a Backend, and runs the weight-tiered
// MaxSAT search described in SPEC_FULL.md's DOMAIN STACK DETAIL section.
//
// Grounded on the teacher's pkg/controller/registry/resolver/solver
// package: solve.go's assume/test/untest search loop and its use of a
// cardinality sorting network to walk a lexicographic optimum.
package solver

import "github.com/SDey96/Timetabler/pkg/clause"

// Backend is the minimal contract a SAT engine must satisfy for the
// facade to drive it (spec.md §6.2). pkg/solver/ginibackend.go is the
// concrete implementation over github.com/go-air/gini.
type Backend interface {
	// NewVar allocates and returns the id of a fresh backend variable.
	// The facade calls this only for variables beyond those the
	// allocator already assigned: one relaxation variable per soft
	// fragment and the cardinality encoder's registers.
	NewVar() int

	// AddClause teaches the backend one CNF clause, unconditionally.
	AddClause(lits []clause.Literal)

	// Assume pushes a temporary assumption literal for the next Solve
	// call; it is cleared when that Solve call returns or by
	// ClearAssumptions.
	Assume(lits []clause.Literal)

	// ClearAssumptions drops all pending assumptions.
	ClearAssumptions()

	// Solve runs the SAT engine under the current assumptions and
	// reports satisfiability.
	Solve() bool

	// Value reports the model's truth value for variable id after a
	// satisfiable Solve call.
	Value(id int) bool
}
