// Package clause implements the Boolean clause algebra of spec.md §4.2:
// an immutable CNF value type supporting conjunction, disjunction,
// negation, and implication, built without Tseitin variables. Every
// literal reference a Fragment carries must have come from
// pkg/allocator; this package never allocates variables itself.
package clause

// Literal is a signed reference to a propositional variable id, as
// allocated by pkg/allocator. Var is always a positive id; Neg is true
// when the literal is the negation of that variable.
type Literal struct {
	Var int
	Neg bool
}

// Lit constructs the positive literal for id.
func Lit(id int) Literal {
	return Literal{Var: id}
}

// Negate returns the complementary literal.
func (l Literal) Negate() Literal {
	return Literal{Var: l.Var, Neg: !l.Neg}
}

// Clause is a disjunction: a finite multiset of literals. An empty
// Clause is the unsatisfiable disjunction (false).
type Clause []Literal

// Fragment is a conjunction of Clauses: its only observable content is
// a finite multiset of clauses. An empty Fragment (no clauses at all)
// is the identity for conjunction (true); a Fragment holding a single
// empty Clause is false.
type Fragment struct {
	Clauses []Clause
}

// True returns the conjunctive identity: vacuously satisfied.
func True() Fragment {
	return Fragment{}
}

// False returns the unsatisfiable fragment.
func False() Fragment {
	return Fragment{Clauses: []Clause{{}}}
}

// IsTrue reports whether f carries no clauses at all.
func (f Fragment) IsTrue() bool {
	return len(f.Clauses) == 0
}

// IsFalse reports whether f is exactly the single-empty-clause
// unsatisfiable fragment produced by False. This is a syntactic check,
// not a semantic one: a Fragment can be unsatisfiable without being
// IsFalse (e.g. {x} and {¬x} conjoined), which is expected and left for
// the solver to discover.
func (f Fragment) IsFalse() bool {
	return len(f.Clauses) == 1 && len(f.Clauses[0]) == 0
}

// Unit builds the single-clause Fragment asserting l on its own.
func Unit(l Literal) Fragment {
	return Fragment{Clauses: []Clause{{l}}}
}

// OrLits builds the single-clause Fragment that is the disjunction of
// every given literal. An empty literal list yields False, matching the
// hasFieldTypeListedValues(c,F,∅) edge case of spec.md §4.3.2.
func OrLits(lits ...Literal) Fragment {
	if len(lits) == 0 {
		return False()
	}
	clause := make(Clause, len(lits))
	copy(clause, lits)
	return Fragment{Clauses: []Clause{clause}}
}

// And concatenates the clause lists of a and b. Pure conjunction never
// grows the clause count beyond |a|+|b|.
func And(a, b Fragment) Fragment {
	if a.IsTrue() {
		return b
	}
	if b.IsTrue() {
		return a
	}
	out := make([]Clause, 0, len(a.Clauses)+len(b.Clauses))
	out = append(out, a.Clauses...)
	out = append(out, b.Clauses...)
	return Fragment{Clauses: out}
}

// AndAll conjoins every given Fragment, in order.
func AndAll(frags ...Fragment) Fragment {
	result := True()
	for _, f := range frags {
		result = And(result, f)
	}
	return result
}

// Or computes the distributive product of a and b: every clause of a
// unioned with every clause of b, yielding |a|·|b| clauses. Callers must
// keep both operands small; this package performs no Tseitin expansion
// (spec.md §4.2, §9).
func Or(a, b Fragment) Fragment {
	if a.IsFalse() || b.IsTrue() {
		return b.orIdentityFastPath(a)
	}
	if b.IsFalse() {
		return a
	}
	if a.IsTrue() {
		return True()
	}
	out := make([]Clause, 0, len(a.Clauses)*len(b.Clauses))
	for _, ca := range a.Clauses {
		for _, cb := range b.Clauses {
			merged := make(Clause, 0, len(ca)+len(cb))
			merged = append(merged, ca...)
			merged = append(merged, cb...)
			out = append(out, merged)
		}
	}
	return Fragment{Clauses: out}
}

// orIdentityFastPath handles the remaining a.IsFalse()/b.IsTrue() cases
// of Or without re-deriving them inline at every call site.
func (b Fragment) orIdentityFastPath(a Fragment) Fragment {
	if a.IsFalse() {
		return b
	}
	return True()
}

// OrAll disjoins every given Fragment, left to right.
func OrAll(frags ...Fragment) Fragment {
	if len(frags) == 0 {
		return False()
	}
	result := frags[0]
	for _, f := range frags[1:] {
		result = Or(result, f)
	}
	return result
}

// notClause returns ¬(l1 ∨ l2 ∨ … ∨ ln) = ¬l1 ∧ ¬l2 ∧ … ∧ ¬ln, i.e. the
// conjunction of singleton clauses holding each negated literal.
func notClause(c Clause) Fragment {
	if len(c) == 0 {
		// ¬false = true
		return True()
	}
	clauses := make([]Clause, len(c))
	for i, l := range c {
		clauses[i] = Clause{l.Negate()}
	}
	return Fragment{Clauses: clauses}
}

// Not expands De Morgan's law: each clause of a becomes one negated
// conjunctive term, and those terms are re-distributed into CNF via Or.
// Callers apply Not only to fragments whose disjunctive normal form is
// small (spec.md §4.2) — single clauses or the short conjunctions the
// DSL produces.
func Not(a Fragment) Fragment {
	if a.IsTrue() {
		return False()
	}
	result := notClause(a.Clauses[0])
	for _, c := range a.Clauses[1:] {
		result = Or(result, notClause(c))
	}
	return result
}

// Impl returns a ⇒ b, defined as Or(Not(a), b). Antecedents passed here
// are expected to be single disjunctions, for which Not is cheap.
func Impl(a, b Fragment) Fragment {
	return Or(Not(a), b)
}
