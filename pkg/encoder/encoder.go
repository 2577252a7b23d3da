// Package encoder implements the constraint encoder of spec.md §4.3: a
// set of pure functions translating semantic predicates over entity
// indices into clause.Fragment values. The encoder reads entities and
// the allocator; it never reads or writes the solver.
package encoder

import (
	"github.com/SDey96/Timetabler/pkg/allocator"
	"github.com/SDey96/Timetabler/pkg/clause"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
)

// Encoder is a thin, stateless-beyond-its-inputs wrapper around a
// Registry and an Allocator. All methods are pure functions of their
// arguments and the Encoder's fixed inputs.
type Encoder struct {
	Reg   *entities.Registry
	Alloc *allocator.Allocator
}

func New(reg *entities.Registry, alloc *allocator.Allocator) *Encoder {
	return &Encoder{Reg: reg, Alloc: alloc}
}

func (e *Encoder) assignLit(c int, f field.FieldType, v int, neg bool) clause.Literal {
	l := clause.Lit(e.Alloc.AssignVar(c, f, v))
	if neg {
		return l.Negate()
	}
	return l
}

// HasExactlyOneFieldValueTrue is ⋁_v X[c,F,v] together with the
// pairwise at-most-one clauses ¬X[c,F,v1] ∨ ¬X[c,F,v2] for v1 < v2. An
// empty value domain (|F| == 0) makes the disjunction the empty clause,
// i.e. unsatisfiable — this is intentional (spec.md §4.3.2): the
// anomaly surfaces to the solver rather than aborting here.
func (e *Encoder) HasExactlyOneFieldValueTrue(c int, f field.FieldType) clause.Fragment {
	card := e.Reg.Cardinality(f)

	lits := make([]clause.Literal, card)
	for v := 0; v < card; v++ {
		lits[v] = e.assignLit(c, f, v, false)
	}
	atLeastOne := clause.OrLits(lits...)

	var atMostOne clause.Fragment
	for v1 := 0; v1 < card; v1++ {
		for v2 := v1 + 1; v2 < card; v2++ {
			pair := clause.OrLits(e.assignLit(c, f, v1, true), e.assignLit(c, f, v2, true))
			atMostOne = clause.And(atMostOne, pair)
		}
	}
	return clause.And(atLeastOne, atMostOne)
}

// HasSameFieldTypeAndValue is ⋁_v (X[c1,F,v] ∧ X[c2,F,v]), in CNF.
func (e *Encoder) HasSameFieldTypeAndValue(c1, c2 int, f field.FieldType) clause.Fragment {
	card := e.Reg.Cardinality(f)
	var disjuncts clause.Fragment
	for v := 0; v < card; v++ {
		both := clause.And(
			clause.Unit(e.assignLit(c1, f, v, false)),
			clause.Unit(e.assignLit(c2, f, v, false)),
		)
		if v == 0 {
			disjuncts = both
		} else {
			disjuncts = clause.Or(disjuncts, both)
		}
	}
	if card == 0 {
		return clause.False()
	}
	return disjuncts
}

// HasSameFieldTypeNotSameValue is ⋁_{v1≠v2} (X[c1,F,v1] ∧ X[c2,F,v2]):
// both courses have some value for F and the values disagree.
func (e *Encoder) HasSameFieldTypeNotSameValue(c1, c2 int, f field.FieldType) clause.Fragment {
	card := e.Reg.Cardinality(f)
	var disjuncts clause.Fragment
	first := true
	for v1 := 0; v1 < card; v1++ {
		for v2 := 0; v2 < card; v2++ {
			if v1 == v2 {
				continue
			}
			both := clause.And(
				clause.Unit(e.assignLit(c1, f, v1, false)),
				clause.Unit(e.assignLit(c2, f, v2, false)),
			)
			if first {
				disjuncts = both
				first = false
			} else {
				disjuncts = clause.Or(disjuncts, both)
			}
		}
	}
	if first {
		// card < 2: no (v1 != v2) pair exists.
		return clause.False()
	}
	return disjuncts
}

// HasFieldTypeListedValues is ⋁_{v∈V} X[c,F,v]. An empty V is false.
func (e *Encoder) HasFieldTypeListedValues(c int, f field.FieldType, values []int) clause.Fragment {
	lits := make([]clause.Literal, len(values))
	for i, v := range values {
		lits[i] = e.assignLit(c, f, v, false)
	}
	return clause.OrLits(lits...)
}

// NotIntersectingTime holds iff the (slot, segment) pair chosen for c1
// and c2 does not overlap in real time. It is expanded as a conjunction
// over every overlapping (slot, segment) product: for every pair of
// slots/segments whose combination would clash, that combination is
// forbidden.
func (e *Encoder) NotIntersectingTime(c1, c2 int) clause.Fragment {
	numSlots := e.Reg.Cardinality(field.Slot)
	numSegs := e.Reg.Cardinality(field.Segment)

	result := clause.True()
	for s1 := 0; s1 < numSlots; s1++ {
		for g1 := 0; g1 < numSegs; g1++ {
			for g2 := 0; g2 < numSegs; g2++ {
				if !e.Reg.Overlap(g1, g2) {
					continue
				}
				// Same slot index is this encoding's notion of
				// coincident time; segments additionally narrow which
				// part of that slot is occupied.
				s2 := s1
				forbidden := clause.AndAll(
					clause.Unit(e.assignLit(c1, field.Slot, s1, false)),
					clause.Unit(e.assignLit(c1, field.Segment, g1, false)),
					clause.Unit(e.assignLit(c2, field.Slot, s2, false)),
					clause.Unit(e.assignLit(c2, field.Segment, g2, false)),
				)
				result = clause.And(result, clause.Not(forbidden))
			}
		}
	}
	return result
}

// HasNoCommonCoreProgram is true iff there is no program for which both
// courses are core. It is evaluated entirely over static entity
// metadata, so the result is a constant-true or constant-false
// fragment.
func (e *Encoder) HasNoCommonCoreProgram(c1, c2 int) clause.Fragment {
	core1 := e.Reg.CoreProgramsOf(c1)
	for p := range e.Reg.CoreProgramsOf(c2) {
		if _, ok := core1[p]; ok {
			return clause.False()
		}
	}
	return clause.True()
}

// IsMinorCourse is the single literal X[c, isMinor, minorIndex].
func (e *Encoder) IsMinorCourse(c int) clause.Fragment {
	return clause.Unit(e.assignLit(c, field.IsMinor, e.Reg.MinorIndex, false))
}

// IsCoreCourse is the disjunction over program values for which c is
// declared core.
func (e *Encoder) IsCoreCourse(c int) clause.Fragment {
	return e.HasFieldTypeListedValues(c, field.Program, sortedKeys(e.Reg.CoreProgramsOf(c)))
}

// IsElectiveCourse mirrors IsCoreCourse for the elective role.
func (e *Encoder) IsElectiveCourse(c int) clause.Fragment {
	return e.HasFieldTypeListedValues(c, field.Program, sortedKeys(e.Reg.ElectiveProgramsOf(c)))
}

// SlotInMinorTime is the disjunction of X[c,slot,v] over slots flagged
// as minor slots.
func (e *Encoder) SlotInMinorTime(c int) clause.Fragment {
	return e.HasFieldTypeListedValues(c, field.Slot, e.Reg.MinorSlots())
}

// CourseInMorningTime is the disjunction of X[c,slot,v] restricted to
// morning slots.
func (e *Encoder) CourseInMorningTime(c int) clause.Fragment {
	return e.HasFieldTypeListedValues(c, field.Slot, e.Reg.MorningSlots())
}

// ProgramAtMostOneOfCoreOrElective forbids a course from being
// simultaneously core and elective in the same program. This compiler
// represents role as static Course.Programs metadata rather than a pair
// of Boolean fields, so, like HasNoCommonCoreProgram, the rule is
// evaluated over that metadata: the result is constant-false if some
// program lists c as both core and elective, constant-true otherwise.
func (e *Encoder) ProgramAtMostOneOfCoreOrElective(c int) clause.Fragment {
	core := e.Reg.CoreProgramsOf(c)
	for p := range e.Reg.ElectiveProgramsOf(c) {
		if _, ok := core[p]; ok {
			return clause.False()
		}
	}
	return clause.True()
}

// ExistingAssignments returns the conjunction of unit literals recorded
// in Course.Existing: one literal per field for which the course
// carries a prior/incumbent value. Used only by the
// existingAssignmentPreferred soft rule (SPEC_FULL.md).
func (e *Encoder) ExistingAssignments(c int) clause.Fragment {
	result := clause.True()
	course := e.Reg.Courses[c]
	for _, f := range field.FieldTypes() {
		if v, ok := course.Existing[f]; ok {
			result = clause.And(result, clause.Unit(e.assignLit(c, f, v, false)))
		}
	}
	return result
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Insertion sort: these sets are always small (program counts per
	// course), so O(n^2) avoids pulling in sort for a handful of ints.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
