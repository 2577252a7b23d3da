// Package constraints implements the constraint adder of spec.md §4.4:
// it iterates over all courses and course pairs, composes encoder
// fragments into the predefined rule set, and hands each rule to the
// solver facade with its weight.
//
// Two implementations of this component existed historically in the
// system this was compiled from: an older variant that returned one big
// conjunctive fragment for the caller to submit as a single clause, and
// a newer one that submits each rule separately with its own weight.
// Per spec.md §9 the newer, per-rule-weighted submission is
// authoritative; this package only implements that shape.
package constraints

import (
	"fmt"
	"strings"

	"github.com/SDey96/Timetabler/pkg/clause"
	"github.com/SDey96/Timetabler/pkg/encoder"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
)

// Submitter receives a completed rule: its tag (for diagnostics), the
// clause fragment, and its weight. pkg/solver.Facade implements this.
type Submitter interface {
	Submit(tag Tag, f clause.Fragment, w Weight)
}

// aggregate collects every configuration error encountered while adding
// rules, so a caller sees every missing weight at once rather than
// stopping at the first.
type aggregate []error

func (a aggregate) Error() string {
	msgs := make([]string, len(a))
	for i, e := range a {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors adding constraints: %s", len(a), strings.Join(msgs, "; "))
}

// Add emits the full predefined rule catalogue described in spec.md
// §4.4 plus the existingAssignmentPreferred rule supplemented from
// original_source/ (SPEC_FULL.md), submitting each to sink with the
// weight weights names for its tag. It returns a non-nil error
// (an aggregate of every MissingWeight encountered) only if weights is
// missing an entry for a tag this registry's data requires.
func Add(reg *entities.Registry, enc *encoder.Encoder, weights Table, sink Submitter) error {
	var errs aggregate

	submit := func(tag Tag, f clause.Fragment) {
		w, err := weights.weightOf(tag)
		if err != nil {
			errs = append(errs, err)
			return
		}
		sink.Submit(tag, f, w)
	}

	n := reg.NumCourses()

	// instructorSingleCourseAtATime, classroomSingleCourseAtATime,
	// programSingleCoreCourseAtATime: pairwise, hard.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			submit(InstructorSingleCourseAtATime, clause.Or(
				enc.HasSameFieldTypeNotSameValue(i, j, field.Instructor),
				enc.NotIntersectingTime(i, j),
			))
			submit(ClassroomSingleCourseAtATime, clause.Or(
				enc.HasSameFieldTypeNotSameValue(i, j, field.Classroom),
				enc.NotIntersectingTime(i, j),
			))
			submit(ProgramSingleCoreCourseAtATime, clause.Or(
				enc.HasNoCommonCoreProgram(i, j),
				enc.NotIntersectingTime(i, j),
			))
		}
	}

	for c := 0; c < n; c++ {
		// minorInMinorTime: minor course ⇔ slot is a minor slot.
		isMinor := enc.IsMinorCourse(c)
		minorSlot := enc.SlotInMinorTime(c)
		submit(MinorInMinorTime, clause.And(
			clause.Impl(isMinor, minorSlot),
			clause.Impl(minorSlot, isMinor),
		))

		submit(ProgramAtMostOneOfCoreOrElective, enc.ProgramAtMostOneOfCoreOrElective(c))

		// exactlyOne*PerCourse: H[c,F] ⇒ hasExactlyOneFieldValueTrue(c,F).
		submitExactlyOne(enc, sink, weights, &errs, c, field.Slot, ExactlyOneSlotPerCourse)
		submitExactlyOne(enc, sink, weights, &errs, c, field.Classroom, ExactlyOneClassroomPerCourse)
		submitExactlyOne(enc, sink, weights, &errs, c, field.Instructor, ExactlyOneInstructorPerCourse)
		submitExactlyOne(enc, sink, weights, &errs, c, field.IsMinor, ExactlyOneIsMinorPerCourse)
		submitExactlyOne(enc, sink, weights, &errs, c, field.Segment, ExactlyOneSegmentPerCourse)

		// coreInMorningTime / electiveInNonMorningTime: soft.
		submit(CoreInMorningTime, clause.Impl(enc.IsCoreCourse(c), enc.CourseInMorningTime(c)))
		submit(ElectiveInNonMorningTime, clause.Impl(enc.IsElectiveCourse(c), clause.Not(enc.CourseInMorningTime(c))))

		// existingAssignmentPreferred: supplemented soft rule.
		submit(ExistingAssignmentPreferred, enc.ExistingAssignments(c))
	}

	if len(errs) > 0 {
		// Report each missing tag once, however many rules needed it.
		seen := make(map[error]bool, len(errs))
		var unique aggregate
		for _, e := range errs {
			if !seen[e] {
				seen[e] = true
				unique = append(unique, e)
			}
		}
		return unique
	}
	return nil
}

// submitExactlyOne emits H[c,F] ⇒ hasExactlyOneFieldValueTrue(c,F) for
// one course/field pair, plus H[c,F] itself as a unit clause at the
// same weight. The implication alone is vacuously satisfiable by
// leaving H false, so without the second submission the exactly-one
// rule never binds: a model could assign a course zero or several
// values for f and still satisfy every hard clause. Submitting H as a
// clause too is what makes it the soft witness spec.md §3.2/§4.4
// describes: the solver is pushed to set it true, and a false H in the
// final model is the diagnostic signal that this rule went unsatisfied.
func submitExactlyOne(enc *encoder.Encoder, sink Submitter, weights Table, errs *aggregate, c int, f field.FieldType, tag Tag) {
	w, err := weights.weightOf(tag)
	if err != nil {
		*errs = append(*errs, err)
		return
	}
	h := clause.Unit(clause.Lit(enc.Alloc.HighVar(c, f)))
	sink.Submit(tag, clause.Impl(h, enc.HasExactlyOneFieldValueTrue(c, f)), w)
	sink.Submit(tag, h, w)
}
