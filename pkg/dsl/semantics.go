package dsl

import (
	"fmt"

	"github.com/SDey96/Timetabler/pkg/clause"
	"github.com/SDey96/Timetabler/pkg/constraints"
	"github.com/SDey96/Timetabler/pkg/encoder"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
)

// names resolves a loader's entity names to the stable indices the
// encoder works in, for every name-bearing field type the DSL can
// reference.
type names struct {
	courses     map[string]int
	instructors map[string]int
	segments    map[string]int
	minorLabels map[string]int
	programs    map[string]int
	slots       map[string]int
	classrooms  map[string]int
}

func newNames(reg *entities.Registry) *names {
	n := &names{
		courses:     make(map[string]int, len(reg.Courses)),
		instructors: make(map[string]int, len(reg.Instructors)),
		segments:    make(map[string]int, len(reg.Segments)),
		minorLabels: make(map[string]int, len(reg.MinorLabels)),
		programs:    make(map[string]int, len(reg.Programs)),
		slots:       make(map[string]int, len(reg.Slots)),
		classrooms:  make(map[string]int, len(reg.Classrooms)),
	}
	for i, c := range reg.Courses {
		n.courses[c.Name] = i
	}
	for i, v := range reg.Instructors {
		n.instructors[v.Name] = i
	}
	for i, v := range reg.Segments {
		n.segments[v.Name] = i
	}
	for i, v := range reg.MinorLabels {
		n.minorLabels[v.Name] = i
	}
	for i, v := range reg.Programs {
		n.programs[v.Name] = i
	}
	for i, v := range reg.Slots {
		n.slots[v.Name] = i
	}
	for i, v := range reg.Classrooms {
		n.classrooms[v.Name] = i
	}
	return n
}

// UnknownEntity is the configuration error raised when a custom
// constraint names an entity the registry has no record of (spec.md
// §4.5.3, §7, exit code 1 at the CLI layer).
type UnknownEntity struct {
	Field string
	Name  string
}

func (e *UnknownEntity) Error() string {
	return fmt.Sprintf("dsl: unknown %s %q", e.Field, e.Name)
}

func resolveName(table map[string]int, field, raw string) (int, error) {
	if idx, ok := table[raw]; ok {
		return idx, nil
	}
	return 0, &UnknownEntity{Field: field, Name: raw}
}

func resolveNames(table map[string]int, field string, raw []string) ([]int, error) {
	out := make([]int, len(raw))
	for i, r := range raw {
		idx, err := resolveName(table, field, r)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Compile translates a parsed File into a sequence of (fragment, weight)
// submissions on sink, resolving every entity name against reg. It
// returns the first UnknownEntity encountered, matching the original
// parser's stop-at-first-error behaviour (spec.md §4.5.3: reported once).
func Compile(file *File, reg *entities.Registry, enc *encoder.Encoder, sink constraints.Submitter) error {
	n := newNames(reg)
	for _, wc := range file.Constraints {
		frag, err := compileOr(wc.Expr, n, reg, enc)
		if err != nil {
			return err
		}
		sink.Submit(constraints.CustomConstraint, frag, weightOf(wc.Weight))
	}
	return nil
}

// weightOf maps a parsed integer weight to a constraints.Weight,
// treating any value at or above the Hard sentinel as the hard ∞ the
// grammar's WEIGHT clause can express (spec.md §8 scenario 5).
func weightOf(w int) constraints.Weight {
	if w >= int(constraints.Hard) {
		return constraints.Hard
	}
	return constraints.Weight(w)
}

func compileOr(e *OrExpr, n *names, reg *entities.Registry, enc *encoder.Encoder) (clause.Fragment, error) {
	var result clause.Fragment
	for i, operand := range e.Operands {
		f, err := compileAnd(operand, n, reg, enc)
		if err != nil {
			return clause.Fragment{}, err
		}
		if i == 0 {
			result = f
		} else {
			result = clause.Or(result, f)
		}
	}
	return result, nil
}

func compileAnd(e *AndExpr, n *names, reg *entities.Registry, enc *encoder.Encoder) (clause.Fragment, error) {
	var result clause.Fragment
	for i, operand := range e.Operands {
		f, err := compileVal(operand, n, reg, enc)
		if err != nil {
			return clause.Fragment{}, err
		}
		if i == 0 {
			result = f
		} else {
			result = clause.And(result, f)
		}
	}
	return result, nil
}

func compileVal(e *ValExpr, n *names, reg *entities.Registry, enc *encoder.Encoder) (clause.Fragment, error) {
	switch {
	case e.Not != nil:
		f, err := compileOr(e.Not, n, reg, enc)
		if err != nil {
			return clause.Fragment{}, err
		}
		return clause.Not(f), nil
	case e.Paren != nil:
		return compileOr(e.Paren, n, reg, enc)
	default:
		return compileConstraint(e.Constraint, n, reg, enc)
	}
}

// compileConstraint implements spec.md §4.5.2: select the courses named
// by `COURSE values` and narrowed by each filter's antecedent, then for
// each selected course emit `antecedent(c) ⇒ consequent` where
// consequent is the conjunction of the decl clauses (each possibly
// pairing c with later selected courses for SAME/NOTSAME), and
// conjoined/negated as the leading NOT on IN dictates.
func compileConstraint(c *Constraint, n *names, reg *entities.Registry, enc *encoder.Encoder) (clause.Fragment, error) {
	selected, err := resolveValues(c.Course, n.courses, "course", reg.NumCourses())
	if err != nil {
		return clause.Fragment{}, err
	}

	antecedents := make([]clause.Fragment, len(selected))
	for i := range selected {
		antecedents[i] = clause.True()
	}
	for _, filt := range c.Filters {
		table, field, card, err := filterTable(filt.Field, n, reg)
		if err != nil {
			return clause.Fragment{}, err
		}
		values, err := resolveValues(filt.Values, table, filt.Field, card)
		if err != nil {
			return clause.Fragment{}, err
		}
		for i, courseIdx := range selected {
			antecedents[i] = clause.And(antecedents[i], enc.HasFieldTypeListedValues(courseIdx, field, values))
		}
	}

	var perCourse []clause.Fragment
	for i, courseIdx := range selected {
		consequent, err := compileConsequent(c.Decls, courseIdx, selected[i+1:], antecedents[i+1:], n, reg, enc)
		if err != nil {
			return clause.Fragment{}, err
		}
		if c.Negate {
			consequent = clause.Not(consequent)
		}
		perCourse = append(perCourse, clause.Impl(antecedents[i], consequent))
	}
	return clause.AndAll(perCourse...), nil
}

// compileConsequent builds the consequent of one selected course's
// `antecedent(c) ⇒ consequent` implication. SAME/NOTSAME decls pair c
// with each later selected course, but that pairing must itself be
// guarded by the later course's own antecedent
// (laterAntecedents[k], aligned by position with laterCourses[k]):
// without this guard, a filter that narrows the selection (e.g.
// `COURSE {C1,C2} INSTRUCTOR {I1} IN SLOT SAME`) would still force
// C1 and C2 to share a slot even when C2 fails the INSTRUCTOR filter,
// which spec.md §4.5.2's `antecedent(c_j) ⇒ (¬)hasSameFieldTypeAndValue`
// shape leaves unconstrained.
func compileConsequent(decls []*Decl, course int, laterCourses []int, laterAntecedents []clause.Fragment, n *names, reg *entities.Registry, enc *encoder.Encoder) (clause.Fragment, error) {
	result := clause.True()
	for _, d := range decls {
		var f field.FieldType
		var table map[string]int
		var card int
		switch d.Field {
		case "SLOT":
			f, table, card = field.Slot, n.slots, len(reg.Slots)
		case "CLASSROOM":
			f, table, card = field.Classroom, n.classrooms, len(reg.Classrooms)
		default:
			return clause.Fragment{}, fmt.Errorf("dsl: unsupported decl field %q", d.Field)
		}

		switch {
		case d.Values.Same:
			for k, other := range laterCourses {
				pair := enc.HasSameFieldTypeAndValue(course, other, f)
				result = clause.And(result, clause.Impl(laterAntecedents[k], pair))
			}
		case d.Values.NotSame:
			for k, other := range laterCourses {
				pair := clause.Not(enc.HasSameFieldTypeAndValue(course, other, f))
				result = clause.And(result, clause.Impl(laterAntecedents[k], pair))
			}
		default:
			values, err := resolveValues(d.Values, table, d.Field, card)
			if err != nil {
				return clause.Fragment{}, err
			}
			result = clause.And(result, enc.HasFieldTypeListedValues(course, f, values))
		}
	}
	return result, nil
}

func filterTable(name string, n *names, reg *entities.Registry) (map[string]int, field.FieldType, int, error) {
	switch name {
	case "INSTRUCTOR":
		return n.instructors, field.Instructor, len(reg.Instructors), nil
	case "SEGMENT":
		return n.segments, field.Segment, len(reg.Segments), nil
	case "ISMINOR":
		return n.minorLabels, field.IsMinor, len(reg.MinorLabels), nil
	case "PROGRAM":
		return n.programs, field.Program, len(reg.Programs), nil
	default:
		return nil, 0, 0, fmt.Errorf("dsl: unsupported filter field %q", name)
	}
}

// resolveValues expands a Values node ("*" or an explicit list) to
// concrete indices against table. SAME/NOTSAME are only valid on SLOT
// and CLASSROOM decls and are handled by the caller, not here.
func resolveValues(v *Values, table map[string]int, fieldName string, card int) ([]int, error) {
	if v.All {
		out := make([]int, card)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	return resolveNames(table, fieldName, v.List)
}
