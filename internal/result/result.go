// Package result renders a decoded solver.Model back into the
// entity-level answer a caller wants: which value each course's fields
// settled on. Grounded on original_source/src/main.cpp's printResult
// pass over timeTabler->data, reworked to read assign-variable truth
// values from a Model instead of a process-global TimeTabler (spec.md
// §9 "Globals" design note: the timetabler is borrowed immutably here,
// not reached through a package-level pointer).
package result

import (
	"fmt"
	"strings"

	"github.com/SDey96/Timetabler/pkg/allocator"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
	"github.com/SDey96/Timetabler/pkg/solver"
)

// CourseAssignment is the resolved value, per field, for one course.
// A field with no satisfying value (an encoding anomaly surfaced by the
// solver, spec.md §7 category 3) is left at -1.
type CourseAssignment struct {
	Course string
	Values map[field.FieldType]int
}

// Decode walks every course/field pair and records which value's
// assignment variable the model set true.
func Decode(reg *entities.Registry, alloc *allocator.Allocator, model solver.Model) []CourseAssignment {
	out := make([]CourseAssignment, len(reg.Courses))
	for c, course := range reg.Courses {
		values := make(map[field.FieldType]int, field.Count())
		for _, f := range field.FieldTypes() {
			values[f] = -1
			card := reg.Cardinality(f)
			for v := 0; v < card; v++ {
				if model.Value(alloc.AssignVar(c, f, v)) {
					values[f] = v
					break
				}
			}
		}
		out[c] = CourseAssignment{Course: course.Name, Values: values}
	}
	return out
}

// Render produces a human-readable table, one line per course, naming
// the resolved entity for each field rather than its raw index.
func Render(reg *entities.Registry, assignments []CourseAssignment) string {
	var b strings.Builder
	for _, a := range assignments {
		fmt.Fprintf(&b, "%s:", a.Course)
		for _, f := range field.FieldTypes() {
			v := a.Values[f]
			fmt.Fprintf(&b, " %s=%s", f, nameOf(reg, f, v))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func nameOf(reg *entities.Registry, f field.FieldType, v int) string {
	if v < 0 {
		return "<unresolved>"
	}
	switch f {
	case field.Slot:
		return reg.Slots[v].Name
	case field.Classroom:
		return reg.Classrooms[v].Name
	case field.Instructor:
		return reg.Instructors[v].Name
	case field.Segment:
		return reg.Segments[v].Name
	case field.IsMinor:
		return reg.MinorLabels[v].Name
	case field.Program:
		return reg.Programs[v].Name
	default:
		return "<unknown field>"
	}
}
