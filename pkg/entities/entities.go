// Package entities holds the flat, stable-indexed collections the rest
// of the compiler reasons about: courses, instructors, classrooms,
// slots, segments, programs, and minor-labels. Everything here is built
// once by a Registry and never mutated or re-numbered afterwards.
package entities

import (
	"fmt"

	"github.com/SDey96/Timetabler/pkg/field"
)

// Role is a course's standing within a particular Program.
type Role int

const (
	Neither Role = iota
	Core
	Elective
)

// ProgramRole attaches a Role to a specific Program index.
type ProgramRole struct {
	Program int
	Role    Role
}

// Course is the central entity: every other field type describes one of
// its assignable attributes.
type Course struct {
	Name       string
	Classroom  int
	Instructor int
	Segment    int
	Programs   []ProgramRole

	// Existing records a prior/incumbent value for a field, used only
	// by the existingAssignmentPreferred soft rule (SPEC_FULL.md). A
	// field absent from the map has no recorded prior value.
	Existing map[field.FieldType]int
}

// RoleIn returns the course's Role for the given program, or Neither if
// the course has no declared relationship to that program.
func (c Course) RoleIn(program int) Role {
	for _, pr := range c.Programs {
		if pr.Program == program {
			return pr.Role
		}
	}
	return Neither
}

// Instructor, Classroom, and Program are flat named entities with no
// derived predicates of their own.
type Instructor struct{ Name string }
type Classroom struct{ Name string }
type Program struct{ Name string }

// MinorLabel names one value of the isMinor field (e.g. "minor",
// "not-minor"). Exactly one index among these is the minor indicator
// tested by isMinorCourse.
type MinorLabel struct{ Name string }

// Slot is a schedulable time period. IsMinorSlot and IsMorning are
// the two derived predicates spec.md §3.1 requires slots to expose.
type Slot struct {
	Name        string
	IsMinorSlot bool
	IsMorning   bool
}

// SegmentRecord is one segment (a block of the week a course occupies).
// Overlap between segments is not a field of the segment itself but a
// precomputed, symmetric relation held by the Registry (see
// spec.md §9 Open Question).
type SegmentRecord struct {
	Name string
}

// Registry is the read-only, fully-resolved data model handed to the
// allocator and encoder. It is built once by a loader and never mutated
// afterwards (spec.md §5).
type Registry struct {
	Courses     []Course
	Instructors []Instructor
	Classrooms  []Classroom
	Slots       []Slot
	Segments    []SegmentRecord
	Programs    []Program
	MinorLabels []MinorLabel

	// MinorIndex is the index into MinorLabels that represents "this
	// course is a minor course" (isMinorCourse reads this literal).
	MinorIndex int

	// overlap[a][b] holds whether segment a and b intersect in real
	// time. Reflexive and symmetric by construction (NewRegistry fills
	// the diagonal and mirrors every entry).
	overlap [][]bool
}

// NewRegistry builds a Registry from already-resolved entity slices and
// a segment overlap relation. overlapPairs lists every pair of segment
// indices (a, b) that intersect in time; the registry derives the full
// symmetric, reflexive matrix from it.
func NewRegistry(
	courses []Course,
	instructors []Instructor,
	classrooms []Classroom,
	slots []Slot,
	segments []SegmentRecord,
	programs []Program,
	minorLabels []MinorLabel,
	minorIndex int,
	overlapPairs [][2]int,
) (*Registry, error) {
	if minorIndex < 0 || minorIndex >= len(minorLabels) {
		return nil, fmt.Errorf("entities: minor index %d out of range for %d minor labels", minorIndex, len(minorLabels))
	}

	n := len(segments)
	overlap := make([][]bool, n)
	for i := range overlap {
		overlap[i] = make([]bool, n)
		overlap[i][i] = true
	}
	for _, pair := range overlapPairs {
		a, b := pair[0], pair[1]
		if a < 0 || a >= n || b < 0 || b >= n {
			return nil, fmt.Errorf("entities: segment overlap pair (%d,%d) out of range for %d segments", a, b, n)
		}
		overlap[a][b] = true
		overlap[b][a] = true
	}

	return &Registry{
		Courses:     courses,
		Instructors: instructors,
		Classrooms:  classrooms,
		Slots:       slots,
		Segments:    segments,
		Programs:    programs,
		MinorLabels: minorLabels,
		MinorIndex:  minorIndex,
		overlap:     overlap,
	}, nil
}

// Overlap reports whether segments a and b intersect in real time.
// Reflexive and symmetric.
func (r *Registry) Overlap(a, b int) bool {
	return r.overlap[a][b]
}

// Cardinality returns |F|, the number of values a course's F field can
// take.
func (r *Registry) Cardinality(f field.FieldType) int {
	switch f {
	case field.Slot:
		return len(r.Slots)
	case field.Classroom:
		return len(r.Classrooms)
	case field.Instructor:
		return len(r.Instructors)
	case field.Segment:
		return len(r.Segments)
	case field.IsMinor:
		return len(r.MinorLabels)
	case field.Program:
		return len(r.Programs)
	default:
		return 0
	}
}

// NumCourses is |Nc|.
func (r *Registry) NumCourses() int {
	return len(r.Courses)
}

// CoreProgramsOf returns the set of programs for which the given course
// is core.
func (r *Registry) CoreProgramsOf(course int) map[int]struct{} {
	set := make(map[int]struct{})
	for _, pr := range r.Courses[course].Programs {
		if pr.Role == Core {
			set[pr.Program] = struct{}{}
		}
	}
	return set
}

// ElectiveProgramsOf mirrors CoreProgramsOf for Elective role.
func (r *Registry) ElectiveProgramsOf(course int) map[int]struct{} {
	set := make(map[int]struct{})
	for _, pr := range r.Courses[course].Programs {
		if pr.Role == Elective {
			set[pr.Program] = struct{}{}
		}
	}
	return set
}

// MorningSlots returns the indices of every slot flagged as a morning
// slot.
func (r *Registry) MorningSlots() []int {
	var out []int
	for i, s := range r.Slots {
		if s.IsMorning {
			out = append(out, i)
		}
	}
	return out
}

// MinorSlots returns the indices of every slot flagged as a minor slot.
func (r *Registry) MinorSlots() []int {
	var out []int
	for i, s := range r.Slots {
		if s.IsMinorSlot {
			out = append(out, i)
		}
	}
	return out
}
