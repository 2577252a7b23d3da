package dsl

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDey96/Timetabler/pkg/allocator"
	"github.com/SDey96/Timetabler/pkg/clause"
	"github.com/SDey96/Timetabler/pkg/constraints"
	"github.com/SDey96/Timetabler/pkg/encoder"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
	"github.com/SDey96/Timetabler/pkg/solver"
)

type capturingSink struct {
	tags    []constraints.Tag
	weights []constraints.Weight
}

func (s *capturingSink) Submit(tag constraints.Tag, f clause.Fragment, w constraints.Weight) {
	s.tags = append(s.tags, tag)
	s.weights = append(s.weights, w)
}

func dslFixture(t *testing.T) (*entities.Registry, *encoder.Encoder) {
	t.Helper()
	reg, err := entities.NewRegistry(
		[]entities.Course{
			{Name: "algo101", Classroom: 0, Instructor: 0, Segment: 0},
			{Name: "bio201", Classroom: 0, Instructor: 0, Segment: 0},
		},
		[]entities.Instructor{{Name: "adams"}},
		[]entities.Classroom{{Name: "r101"}},
		[]entities.Slot{{Name: "mon-9am", IsMorning: true}, {Name: "mon-2pm"}},
		[]entities.SegmentRecord{{Name: "g0"}},
		[]entities.Program{{Name: "p0"}},
		[]entities.MinorLabel{{Name: "minor"}, {Name: "not-minor"}},
		0,
		nil,
	)
	require.NoError(t, err)
	a := allocator.Allocate(reg)
	return reg, encoder.New(reg, a)
}

// dslFixtureWithTwoInstructors pairs algo101 with a second course,
// chem301, taught by a second instructor, so an INSTRUCTOR filter can
// select differently for two paired courses.
func dslFixtureWithTwoInstructors(t *testing.T) (*entities.Registry, *encoder.Encoder) {
	t.Helper()
	reg, err := entities.NewRegistry(
		[]entities.Course{
			{Name: "algo101", Classroom: 0, Instructor: 0, Segment: 0},
			{Name: "chem301", Classroom: 0, Instructor: 1, Segment: 0},
		},
		[]entities.Instructor{{Name: "adams"}, {Name: "baker"}},
		[]entities.Classroom{{Name: "r101"}},
		[]entities.Slot{{Name: "mon-9am", IsMorning: true}, {Name: "mon-2pm"}},
		[]entities.SegmentRecord{{Name: "g0"}},
		[]entities.Program{{Name: "p0"}},
		[]entities.MinorLabel{{Name: "minor"}, {Name: "not-minor"}},
		0,
		nil,
	)
	require.NoError(t, err)
	a := allocator.Allocate(reg)
	return reg, encoder.New(reg, a)
}

func TestCompileSubmitsOneFragmentPerConstraint(t *testing.T) {
	reg, enc := dslFixture(t)
	file, err := Parser.ParseString("t.ttc", `COURSE {"algo101"} IN SLOT {"mon-9am"} WEIGHT 10`)
	require.NoError(t, err)

	sink := &capturingSink{}
	require.NoError(t, Compile(file, reg, enc, sink))

	require.Len(t, sink.tags, 1)
	assert.Equal(t, constraints.CustomConstraint, sink.tags[0])
	assert.Equal(t, constraints.Weight(10), sink.weights[0])
}

func TestCompileWeightAtOrAboveHardBecomesHard(t *testing.T) {
	reg, enc := dslFixture(t)
	src := `COURSE {"algo101"} IN SLOT {"mon-9am"} WEIGHT 2147483647`
	file, err := Parser.ParseString("t.ttc", src)
	require.NoError(t, err)

	sink := &capturingSink{}
	require.NoError(t, Compile(file, reg, enc, sink))
	assert.True(t, sink.weights[0].IsHard())
}

func TestCompileUnknownCourseIsReported(t *testing.T) {
	reg, enc := dslFixture(t)
	file, err := Parser.ParseString("t.ttc", `COURSE {"nonexistent"} IN SLOT {"mon-9am"} WEIGHT 1`)
	require.NoError(t, err)

	sink := &capturingSink{}
	err = Compile(file, reg, enc, sink)
	require.Error(t, err)
	var unknown *UnknownEntity
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "course", unknown.Field)
	assert.Equal(t, "nonexistent", unknown.Name)
}

func TestCompileUnknownFilterValueIsReported(t *testing.T) {
	reg, enc := dslFixture(t)
	file, err := Parser.ParseString("t.ttc", `COURSE {"algo101"} INSTRUCTOR {"nobody"} IN SLOT {"mon-9am"} WEIGHT 1`)
	require.NoError(t, err)

	sink := &capturingSink{}
	err = Compile(file, reg, enc, sink)
	require.Error(t, err)
	var unknown *UnknownEntity
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "INSTRUCTOR", unknown.Field)
}

func TestCompileWildcardCourseSelectsAll(t *testing.T) {
	reg, enc := dslFixture(t)
	file, err := Parser.ParseString("t.ttc", `COURSE * IN SLOT {"mon-9am"} WEIGHT 1`)
	require.NoError(t, err)

	sink := &capturingSink{}
	require.NoError(t, Compile(file, reg, enc, sink))
	require.Len(t, sink.tags, 1)
}

func TestCompileSameDeclPairsSelectedCourses(t *testing.T) {
	reg, enc := dslFixture(t)
	file, err := Parser.ParseString("t.ttc", `COURSE {"algo101","bio201"} IN SLOT SAME WEIGHT 1`)
	require.NoError(t, err)

	sink := &capturingSink{}
	require.NoError(t, Compile(file, reg, enc, sink))
	require.Len(t, sink.tags, 1)
}

// TestCompileSameRespectsLaterCourseAntecedent is the regression test
// for the SAME/NOTSAME antecedent-guard bug: a filter that narrows the
// selection must still let a later course that fails the filter go
// unconstrained by the pairing, rather than forcing it to share a
// value regardless. It pins both courses' instructor assignment
// directly (rather than relying on entities.Course's informational
// Instructor field, which the encoder never reads back) so the test
// does not depend on the solver happening to choose a particular
// instructor.
func TestCompileSameRespectsLaterCourseAntecedent(t *testing.T) {
	reg, enc := dslFixtureWithTwoInstructors(t)
	src := `COURSE {"algo101","chem301"} INSTRUCTOR {"adams"} IN SLOT SAME WEIGHT 2147483647`
	file, err := Parser.ParseString("t.ttc", src)
	require.NoError(t, err)

	facade := solver.NewFacade(enc.Alloc.NumVars(), logrus.StandardLogger())
	require.NoError(t, Compile(file, reg, enc, facade))

	// Pin algo101 (course 0) to instructor "adams" (its filter antecedent
	// holds) and chem301 (course 1) away from "adams" (its filter
	// antecedent fails).
	facade.Submit(constraints.CustomConstraint, enc.HasFieldTypeListedValues(0, field.Instructor, []int{0}), constraints.Hard)
	facade.Submit(constraints.CustomConstraint, clause.Not(enc.HasFieldTypeListedValues(1, field.Instructor, []int{0})), constraints.Hard)

	// Force the two courses into different slots. If the SAME pairing
	// leaked onto chem301 despite its antecedent failing, this directly
	// conflicts with the hard SAME constraint and the instance becomes
	// unsatisfiable.
	facade.Submit(constraints.CustomConstraint, enc.HasSameFieldTypeNotSameValue(0, 1, field.Slot), constraints.Hard)

	backend := solver.NewGiniBackend(enc.Alloc.NumVars())
	model, err := facade.Compile(backend)
	require.NoError(t, err, "chem301 failed the INSTRUCTOR filter, so SAME must not bind it to algo101's slot")

	algo101Slot := -1
	chem301Slot := -1
	for v := 0; v < reg.Cardinality(field.Slot); v++ {
		if model.Value(enc.Alloc.AssignVar(0, field.Slot, v)) {
			algo101Slot = v
		}
		if model.Value(enc.Alloc.AssignVar(1, field.Slot, v)) {
			chem301Slot = v
		}
	}
	assert.NotEqual(t, algo101Slot, chem301Slot)
}

func TestWeightOfBoundary(t *testing.T) {
	assert.Equal(t, constraints.Hard, weightOf(int(constraints.Hard)))
	assert.Equal(t, constraints.Weight(5), weightOf(5))
}
