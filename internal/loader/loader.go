// Package loader implements the data-loader contract of spec.md §6.1:
// it supplies entity slices, a tag→weight table, and an optional
// custom-constraint file path to the rest of the compiler. Grounded on
// the teacher's use of golang.org/x/sync/errgroup for concurrent
// independent reads (pkg/controller/operators/labeller/filters.go) and
// github.com/mitchellh/mapstructure for loose decoding
// (pkg/lib/codec/mapstructure.go), with YAML parsed by
// gopkg.in/yaml.v2 into a generic map first so mapstructure can apply
// its own field-name matching independent of yaml.v2's own tag
// conventions.
//
// File formats here follow original_source/src/main.cpp's
// config/fields.yml + config/input.csv split: a YAML field/weight
// descriptor and a CSV course table. The CSV parse and the YAML parse
// are independent of each other, so Load runs them concurrently and
// only resolves the CSV's name columns against the YAML's entity lists
// once both have returned.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/SDey96/Timetabler/pkg/constraints"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
)

// Config names the input files a Load call reads. CustomConstraintPath
// may be empty: spec.md §6.1 says it is optional.
type Config struct {
	FieldsPath           string
	CoursesPath          string
	CustomConstraintPath string
}

// Result bundles everything Load produces: a fully built Registry, the
// rule weight table, and the custom-constraint path (unread here — the
// caller reads the file and hands its bytes to pkg/dsl) passed through.
type Result struct {
	Registry             *entities.Registry
	Weights              constraints.Table
	CustomConstraintPath string
}

// fieldsDoc is the loose shape of the fields YAML descriptor, decoded
// first into map[string]interface{} by yaml.v2, then re-decoded into
// this struct by mapstructure so tag names don't have to satisfy
// yaml.v2's own unmarshal-key matching rules.
type fieldsDoc struct {
	Instructors     []string       `mapstructure:"instructors"`
	Classrooms      []string       `mapstructure:"classrooms"`
	Slots           []slotDoc      `mapstructure:"slots"`
	Segments        []string       `mapstructure:"segments"`
	Programs        []string       `mapstructure:"programs"`
	MinorLabels     []string       `mapstructure:"minorLabels"`
	MinorIndex      int            `mapstructure:"minorIndex"`
	SegmentOverlaps [][2]int       `mapstructure:"segmentOverlaps"`
	Weights         map[string]int `mapstructure:"weights"`
}

type slotDoc struct {
	Name        string `mapstructure:"name"`
	IsMinorSlot bool   `mapstructure:"isMinorSlot"`
	IsMorning   bool   `mapstructure:"isMorning"`
}

// courseRow is one CSV record, parsed but not yet resolved against the
// fields descriptor's entity name tables.
type courseRow struct {
	name             string
	classroom        string
	instructor       string
	segment          string
	corePrograms     []string
	electivePrograms []string

	// existingSlot and existingClassroom are the optional
	// existing_slot/existing_classroom columns: a course's incumbent
	// slot/classroom from a prior term, feeding the
	// existingAssignmentPreferred soft rule. Empty when the course has
	// no recorded prior assignment for that field.
	existingSlot      string
	existingClassroom string
}

// Load reads cfg's files concurrently and assembles a Result.
// Configuration errors (spec.md §7 category 1) are returned, never
// panicked.
func Load(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Result, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var doc fieldsDoc
	var rows []courseRow

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := readFieldsDoc(cfg.FieldsPath)
		if err != nil {
			return errors.Wrap(err, "loader: reading fields descriptor")
		}
		doc = d
		return nil
	})
	g.Go(func() error {
		rs, err := readCourseRows(cfg.CoursesPath)
		if err != nil {
			return errors.Wrap(err, "loader: reading course table")
		}
		rows = rs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	instructors := toInstructors(doc.Instructors)
	classrooms := toClassrooms(doc.Classrooms)
	programs := toPrograms(doc.Programs)
	minorLabels := toMinorLabels(doc.MinorLabels)
	segments := toSegments(doc.Segments)
	slots := toSlots(doc.Slots)

	slotNames := make([]string, len(doc.Slots))
	for i, s := range doc.Slots {
		slotNames[i] = s.Name
	}
	courses, err := resolveCourses(rows, doc.Instructors, doc.Classrooms, doc.Segments, doc.Programs, slotNames)
	if err != nil {
		return nil, err
	}

	reg, err := entities.NewRegistry(courses, instructors, classrooms, slots, segments, programs, minorLabels, doc.MinorIndex, doc.SegmentOverlaps)
	if err != nil {
		return nil, errors.Wrap(err, "loader: building registry")
	}

	weights := make(constraints.Table, len(doc.Weights))
	for tag, w := range doc.Weights {
		weights[constraints.Tag(tag)] = weightValue(w)
	}

	log.WithField("courses", len(courses)).
		WithField("instructors", len(instructors)).
		WithField("classrooms", len(classrooms)).
		Info("loaded timetable instance")

	return &Result{Registry: reg, Weights: weights, CustomConstraintPath: cfg.CustomConstraintPath}, nil
}

// weightValue maps a raw YAML integer to a constraints.Weight, treating
// any negative value as the hard sentinel: the fields descriptor has no
// native +∞ literal, so a negative weight is this loader's convention
// for "hard" (documented in DESIGN.md).
func weightValue(raw int) constraints.Weight {
	if raw < 0 {
		return constraints.Hard
	}
	return constraints.Weight(raw)
}

func readFieldsDoc(path string) (fieldsDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return fieldsDoc{}, err
	}
	defer f.Close()

	var raw map[string]interface{}
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return fieldsDoc{}, err
	}

	var doc fieldsDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fieldsDoc{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return fieldsDoc{}, err
	}
	return doc, nil
}

// readCourseRows parses the CSV course table: one row per course, with
// required columns name,classroom,instructor,segment and optional
// semicolon-delimited columns core_programs,elective_programs.
func readCourseRows(path string) ([]courseRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, required := range []string{"name", "classroom", "instructor", "segment"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("loader: course table missing required column %q", required)
		}
	}

	optional := func(row []string, name string) []string {
		i, ok := col[name]
		if !ok || i >= len(row) || row[i] == "" {
			return nil
		}
		return strings.Split(row[i], ";")
	}

	var rows []courseRow
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var existingSlot, existingClassroom string
		if vs := optional(row, "existing_slot"); len(vs) > 0 {
			existingSlot = vs[0]
		}
		if vs := optional(row, "existing_classroom"); len(vs) > 0 {
			existingClassroom = vs[0]
		}

		rows = append(rows, courseRow{
			name:              row[col["name"]],
			classroom:         row[col["classroom"]],
			instructor:        row[col["instructor"]],
			segment:           row[col["segment"]],
			corePrograms:      optional(row, "core_programs"),
			electivePrograms:  optional(row, "elective_programs"),
			existingSlot:      existingSlot,
			existingClassroom: existingClassroom,
		})
	}
	return rows, nil
}

// UnknownEntity is a configuration error: a course row names an
// instructor/classroom/segment/program the fields descriptor never
// declared (spec.md §7 category 1).
type UnknownEntity struct {
	Column string
	Course string
	Name   string
}

func (e *UnknownEntity) Error() string {
	return fmt.Sprintf("loader: course %q references unknown %s %q", e.Course, e.Column, e.Name)
}

func resolveCourses(rows []courseRow, instructors, classrooms, segments, programs, slots []string) ([]entities.Course, error) {
	instructorIdx := indexOf(instructors)
	classroomIdx := indexOf(classrooms)
	segmentIdx := indexOf(segments)
	programIdx := indexOf(programs)
	slotIdx := indexOf(slots)

	courses := make([]entities.Course, len(rows))
	for i, row := range rows {
		classroom, ok := classroomIdx[row.classroom]
		if !ok {
			return nil, &UnknownEntity{Column: "classroom", Course: row.name, Name: row.classroom}
		}
		instructor, ok := instructorIdx[row.instructor]
		if !ok {
			return nil, &UnknownEntity{Column: "instructor", Course: row.name, Name: row.instructor}
		}
		segment, ok := segmentIdx[row.segment]
		if !ok {
			return nil, &UnknownEntity{Column: "segment", Course: row.name, Name: row.segment}
		}

		var roles []entities.ProgramRole
		for _, name := range row.corePrograms {
			p, ok := programIdx[name]
			if !ok {
				return nil, &UnknownEntity{Column: "core_programs", Course: row.name, Name: name}
			}
			roles = append(roles, entities.ProgramRole{Program: p, Role: entities.Core})
		}
		for _, name := range row.electivePrograms {
			p, ok := programIdx[name]
			if !ok {
				return nil, &UnknownEntity{Column: "elective_programs", Course: row.name, Name: name}
			}
			roles = append(roles, entities.ProgramRole{Program: p, Role: entities.Elective})
		}

		existing := make(map[field.FieldType]int)
		if row.existingSlot != "" {
			v, ok := slotIdx[row.existingSlot]
			if !ok {
				return nil, &UnknownEntity{Column: "existing_slot", Course: row.name, Name: row.existingSlot}
			}
			existing[field.Slot] = v
		}
		if row.existingClassroom != "" {
			v, ok := classroomIdx[row.existingClassroom]
			if !ok {
				return nil, &UnknownEntity{Column: "existing_classroom", Course: row.name, Name: row.existingClassroom}
			}
			existing[field.Classroom] = v
		}

		courses[i] = entities.Course{
			Name:       row.name,
			Classroom:  classroom,
			Instructor: instructor,
			Segment:    segment,
			Programs:   roles,
			Existing:   existing,
		}
	}
	return courses, nil
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

func toInstructors(names []string) []entities.Instructor {
	out := make([]entities.Instructor, len(names))
	for i, n := range names {
		out[i] = entities.Instructor{Name: n}
	}
	return out
}

func toClassrooms(names []string) []entities.Classroom {
	out := make([]entities.Classroom, len(names))
	for i, n := range names {
		out[i] = entities.Classroom{Name: n}
	}
	return out
}

func toPrograms(names []string) []entities.Program {
	out := make([]entities.Program, len(names))
	for i, n := range names {
		out[i] = entities.Program{Name: n}
	}
	return out
}

func toMinorLabels(names []string) []entities.MinorLabel {
	out := make([]entities.MinorLabel, len(names))
	for i, n := range names {
		out[i] = entities.MinorLabel{Name: n}
	}
	return out
}

func toSegments(names []string) []entities.SegmentRecord {
	out := make([]entities.SegmentRecord, len(names))
	for i, n := range names {
		out[i] = entities.SegmentRecord{Name: n}
	}
	return out
}

func toSlots(docs []slotDoc) []entities.Slot {
	out := make([]entities.Slot, len(docs))
	for i, d := range docs {
		out[i] = entities.Slot{Name: d.Name, IsMinorSlot: d.IsMinorSlot, IsMorning: d.IsMorning}
	}
	return out
}
