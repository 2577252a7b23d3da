// Package allocator materialises a propositional variable for every
// (course, field, value) position and for every (course, field)
// high-level witness (spec.md §3.2, §4.1). It is pure and total: given
// a well-formed entities.Registry it cannot fail.
package allocator

import (
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
)

type assignKey struct {
	course int
	f      field.FieldType
	value  int
}

type highKey struct {
	course int
	f      field.FieldType
}

// Allocator is the single source of variable ids for the rest of the
// compiler. Ids are strictly positive, unique, and dense, assigned in
// deterministic order: by course ascending, then by field in
// field.FieldTypes() order, then by value ascending; high-level
// variables follow all assignment variables in that same order.
type Allocator struct {
	assign map[assignKey]int
	high   map[highKey]int
	total  int
}

// Allocate builds an Allocator over every course/field/value triple and
// every course/field pair present in reg.
func Allocate(reg *entities.Registry) *Allocator {
	a := &Allocator{
		assign: make(map[assignKey]int),
		high:   make(map[highKey]int),
	}

	next := 1
	for c := 0; c < reg.NumCourses(); c++ {
		for _, f := range field.FieldTypes() {
			card := reg.Cardinality(f)
			for v := 0; v < card; v++ {
				a.assign[assignKey{c, f, v}] = next
				next++
			}
		}
	}
	for c := 0; c < reg.NumCourses(); c++ {
		for _, f := range field.FieldTypes() {
			a.high[highKey{c, f}] = next
			next++
		}
	}
	a.total = next - 1
	return a
}

// AssignVar returns the id of X[c,F,v]. It panics if (c,F,v) was not
// present in the Registry the Allocator was built from: every call site
// in this module derives (c,F,v) from the same registry, so an out of
// range lookup indicates a programming error, not user input.
func (a *Allocator) AssignVar(c int, f field.FieldType, v int) int {
	id, ok := a.assign[assignKey{c, f, v}]
	if !ok {
		panic("allocator: no assignment variable for requested (course, field, value)")
	}
	return id
}

// HighVar returns the id of H[c,F].
func (a *Allocator) HighVar(c int, f field.FieldType) int {
	id, ok := a.high[highKey{c, f}]
	if !ok {
		panic("allocator: no high-level variable for requested (course, field)")
	}
	return id
}

// NumVars is the total count of variables allocated, for sizing the
// solver backend.
func (a *Allocator) NumVars() int {
	return a.total
}
