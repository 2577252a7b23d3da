package constraints

import "fmt"

// Weight is a submission weight: math.MaxInt32 denotes a hard clause
// (spec.md §4.4), any lesser non-negative value a soft penalty.
type Weight int

// Hard is the +∞ sentinel: every model must satisfy clauses submitted
// at this weight.
const Hard Weight = 1<<31 - 1

// IsHard reports whether w is the hard sentinel.
func (w Weight) IsHard() bool {
	return w == Hard
}

// Table maps a Tag to its configured weight. A missing entry for a tag
// Add needs is a configuration error (spec.md §7.1), not a silent
// default, since a typo'd tag in the weights file would otherwise
// silently drop a rule.
type Table map[Tag]Weight

// MissingWeight reports a Tag absent from a Table when Add needed it.
type MissingWeight Tag

func (e MissingWeight) Error() string {
	return fmt.Sprintf("constraints: no weight configured for tag %q", Tag(e))
}

func (t Table) weightOf(tag Tag) (Weight, error) {
	w, ok := t[tag]
	if !ok {
		return 0, MissingWeight(tag)
	}
	return w, nil
}
