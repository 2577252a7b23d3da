package solver

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/SDey96/Timetabler/pkg/clause"
	"github.com/SDey96/Timetabler/pkg/constraints"
)

// submissionKey identifies a (tag, fragment) pair for idempotent
// resubmission (spec.md §8: "idempotent weight submission"):
// submitting the same fragment twice accumulates its soft weight rather
// than teaching the backend duplicate clauses, and a second hard
// submission of an already-hard fragment is a no-op.
type submissionKey uint64

func keyOf(tag constraints.Tag, f clause.Fragment) submissionKey {
	h, err := hashstructure.Hash(struct {
		Tag     constraints.Tag
		Clauses []clause.Clause
	}{tag, f.Clauses}, nil)
	if err != nil {
		// hashstructure only fails on unsupported types; Fragment and
		// Tag are plain data, so this is unreachable in practice.
		panic(errors.Wrap(err, "solver: hashing submission"))
	}
	return submissionKey(h)
}

// Facade is the solver-facing entry point the constraint adder and the
// DSL compiler both submit to (pkg/constraints.Submitter). It owns
// variable allocation for relaxation literals, defers weight tiering
// and clause teaching to Compile.
type Facade struct {
	log     logrus.FieldLogger
	numVars int

	seen map[submissionKey]*constraints.Weight
	hard []clause.Fragment
	soft []softFragment

	// permanent accumulates the cardinality bounds committed by each
	// tier already minimized, so every later Solve call in Compile
	// remains subject to them.
	permanent []clause.Literal
}

type softFragment struct {
	key      submissionKey
	fragment clause.Fragment
	weight   constraints.Weight
}

// NewFacade returns a Facade ready to receive submissions. numVars is
// the count of variables pkg/allocator already assigned; the facade
// allocates relaxation variables above that range once Compile runs.
func NewFacade(numVars int, log logrus.FieldLogger) *Facade {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Facade{
		log:     log,
		numVars: numVars,
		seen:    make(map[submissionKey]*constraints.Weight),
	}
}

// Submit implements constraints.Submitter.
func (f *Facade) Submit(tag constraints.Tag, frag clause.Fragment, w constraints.Weight) {
	key := keyOf(tag, frag)
	if existing, ok := f.seen[key]; ok {
		if existing.IsHard() || w.IsHard() {
			*existing = constraints.Hard
		} else {
			*existing += w
		}
		return
	}

	wCopy := w
	f.seen[key] = &wCopy
	if w.IsHard() {
		f.hard = append(f.hard, frag)
	} else {
		f.soft = append(f.soft, softFragment{key: key, fragment: frag, weight: w})
	}
}

// Model is a decoded satisfying (or MaxSAT-optimal) assignment: the
// truth value of every allocator variable, indexed by variable id.
type Model struct {
	Values []bool // 1-indexed; Values[0] is unused
}

func (m Model) Value(id int) bool {
	return m.Values[id]
}

// Unsatisfiable is returned when the hard clauses alone admit no model.
type Unsatisfiable struct{}

func (Unsatisfiable) Error() string { return "solver: hard constraints are unsatisfiable" }

// Compile teaches every buffered submission to backend and runs the
// weight-tiered MaxSAT search: hard clauses are asserted directly; soft
// fragments are relaxed with a fresh variable per fragment and those
// relaxation variables are driven to a lexicographically minimal
// violation count, highest weight tier first (spec.md DOMAIN STACK
// DETAIL; grounded on the teacher's solve.go assume/Test/Untest/Solve
// loop over a cardinality sorting network).
func (f *Facade) Compile(backend Backend) (Model, error) {
	timer := prometheus.NewTimer(compileDuration)
	defer timer.ObserveDuration()

	for _, frag := range f.hard {
		for _, c := range frag.Clauses {
			backend.AddClause(c)
		}
	}

	tiers := f.weightTiers(backend)
	tierCount.Set(float64(len(tiers)))

	if !f.solveWithAssumptions(backend, nil) {
		unsatCount.Inc()
		return Model{}, Unsatisfiable{}
	}

	for _, tier := range tiers {
		f.log.WithField("weight", tier.weight).WithField("size", len(tier.relax)).
			Debug("optimizing soft-constraint tier")
		if err := f.minimizeTier(backend, tier); err != nil {
			return Model{}, err
		}
	}

	return f.decode(backend), nil
}

type tier struct {
	weight constraints.Weight
	relax  []clause.Literal
}

// weightTiers relaxes every soft fragment with a fresh variable, teaches
// the implication clauses, and groups the relaxation literals by
// distinct weight value in descending order.
func (f *Facade) weightTiers(backend Backend) []tier {
	byWeight := make(map[constraints.Weight][]clause.Literal)

	for _, sf := range f.soft {
		w := *f.seen[sf.key]
		if w.IsHard() {
			// Accumulation promoted this fragment to hard; treat it as
			// such rather than relaxing it.
			for _, c := range sf.fragment.Clauses {
				backend.AddClause(c)
			}
			continue
		}
		relaxVar := backend.NewVar()
		relax := clause.Literal{Var: relaxVar}
		for _, c := range sf.fragment.Clauses {
			backend.AddClause(append(append([]clause.Literal{}, c...), relax))
		}
		byWeight[w] = append(byWeight[w], relax)
	}

	weights := make([]constraints.Weight, 0, len(byWeight))
	for w := range byWeight {
		weights = append(weights, w)
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i] > weights[j] })

	tiers := make([]tier, len(weights))
	for i, w := range weights {
		tiers[i] = tier{weight: w, relax: byWeight[w]}
	}
	return tiers
}

// solveWithAssumptions resets the backend's assumptions to exactly
// f.permanent plus trial and solves. f.permanent is never mutated here;
// callers that accept a trial bound append it themselves.
func (f *Facade) solveWithAssumptions(backend Backend, trial []clause.Literal) bool {
	backend.ClearAssumptions()
	backend.Assume(f.permanent)
	backend.Assume(trial)
	return backend.Solve()
}

// minimizeTier finds the minimal number of t's relaxation literals that
// can be true while the formula remains satisfiable under every
// previously committed tier bound, then commits that bound to
// f.permanent so later (lower-weight) tiers optimize subject to it.
// Mirrors the teacher's solve.go `for w := 0; w <= cs.N(); w++` search
// over a cardinality sorting network's Leq literals.
func (f *Facade) minimizeTier(backend Backend, t tier) error {
	card := newCardinality(backend, t.relax)
	for k := 0; k <= card.N(); k++ {
		lit, ok := card.Leq(k)
		var trial []clause.Literal
		if ok {
			trial = []clause.Literal{lit}
		}
		if f.solveWithAssumptions(backend, trial) {
			f.permanent = append(f.permanent, trial...)
			return nil
		}
	}
	return fmt.Errorf("solver: internal error optimizing tier with weight %v", t.weight)
}

func (f *Facade) decode(backend Backend) Model {
	values := make([]bool, f.numVars+1)
	for v := 1; v <= f.numVars; v++ {
		values[v] = backend.Value(v)
	}
	return Model{Values: values}
}
