package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SDey96/Timetabler/internal/loader"
	"github.com/SDey96/Timetabler/internal/result"
	"github.com/SDey96/Timetabler/pkg/allocator"
	"github.com/SDey96/Timetabler/pkg/constraints"
	"github.com/SDey96/Timetabler/pkg/dsl"
	"github.com/SDey96/Timetabler/pkg/encoder"
	"github.com/SDey96/Timetabler/pkg/entities"
	"github.com/SDey96/Timetabler/pkg/field"
	"github.com/SDey96/Timetabler/pkg/solver"
)

// exitCode distinguishes the three outcomes spec.md §6.4 names.
type exitCode int

const (
	exitSolved      exitCode = 0
	exitParseError  exitCode = 1
	exitUnsatOrTime exitCode = 2
)

// codedError lets RunE report which exit code an error corresponds to,
// since cobra itself only distinguishes error/no-error.
type codedError struct {
	code exitCode
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	if ce, ok := err.(*codedError); ok {
		return int(ce.code)
	}
	return 1
}

func newCompileCmd(log logrus.FieldLogger) *cobra.Command {
	var (
		fieldsPath  string
		coursesPath string
		customPath  string
		deadline    time.Duration
		dumpVars    bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "compile a timetable instance and solve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, log, fieldsPath, coursesPath, customPath, deadline, dumpVars)
		},
	}

	cmd.Flags().StringVar(&fieldsPath, "fields", "", "path to the fields YAML descriptor")
	cmd.Flags().StringVar(&coursesPath, "courses", "", "path to the course CSV table")
	cmd.Flags().StringVar(&customPath, "custom-constraints", "", "path to an optional custom-constraint file (spec.md §4.5)")
	cmd.Flags().DurationVar(&deadline, "deadline", 0, "abort the solve after this long (0 disables the deadline)")
	cmd.Flags().BoolVar(&dumpVars, "dump-vars", false, "print the assign/high variable id table instead of solving")
	for _, required := range []string{"fields", "courses"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			log.Fatalf("ttc: failed to mark --%s required", required)
		}
	}

	return cmd
}

func runCompile(cmd *cobra.Command, log logrus.FieldLogger, fieldsPath, coursesPath, customPath string, deadline time.Duration, dumpVars bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	loaded, err := loader.Load(ctx, loader.Config{
		FieldsPath:           fieldsPath,
		CoursesPath:          coursesPath,
		CustomConstraintPath: customPath,
	}, log)
	if err != nil {
		return &codedError{exitParseError, err}
	}

	alloc := allocator.Allocate(loaded.Registry)

	if dumpVars {
		dumpVariables(cmd, loaded.Registry, alloc)
		return nil
	}

	enc := encoder.New(loaded.Registry, alloc)
	facade := solver.NewFacade(alloc.NumVars(), log)

	if err := constraints.Add(loaded.Registry, enc, loaded.Weights, facade); err != nil {
		return &codedError{exitParseError, err}
	}

	if loaded.CustomConstraintPath != "" {
		if err := compileCustomConstraints(loaded.CustomConstraintPath, loaded.Registry, enc, facade); err != nil {
			return &codedError{exitParseError, err}
		}
	}

	backend := solver.NewGiniBackend(alloc.NumVars())
	var model solver.Model
	done := make(chan error, 1)
	go func() {
		var solveErr error
		model, solveErr = facade.Compile(backend)
		done <- solveErr
	}()
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("ttc: solve aborted: %w", ctx.Err())
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return &codedError{exitUnsatOrTime, err}
	}

	assignments := result.Decode(loaded.Registry, alloc, model)
	fmt.Fprint(cmd.OutOrStdout(), result.Render(loaded.Registry, assignments))
	return nil
}

// compileCustomConstraints parses path per spec.md §4.5.1 and submits
// each weighted constraint it contains. A grammar mismatch or unknown
// entity reference is fatal (spec.md §4.5.3): reported once, surfaced
// to the caller for exit code 1.
func compileCustomConstraints(path string, reg *entities.Registry, enc *encoder.Encoder, facade *solver.Facade) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ttc: reading custom-constraint file: %w", err)
	}

	file, err := dsl.Parser.ParseBytes(path, data)
	if err != nil {
		return fmt.Errorf("ttc: parsing %s: %w", path, err)
	}

	return dsl.Compile(file, reg, enc, facade)
}

// dumpVariables prints, for every course, every field/value pair and
// its allocated assign-variable id, followed by each field's
// high-level witness variable id — the Go analogue of
// original_source/src/main.cpp's pre-solve diagnostics dump
// (SPEC_FULL.md supplemental feature 3).
func dumpVariables(cmd *cobra.Command, reg *entities.Registry, alloc *allocator.Allocator) {
	out := cmd.OutOrStdout()
	for c, course := range reg.Courses {
		fmt.Fprintf(out, "course %s:\n", course.Name)
		for _, f := range field.FieldTypes() {
			card := reg.Cardinality(f)
			for v := 0; v < card; v++ {
				fmt.Fprintf(out, "  %s[%d] = var %d\n", f, v, alloc.AssignVar(c, f, v))
			}
			fmt.Fprintf(out, "  H(%s) = var %d\n", f, alloc.HighVar(c, f))
		}
	}
}
