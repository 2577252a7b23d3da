// Command ttc is the timetable constraint compiler's CLI entry point:
// a single `compile` subcommand that loads entities and weights,
// assembles the predefined rule catalogue plus any custom-constraint
// file, and reports a solved model or the reason it could not find one
// (spec.md §6.4 exit codes). Grounded on the teacher's
// cmd/operator-cli/main.go root-command shape.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	log := logrus.StandardLogger()

	root := &cobra.Command{
		Use:   "ttc",
		Short: "ttc",
		Long:  "ttc compiles scheduling entities and rules into a weighted propositional formula and solves it.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(newCompileCmd(log))

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
