package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "detcon",
	Short: "Run and explore the built-in deterministic-scheduler demo scenarios",
	Long: `detcon drives the scenarios from pkg/sched's test suite (S1-S6) so
they can be watched run, re-explored under a random schedule, and recorded
to a trace file, without writing a Go program to do it. Replaying a recorded
trace is not available from the CLI.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
