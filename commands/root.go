// Package commands builds the cobra command tree and orchestrates the
// parse, filter, format pipeline over pytest HTML reports.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/wvsac/Report-Miner/config"
)

// Flags holds every command line flag of the root command
type Flags struct {
	Format     string
	Status     string
	Output     string
	Unique     bool
	Sort       bool
	Count      bool
	Copy       bool
	Diff       bool
	View       bool
	Group      bool
	Rerun      bool
	ClearCache bool
}

// NewRootCommand creates the root command with all flags registered
func NewRootCommand(cfg config.Config) *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "reportminer [report.html|directory]...",
		Short: "Mine pytest HTML reports",
		Long: `Parse one or more pytest-html reports and extract the tests matching the
given status filter, formatted for pytest reruns, ticket systems, or an
interactive terminal viewer.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newRunCommand(cfg, &flags).Execute(cmd, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&flags.Format, "format", "f", cfg.DefaultFormat,
		"output format: raw, pytest, names, full, detailed, jira, jira-md, wiki")
	fl.StringVarP(&flags.Status, "status", "s", cfg.DefaultStatus,
		"comma separated statuses to keep, or \"all\"")
	fl.StringVarP(&flags.Output, "output", "o", "", "write output to a file instead of stdout")
	fl.BoolVarP(&flags.Unique, "unique", "u", false, "collapse repeated identifier/status pairs")
	fl.BoolVarP(&flags.Sort, "sort", "S", false, "sort output by identifier")
	fl.BoolVarP(&flags.Count, "count", "c", false, "print only the number of matching tests")
	fl.BoolVar(&flags.Copy, "copy", false, "copy output to the clipboard")
	fl.BoolVar(&flags.Diff, "diff", false, "compare two reports: <old> <new>")
	fl.BoolVarP(&flags.View, "view", "v", false, "open the interactive viewer")
	fl.BoolVarP(&flags.Group, "group", "g", false, "group output by failure reason")
	fl.BoolVarP(&flags.Rerun, "rerun", "r", false, "print a pytest command rerunning the matching tests")
	fl.BoolVar(&flags.ClearCache, "clear-cache", false, "remove all cached ticket lookups")

	return cmd
}
