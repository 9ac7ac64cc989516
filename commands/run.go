package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wvsac/Report-Miner/clipboard"
	"github.com/wvsac/Report-Miner/config"
	"github.com/wvsac/Report-Miner/diff"
	"github.com/wvsac/Report-Miner/filter"
	"github.com/wvsac/Report-Miner/format"
	"github.com/wvsac/Report-Miner/jira"
	"github.com/wvsac/Report-Miner/progress"
	"github.com/wvsac/Report-Miner/report"
	"github.com/wvsac/Report-Miner/tui"
)

// runCommand executes the root command pipeline
type runCommand struct {
	cfg   config.Config
	flags *Flags
}

func newRunCommand(cfg config.Config, flags *Flags) *runCommand {
	return &runCommand{cfg: cfg, flags: flags}
}

// Execute runs the full pipeline for one invocation
func (rc *runCommand) Execute(cmd *cobra.Command, args []string) error {
	if rc.flags.ClearCache {
		cache := jira.NewCache(rc.cfg.CacheDir, rc.cfg.CacheTTL)
		removed := cache.Clear()
		progress.Noticef("Removed %d cached ticket(s)", removed)
		if len(args) == 0 {
			return nil
		}
	}

	if rc.flags.Diff {
		return rc.runDiff(args)
	}

	if len(args) == 0 {
		return fmt.Errorf("no report files given")
	}

	outputFormat, err := format.ParseFormat(rc.flags.Format)
	if err != nil {
		return err
	}
	spec, err := parseStatusSpec(rc.flags.Status)
	if err != nil {
		return err
	}

	records, err := rc.parseReports(args)
	if err != nil {
		return err
	}

	if rc.flags.Unique {
		records = filter.Deduplicate(records)
	}
	view := filter.Apply(records, spec, nil)
	if rc.flags.Sort {
		view = filter.SortByIdentifier(view)
	}

	if rc.flags.View {
		return tui.Run(records, spec, rc.cfg)
	}
	if len(view) == 0 {
		progress.Noticef("No tests found matching criteria.")
		return nil
	}
	if rc.flags.Count {
		fmt.Println(len(view))
		return nil
	}

	var text string
	if rc.flags.Rerun {
		text = format.RerunCommand(view, rc.cfg.RerunTemplate)
	} else {
		text = rc.newRenderer(outputFormat).Render(view, outputFormat, rc.flags.Group)
	}
	return rc.deliver(text, len(view))
}

// runDiff compares exactly two report files and prints the classification
func (rc *runCommand) runDiff(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("--diff requires exactly 2 report files, got %d", len(args))
	}
	parser := report.NewParser(rc.cfg.TicketPrefix)
	old, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	current, err := parser.ParseFile(args[1])
	if err != nil {
		return err
	}
	fmt.Println(diff.Report(diff.Classify(old, current)))
	return nil
}

// parseReports collects and parses every report under the given paths
func (rc *runCommand) parseReports(args []string) (report.Snapshot, error) {
	files, err := report.CollectHTMLFiles(args)
	if err != nil {
		return nil, err
	}
	parser := report.NewParser(rc.cfg.TicketPrefix)
	bar := progress.New(len(files), "Parsing reports")
	records, err := parser.ParseFiles(files, bar.Step)
	bar.Finish()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// newRenderer wires a ticket resolver when the format needs one
func (rc *runCommand) newRenderer(f format.Format) *format.Renderer {
	if !f.NeedsResolution() {
		return format.NewRenderer(nil)
	}
	cache := jira.NewCache(rc.cfg.CacheDir, rc.cfg.CacheTTL)
	client := jira.NewClient(jira.Options{
		BaseURL:    rc.cfg.JiraBaseURL,
		Email:      rc.cfg.JiraEmail,
		Token:      rc.cfg.JiraToken,
		StepsField: rc.cfg.JiraStepsField,
	}, cache)
	return format.NewRenderer(jira.NewResolver(context.Background(), client))
}

// deliver writes the rendered text to a file, the clipboard, or stdout
func (rc *runCommand) deliver(text string, count int) error {
	if rc.flags.Output != "" {
		if err := os.WriteFile(rc.flags.Output, []byte(text+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rc.flags.Output, err)
		}
		progress.Noticef("Wrote %d test(s) to %s", count, rc.flags.Output)
		return nil
	}
	if rc.flags.Copy {
		if clipboard.Copy(text) {
			progress.Noticef("Copied %d test(s) to clipboard", count)
		} else {
			progress.Noticef("(clipboard copy failed)")
			fmt.Println(text)
		}
		return nil
	}
	fmt.Println(text)
	return nil
}

// parseStatusSpec converts the --status flag into a filter spec
func parseStatusSpec(value string) (filter.Spec, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || value == "all" {
		return filter.AllStatuses(), nil
	}
	var statuses []report.Status
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		status, err := report.ParseStatus(name)
		if err != nil {
			return filter.Spec{}, err
		}
		statuses = append(statuses, status)
	}
	return filter.ByStatus(statuses...), nil
}
