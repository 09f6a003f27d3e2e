package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/importexport/history"
)

var historyFlags struct {
	project int64
	status  string
	limit   int
	output  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past export attempts",
	Long: `List recorded export attempts, newest first.

Examples:
  portage history
  portage history --project 42 --status failed
  portage history --limit 5 --output json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Int64Var(&historyFlags.project, "project", 0, "filter by project ID")
	historyCmd.Flags().StringVar(&historyFlags.status, "status", "", "filter by status: finished, failed, after_export_failed")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "max entries")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return err
	}

	status := history.Status(historyFlags.status)
	switch status {
	case "", history.StatusFinished, history.StatusFailed, history.StatusAfterExportFailed:
	default:
		return errors.New("invalid --status (use finished, failed or after_export_failed)")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.historyStore()
	if err != nil {
		return err
	}
	if store == nil {
		return cli.NewConfigError("history.enabled", "export history is disabled")
	}

	entries, err := store.List(cmd.Context(), history.Filter{
		ProjectID: historyFlags.project,
		Status:    status,
		Limit:     historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	table := cli.Table{Headers: []string{"ID", "Project", "Status", "Started", "Duration", "Errors"}}
	for _, e := range entries {
		table.Append(
			e.ID,
			e.ProjectPath+" ("+strconv.FormatInt(e.ProjectID, 10)+")",
			string(e.Status),
			e.StartedAt.Local().Format(time.DateTime),
			e.Duration().Round(time.Millisecond).String(),
			strings.Join(e.Errors, "; "),
		)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}
