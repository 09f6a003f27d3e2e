/*
Package cli provides the helpers shared by the portage commands.

Output Formatting:

Command results are printed as text, JSON, YAML or CSV. Tabular results use
Table so that every format renders them sensibly:

	table := cli.Table{Headers: []string{"ENTITY", "ATTRIBUTES"}}
	table.Append("project", "runners_token")
	if err := cli.NewFormatter(cli.FormatText).FormatTo(os.Stdout, table); err != nil {
		return err
	}

Progress Reporting:

Export stages are reported on a single, redrawn line:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(7)
	progress.Update(3, "uploads")
	progress.Finish()

Signal Handling:

Long-running commands stop on SIGINT or SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

Errors:

ExitError carries the process exit code of a command that completed but
must report failure, such as an audit with findings.
*/
package cli
