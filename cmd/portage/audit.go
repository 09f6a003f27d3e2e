package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/config"
	"drepo-hq/portage/pkg/importexport/attributes"
)

var auditFlags struct {
	rules   string
	safe    []string
	columns string
	output  string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Find exportable attributes nobody has classified",
	Long: `Compare the columns of every exported entity against the safe-attribute
lists and the excluded attributes of the rules file.

A column that is neither safe nor excluded would be exported without anyone
having reviewed it. The command lists such columns and exits with status 1
when any are found.

Both --safe and --columns files map an entity to a list of field names:

  project:
    - id
    - name

Several --safe files are merged.

Examples:
  portage audit --safe safe_attributes.yml --columns columns.yml
  portage audit --safe safe.yml --safe safe_ee.yml --columns columns.yml --output json`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditFlags.rules, "rules", "", "attribute rules file (default from config)")
	auditCmd.Flags().StringArrayVar(&auditFlags.safe, "safe", nil, "safe-attribute list file (repeatable)")
	auditCmd.Flags().StringVar(&auditFlags.columns, "columns", "", "entity column list file")
	auditCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
	_ = auditCmd.MarkFlagRequired("safe")
	_ = auditCmd.MarkFlagRequired("columns")
}

func runAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(auditFlags.output)
	if err != nil {
		return err
	}

	rulesPath := auditFlags.rules
	if rulesPath == "" {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return cli.NewConfigError(cfgFile, err.Error())
		}
		rulesPath = cfg.Export.AttributesFile
	}

	rules, err := attributes.LoadFile(rulesPath)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	safe, err := mergeFieldLists(auditFlags.safe)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	columns, err := attributes.LoadFieldLists(auditFlags.columns)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	findings := attributes.NewAuditor(attributes.NewReader(rules).Finder(), safe).Audit(columns)

	table := cli.Table{Headers: []string{"Entity", "Attributes"}}
	for _, f := range findings {
		table.Append(f.Entity, strings.Join(f.Attributes, ","))
	}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table); err != nil {
		return err
	}

	if len(findings) > 0 {
		return cli.NewExitError(1,
			"%d entities have attributes that are neither safe nor excluded; add them to a safe list or to excluded_attributes",
			len(findings))
	}
	if format == cli.FormatText {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ every exported attribute is classified")
	}
	return nil
}

// mergeFieldLists loads and unions several field list files.
func mergeFieldLists(paths []string) (map[string][]string, error) {
	merged := make(map[string][]string)
	seen := make(map[string]map[string]bool)

	for _, path := range paths {
		lists, err := attributes.LoadFieldLists(path)
		if err != nil {
			return nil, err
		}
		for entity, fields := range lists {
			if seen[entity] == nil {
				seen[entity] = make(map[string]bool)
			}
			for _, field := range fields {
				if !seen[entity][field] {
					seen[entity][field] = true
					merged[entity] = append(merged[entity], field)
				}
			}
		}
	}
	return merged, nil
}
