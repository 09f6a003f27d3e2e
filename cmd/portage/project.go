package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"drepo-hq/portage/pkg/cli"
	"drepo-hq/portage/pkg/project"
)

var projectFlags struct {
	manifest string
	output   string
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage registered projects",
	Long: `Register projects from manifest files and list them.

A manifest describes where the project's data lives:

  name: Demo
  namespace: group
  path: demo
  repository_path: /srv/git/group/demo.git
  wiki_path: /srv/git/group/demo.wiki.git
  uploads_path: /srv/uploads/group/demo
  avatar_path: /srv/uploads/group/demo/avatar.png`,
}

var projectRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register or update a project from a manifest",
	RunE:  runProjectRegister,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	RunE:  runProjectList,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectRegisterCmd, projectListCmd)

	projectRegisterCmd.Flags().StringVarP(&projectFlags.manifest, "manifest", "m", "", "project manifest file")
	_ = projectRegisterCmd.MarkFlagRequired("manifest")

	projectListCmd.Flags().StringVarP(&projectFlags.output, "output", "o", "text", "output format: text, json, yaml, csv")
}

func runProjectRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := project.LoadManifest(projectFlags.manifest)
	if err != nil {
		return cli.NewCommandError("project register", err)
	}

	store, err := a.projectStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if existing, err := store.GetByFullPath(ctx, p.FullPath()); err == nil && p.ID == 0 {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}

	if err := store.Save(ctx, p); err != nil {
		return cli.NewCommandError("project register", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ registered %s (ID %d)\n", p.FullPath(), p.ID)
	return nil
}

func runProjectList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(projectFlags.output)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	store, err := a.projectStore()
	if err != nil {
		return err
	}

	projects, err := store.List(cmd.Context())
	if err != nil {
		return cli.NewCommandError("project list", err)
	}

	table := cli.Table{Headers: []string{"ID", "Path", "Name", "Repository"}}
	for _, p := range projects {
		table.Append(strconv.FormatInt(p.ID, 10), p.FullPath(), p.Name, p.RepositoryPath)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
}
