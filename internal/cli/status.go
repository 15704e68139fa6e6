// status.go implements the "sdkrel status" command: a per-repository
// overview of the constellation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
	"github.com/mmr-tortoise/sdkrel/internal/manifest"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every repository's branch, state, and manifest version",
		Long: `Show a per-repository overview of the constellation: path, current
branch, whether the working tree is dirty, and the version recorded in
the repository's manifests.

Examples:
  sdkrel status
  sdkrel status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			return runStatus(cfg)
		},
	}

	return cmd
}

// repoStatus is one row of the status overview.
type repoStatus struct {
	Repo    string `json:"repo"`
	Path    string `json:"path"`
	Branch  string `json:"branch,omitempty"`
	Dirty   bool   `json:"dirty"`
	Version string `json:"version,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

func runStatus(cfg *config.Constellation) error {
	git := gitops.NewClient()

	var rows []repoStatus
	for _, repo := range cfg.Repos {
		rows = append(rows, collectStatus(cfg, git, repo))
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Repo", "Path", "Branch", "State", "Version"})
	for _, r := range rows {
		state := "clean"
		if r.Missing {
			state = "missing"
		} else if r.Dirty {
			state = "dirty"
		}
		version := r.Version
		if version == "" {
			version = "-"
		}
		branch := r.Branch
		if branch == "" {
			branch = "-"
		}
		t.AppendRow(table.Row{r.Repo, r.Path, branch, state, version})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// collectStatus gathers one repository's overview row. Problems with a
// single repository (missing checkout, unreadable manifest) degrade to
// "-" / "missing" rather than failing the whole overview.
func collectStatus(cfg *config.Constellation, git *gitops.Client, repo config.Repo) repoStatus {
	dir := cfg.Dir(repo)
	row := repoStatus{Repo: repo.Name, Path: dir}

	if !git.IsRepo(dir) {
		row.Missing = true
		return row
	}

	if branch, err := git.CurrentBranch(dir); err == nil {
		row.Branch = branch
	}
	if dirty, err := git.HasChanges(dir); err == nil {
		row.Dirty = dirty
	}

	// First manifest that knows its own version wins; Package.swift
	// carries only the native pin and is skipped by manifest.Version.
	for _, m := range repo.Manifests {
		if m.Kind == model.KindPackageSwift {
			continue
		}
		if v, err := manifest.Version(cfg.ManifestPath(repo, m), m.Kind); err == nil {
			row.Version = v
			break
		}
	}

	return row
}
