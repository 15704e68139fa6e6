// commit.go implements the "sdkrel commit" command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// commitFlags holds the flag values for the commit command.
type commitFlags struct {
	newVersion string // --new: version used for the commit message
}

// NewCommitCommand creates the "commit" cobra command.
func NewCommitCommand() *cobra.Command {
	flags := &commitFlags{}

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit the version change in every repository",
		Long: `Commit pending changes in every constellation repository with the
message "v<new>". Repositories with a clean working tree are skipped;
a clean tree is a normal outcome, not an error.

Example:
  sdkrel commit --new 0.22.18`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := model.ParseVersion(flags.newVersion)
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid version", err)
			}

			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			return runCommitStage(cfg, v)
		},
	}

	cmd.Flags().StringVarP(&flags.newVersion, "new", "n", "", "New release version")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

// repoCommit describes the commit outcome for one repository.
type repoCommit struct {
	Repo      string `json:"repo"`
	Committed bool   `json:"committed"`
}

// runCommitStage commits the pending change in each repository.
// Shared by the commit and do commands.
func runCommitStage(cfg *config.Constellation, v model.Version) error {
	git := gitops.NewClient()

	var results []repoCommit
	for _, repo := range cfg.Repos {
		dir := cfg.Dir(repo)

		dirty, err := git.HasChanges(dir)
		if err != nil {
			return err
		}

		if !dirty {
			if !IsJSONOutput() {
				fmt.Printf("%s: nothing to commit\n", repo.Name)
			}
			results = append(results, repoCommit{Repo: repo.Name})
			continue
		}

		if !IsJSONOutput() {
			fmt.Printf("Committing in: %s\n", dir)
		}
		if err := git.Commit(dir, v.Tag()); err != nil {
			return err
		}
		results = append(results, repoCommit{Repo: repo.Name, Committed: true})
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Println(color.GreenString("Committed %s", v.Tag()))
	}
	return nil
}
