// push.go implements the "sdkrel push" command.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
)

// NewPushCommand creates the "push" cobra command.
func NewPushCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push every repository to its upstream",
		Long: `Run "git push" in each constellation repository, in configuration
order, stopping at the first failure.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}
			return runPushStage(cfg)
		},
	}

	return cmd
}

// runPushStage pushes each repository. Shared by push and do.
func runPushStage(cfg *config.Constellation) error {
	git := gitops.NewClient()

	for _, repo := range cfg.Repos {
		dir := cfg.Dir(repo)
		if !IsJSONOutput() {
			fmt.Printf("Pushing in: %s\n", dir)
		}
		if err := git.Push(dir); err != nil {
			return err
		}
	}

	if !IsJSONOutput() {
		fmt.Println(color.GreenString("Pushed %d repositories", len(cfg.Repos)))
	}
	return nil
}
