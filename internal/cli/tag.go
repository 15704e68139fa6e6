// tag.go implements the "sdkrel tag" command.
package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// tagFlags holds the flag values for the tag command.
type tagFlags struct {
	newVersion string // --new: version to tag
}

// NewTagCommand creates the "tag" cobra command.
func NewTagCommand() *cobra.Command {
	flags := &tagFlags{}

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Create the release tag in every repository",
		Long: `Create an annotated tag named after the release version in each
constellation repository. The hosted release created by "sdkrel release"
tags the root repository implicitly; this command makes the tag step
available on its own, for repositories that publish no hosted release.

Example:
  sdkrel tag --new 0.22.18`,

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
			return runTagStage(cfg, v)
		},
	}

	cmd.Flags().StringVarP(&flags.newVersion, "new", "n", "", "New release version")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

// runTagStage tags each repository with the release version.
func runTagStage(cfg *config.Constellation, v model.Version) error {
	git := gitops.NewClient()

	for _, repo := range cfg.Repos {
		dir := cfg.Dir(repo)
		if !IsJSONOutput() {
			fmt.Printf("Tagging in: %s\n", dir)
		}
		if err := git.CreateTag(dir, v.String(), v.Tag()); err != nil {
			return err
		}
	}

	if !IsJSONOutput() {
		fmt.Println(color.GreenString("Tagged %s in %d repositories", v.String(), len(cfg.Repos)))
	}
	return nil
}
