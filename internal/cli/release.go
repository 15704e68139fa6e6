// release.go implements the "sdkrel release" command: hosted release
// creation plus asset uploads via the gh CLI.
package cli

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/hub"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// releaseFlags holds the flag values for the release command.
type releaseFlags struct {
	newVersion string // --new: version to release
}

// NewReleaseCommand creates the "release" cobra command.
func NewReleaseCommand() *cobra.Command {
	flags := &releaseFlags{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Create hosted releases and upload release assets",
		Long: `Create a hosted release titled "v<new>" in every repository marked
for release, then upload the root repository's configured assets
(e.g. the podspec) to its release.

Requires the gh CLI to be authenticated (GH_TOKEN or gh auth login).

Example:
  sdkrel release --new 0.22.18`,

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
			return runReleaseStage(cfg, v)
		},
	}

	cmd.Flags().StringVarP(&flags.newVersion, "new", "n", "", "New release version")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

// runReleaseStage creates the hosted releases and uploads the root
// repository's assets. Shared by the release and do commands.
func runReleaseStage(cfg *config.Constellation, v model.Version) error {
	gh := hub.NewClient()

	// The spinner keeps the terminal alive during the slow network
	// calls; it stays off for JSON and verbose output, where it would
	// interleave with structured lines.
	var spin *spinner.Spinner
	if !IsJSONOutput() && !verbose {
		spin = spinner.New(spinner.CharSets[11], 100*time.Millisecond)
		_ = spin.Color("yellow")
		spin.Start()
		defer spin.Stop()
	}

	setStatus := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		if spin != nil {
			spin.Suffix = " " + msg
		} else if !IsJSONOutput() {
			fmt.Println(msg)
		}
	}

	released := 0
	for _, repo := range cfg.Repos {
		if !repo.Release {
			continue
		}
		setStatus("Releasing %s in %s...", v.Tag(), repo.Name)
		if err := gh.CreateRelease(cfg.Dir(repo), v); err != nil {
			return err
		}
		released++
	}

	root := cfg.Root()
	for _, asset := range root.Assets {
		setStatus("Uploading %s to %s...", asset, root.Name)
		if err := gh.UploadAsset(cfg.Dir(root), v, asset); err != nil {
			return err
		}
	}

	if spin != nil {
		spin.Stop()
	}
	if IsJSONOutput() {
		fmt.Printf("{\n  \"version\": %q,\n  \"releases\": %d,\n  \"assets\": %d\n}\n",
			v.String(), released, len(root.Assets))
	} else {
		fmt.Println(color.GreenString("Released %s (%d releases, %d asset(s))",
			v.Tag(), released, len(root.Assets)))
	}
	return nil
}
