// do.go implements the "sdkrel do" command: the full release pipeline.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// NewDoCommand creates the "do" cobra command.
func NewDoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do",
		Short: "Run the full release pipeline (bump, commit, push, release)",
		Long: `Run the complete point-release pipeline in order:

  1. bump     - compute versions and rewrite manifests
  2. commit   - commit the change in every repository
  3. push     - push every repository
  4. release  - create hosted releases and upload assets

The pipeline stops at the first failing stage; completed stages are
not rolled back.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(configPath)
			if err != nil {
				return err
			}

			set, err := computeBumpSet(cfg)
			if err != nil {
				return err
			}
			if err := applyChangeSet(cfg, set); err != nil {
				return err
			}

			v := model.MustVersion(set.New) // validated by computeBumpSet

			if err := runCommitStage(cfg, v); err != nil {
				return err
			}
			if err := runPushStage(cfg); err != nil {
				return err
			}
			return runReleaseStage(cfg, v)
		},
	}

	return cmd
}
