// change.go implements the "sdkrel change" command: rewriting version
// strings across every configured manifest file.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/manifest"
	"github.com/mmr-tortoise/sdkrel/internal/model"
	"github.com/mmr-tortoise/sdkrel/internal/rewrite"
)

// changeFlags holds the flag values for the change command.
type changeFlags struct {
	newVersion string // --new: new SDK version
	oldVersion string // --old: current SDK version
	newCore    string // --new-core: new core package version
	oldIOS     string // --old-ios: current native iOS package version
	newIOS     string // --new-ios: new native iOS package version
}

// NewChangeCommand creates the "change" cobra command.
func NewChangeCommand() *cobra.Command {
	flags := &changeFlags{}

	cmd := &cobra.Command{
		Use:   "change",
		Short: "Rewrite version strings in all configured manifest files",
		Long: `Rewrite version strings across the constellation's manifest files.

Every rewrite rule carries an expected substitution count; a manifest
whose layout has drifted fails the run before anything is committed.
When --old-ios equals --new-ios (or both are omitted), the native iOS
package pins in Package.swift and the podspec are left alone.

Examples:
  sdkrel change --old 0.22.17 --new 0.22.18
  sdkrel change --old 0.22.17 --new 0.22.18 --new-core 2.19.18
  sdkrel change --old 0.22.17 --new 0.22.18 --old-ios 2.19.19 --new-ios 2.19.20`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runChange(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.newVersion, "new", "n", "", "New release version")
	cmd.Flags().StringVarP(&flags.oldVersion, "old", "o", "", "Old release version")
	cmd.Flags().StringVar(&flags.newCore, "new-core", "", "New core package version for package.json dependency blocks")
	cmd.Flags().StringVar(&flags.oldIOS, "old-ios", "", "Current native iOS package version")
	cmd.Flags().StringVar(&flags.newIOS, "new-ios", "", "New native iOS package version")
	_ = cmd.MarkFlagRequired("new")
	_ = cmd.MarkFlagRequired("old")

	return cmd
}

func runChange(flags *changeFlags) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	set := model.VersionSet{
		Old:     flags.oldVersion,
		New:     flags.newVersion,
		NewCore: flags.newCore,
		OldIOS:  flags.oldIOS,
		NewIOS:  flags.newIOS,
	}
	if err := set.Validate(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid version set", err)
	}

	return applyChangeSet(cfg, set)
}

// fileChange describes one rewritten manifest for output purposes.
type fileChange struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
}

// applyChangeSet rewrites every configured manifest under the given
// version set. It is shared by the change and bump commands.
//
// A missing manifest file is an error, not a silent skip: the
// constellation description promises the file exists, and a stale
// description must surface before commit time.
func applyChangeSet(cfg *config.Constellation, set model.VersionSet) error {
	ctx := manifest.Context{
		CoreScope:     cfg.Registry.CoreScope,
		NativePackage: cfg.Registry.NativePackage,
	}

	var changes []fileChange
	for _, repo := range cfg.Repos {
		for _, m := range repo.Manifests {
			path := cfg.ManifestPath(repo, m)

			rules, err := manifest.Rules(m.Kind, set, ctx)
			if err != nil {
				return model.WrapCLIError(model.ExitConfigError,
					fmt.Sprintf("repository %q manifest %s", repo.Name, m.Path), err)
			}
			if len(rules) == 0 {
				// Nothing moves in this file under this version set
				// (e.g. Package.swift with an unchanged native pin).
				continue
			}

			if _, err := os.Stat(path); err != nil {
				return model.WrapCLIError(model.ExitRewriteError,
					fmt.Sprintf("manifest %s configured for repository %q not found", path, repo.Name), err)
			}

			if !IsJSONOutput() {
				fmt.Printf("Processing: %s\n", path)
			}

			res, err := rewrite.ApplyFile(path, rules)
			if err != nil {
				return err
			}
			changes = append(changes, fileChange{Path: path, Changed: res.Changed})
		}
	}

	printChangeResult(set, changes)
	return nil
}

// printChangeResult outputs the change summary in text or JSON form.
func printChangeResult(set model.VersionSet, changes []fileChange) {
	if IsJSONOutput() {
		result := struct {
			Old   string       `json:"old"`
			New   string       `json:"new"`
			Files []fileChange `json:"files"`
		}{Old: set.Old, New: set.New, Files: changes}

		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	rewritten := 0
	for _, c := range changes {
		if c.Changed {
			rewritten++
		}
	}
	fmt.Println(color.GreenString("Changed %s -> %s (%d of %d file(s) rewritten)",
		set.Old, set.New, rewritten, len(changes)))
}
