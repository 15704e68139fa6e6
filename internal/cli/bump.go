// bump.go implements the "sdkrel bump" command: determine every
// version automatically, then rewrite the manifests.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
	"github.com/mmr-tortoise/sdkrel/internal/manifest"
	"github.com/mmr-tortoise/sdkrel/internal/model"
	"github.com/mmr-tortoise/sdkrel/internal/registry"
)

// NewBumpCommand creates the "bump" cobra command.
func NewBumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Prepare the next point release",
		Long: `Determine every version for the next point release and rewrite the
manifests accordingly:

  - last release:  highest version tag in the root repository
  - next release:  last release with the final component incremented
  - core version:  latest published version of the core package (npm)
  - native pin:    current pin from Package.swift, new value from the
                   core package's published dependencies

No file is touched unless every version could be determined.

Example:
  sdkrel bump`,

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
			return applyChangeSet(cfg, set)
		},
	}

	return cmd
}

// computeBumpSet determines the full version set for the next point
// release. It fails without side effects when any version cannot be
// determined; applyChangeSet only runs on a complete set.
func computeBumpSet(cfg *config.Constellation) (model.VersionSet, error) {
	git := gitops.NewClient()
	npm := registry.NewClient()

	rootDir := cfg.Dir(cfg.Root())

	last, err := git.LatestRelease(rootDir)
	if err != nil {
		return model.VersionSet{}, err
	}
	next := last.Next()

	if !IsJSONOutput() {
		fmt.Printf("Last release: %s\n", last)
		fmt.Printf("New release:  %s\n", next)
	}

	core, err := npm.PackageVersion(cfg.Registry.CorePackage)
	if err != nil {
		return model.VersionSet{}, err
	}
	if !IsJSONOutput() {
		fmt.Printf("Current %s version: %s\n", cfg.Registry.CorePackage, core)
	}

	set := model.VersionSet{
		Old:     last.String(),
		New:     next.String(),
		NewCore: core,
	}

	// The native iOS pin only participates when the root repository
	// carries a Package.swift manifest; an Android-only constellation
	// has no pin to move.
	if pinPath, ok := rootPackageSwift(cfg); ok {
		oldIOS, err := manifest.NativePinned(pinPath, cfg.Registry.NativePackage)
		if err != nil {
			return model.VersionSet{}, model.WrapCLIError(model.ExitRewriteError,
				"cannot determine current native iOS package version", err)
		}

		newIOS, err := npm.DependencyVersion(cfg.Registry.CorePackage, cfg.Registry.NativeDependency)
		if err != nil {
			return model.VersionSet{}, err
		}

		set.OldIOS = oldIOS
		set.NewIOS = newIOS

		if !IsJSONOutput() {
			if oldIOS != newIOS {
				fmt.Printf("Native iOS package: %s -> %s\n", oldIOS, newIOS)
			} else {
				fmt.Printf("Native iOS package unchanged: %s\n", newIOS)
			}
		}
	}

	if err := set.Validate(); err != nil {
		return model.VersionSet{}, model.WrapCLIError(model.ExitGeneralError,
			"unable to determine all versions", err)
	}
	return set, nil
}

// rootPackageSwift returns the path of the root repository's first
// Package.swift manifest, if it has one.
func rootPackageSwift(cfg *config.Constellation) (string, bool) {
	root := cfg.Root()
	for _, m := range root.Manifests {
		if m.Kind == model.KindPackageSwift {
			return cfg.ManifestPath(root, m), true
		}
	}
	return "", false
}
