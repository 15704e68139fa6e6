// Package cli implements the cobra-based commands for sdkrel.
//
// Each subcommand (change, commit, push, tag, release, bump, do,
// status) lives in its own file. This file defines the root command,
// the global flags, and the error-to-exit-code translation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/sdkrel/internal/logging"
	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// Global flag variables bound to persistent flags on the root command,
// making them available to every subcommand.
var (
	// jsonOutput switches command output to JSON for machine consumption.
	jsonOutput bool

	// verbose enables debug-level logging on stderr, including every
	// subprocess invocation.
	verbose bool

	// configPath points at an explicit release.yml. Empty means
	// release.yml in the working directory, falling back to the
	// built-in constellation.
	configPath string
)

// Version, Commit, and Date are injected from the main package, which
// receives them from GoReleaser ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command performs no action itself; it provides help text,
// global flags, and the subcommand registry.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sdkrel",
		Short: "Release coordinator for the mobile SDK repository constellation",
		Long: `sdkrel coordinates version bumps across the sibling SDK repositories:
it rewrites version strings in their manifest files and drives git, gh,
and npm to commit, push, tag, and publish each release.

Typical flow for a point release:

  sdkrel bump       # compute versions and rewrite manifests
  sdkrel commit -n 0.22.18
  sdkrel push
  sdkrel release -n 0.22.18

or all of the above in one go:

  sdkrel do`,

		// Errors are formatted by Execute; keep cobra quiet.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The logger must exist before any RunE fires.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to release.yml (default: ./release.yml or built-in)")

	rootCmd.AddCommand(NewChangeCommand())
	rootCmd.AddCommand(NewCommitCommand())
	rootCmd.AddCommand(NewPushCommand())
	rootCmd.AddCommand(NewTagCommand())
	rootCmd.AddCommand(NewReleaseCommand())
	rootCmd.AddCommand(NewBumpCommand())
	rootCmd.AddCommand(NewDoCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into process
// exit codes. CLIError values carry their own code; anything else
// exits with the general error code.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr in text or JSON form depending
// on the --json flag. stdout stays reserved for command results.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set. Subcommands use
// this to choose their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
