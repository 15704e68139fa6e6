// Package main is the entry point for the sdkrel CLI.
//
// sdkrel coordinates version bumps across a constellation of sibling
// SDK repositories: it rewrites version strings in their manifest files
// and drives git, gh, and npm as child processes to commit, push, tag,
// and publish releases. All functionality lives in internal/cli, which
// defines the cobra commands.
package main

import (
	"github.com/joho/godotenv"

	"github.com/mmr-tortoise/sdkrel/internal/cli"
)

// version, commit, and date are set by GoReleaser at build time via
// ldflags. They provide binary identification for --version output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// A .env next to the binary may carry GH_TOKEN and friends for the
	// release-hosting CLI. Missing files are fine.
	_ = godotenv.Load()

	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
