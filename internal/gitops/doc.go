// Package gitops wraps the git CLI for the release workflow: change
// detection, commits, pushes, and tag inspection across the sibling
// repositories of the constellation.
//
// Git is invoked as a child process rather than through a Go git
// library: the surrounding release tooling (hooks, credential helpers,
// signing) expects full git CLI compatibility. Errors are wrapped in
// model.CLIError with ExitGitError so the CLI layer can map them to
// exit codes.
package gitops
