package cli

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sdkrel/internal/config"
	"github.com/mmr-tortoise/sdkrel/internal/gitops"
)

// runTestGit runs a git command in dir and fails the test on error.
func runTestGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

func TestCollectStatus(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "package.json"), `{
  "version": "0.22.17",
  "dependencies": {}
}
`)
	writeFile(t, filepath.Join(dir, "release.yml"), `registry:
  core_scope: "@acme"
repos:
  - name: core
    path: .
    manifests:
      - path: package.json
        kind: package-json
`)

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")
	runTestGit(t, dir, "checkout", "-b", "main-line")

	cfg, err := config.Load(filepath.Join(dir, "release.yml"))
	require.NoError(t, err)

	row := collectStatus(cfg, gitops.NewClient(), cfg.Root())
	assert.Equal(t, "core", row.Repo)
	assert.Equal(t, "main-line", row.Branch)
	assert.False(t, row.Dirty)
	assert.False(t, row.Missing)
	assert.Equal(t, "0.22.17", row.Version)

	// A change to the manifest shows up as a dirty tree.
	writeFile(t, filepath.Join(dir, "package.json"), `{"version": "0.22.18"}`)
	row = collectStatus(cfg, gitops.NewClient(), cfg.Root())
	assert.True(t, row.Dirty)
	assert.Equal(t, "0.22.18", row.Version)
}

func TestCollectStatusMissingCheckout(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "release.yml"), `repos:
  - name: ghost
    path: ../nowhere
`)

	cfg, err := config.Load(filepath.Join(dir, "release.yml"))
	require.NoError(t, err)

	row := collectStatus(cfg, gitops.NewClient(), cfg.Root())
	assert.True(t, row.Missing)
	assert.Empty(t, row.Version)
}
