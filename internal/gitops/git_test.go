package gitops

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// setupTestRepo creates a temporary git repository with one commit.
// A repo-local user identity is configured so `git commit` works in CI
// environments without a global git config.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runTestGit(t, dir, "init")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test Repo\n"), 0644))

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

// runTestGit runs a git command in dir and fails the test on error.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func TestIsRepo(t *testing.T) {
	c := NewClient()

	assert.True(t, c.IsRepo(setupTestRepo(t)))
	assert.False(t, c.IsRepo(t.TempDir()))
}

func TestHasChanges(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	clean, err := c.HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, clean)

	// A modified tracked file counts as a change.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Changed\n"), 0644))
	dirty, err := c.HasChanges(dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestHasChangesSeesUntrackedFiles(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.podspec"), []byte("spec\n"), 0644))

	dirty, err := c.HasChanges(dir)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCommit(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.txt"), []byte("0.22.18\n"), 0644))
	require.NoError(t, c.Commit(dir, "v0.22.18"))

	dirty, err := c.HasChanges(dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	logOut := runTestGit(t, dir, "log", "-1", "--format=%s")
	assert.Contains(t, logOut, "v0.22.18")
}

func TestPush(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	// A bare sibling repository serves as the remote.
	remote := filepath.Join(t.TempDir(), "remote.git")
	runTestGit(t, dir, "init", "--bare", remote)
	runTestGit(t, dir, "remote", "add", "origin", remote)

	branch, err := c.CurrentBranch(dir)
	require.NoError(t, err)
	runTestGit(t, dir, "push", "-u", "origin", branch)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x\n"), 0644))
	require.NoError(t, c.Commit(dir, "v0.0.1"))
	require.NoError(t, c.Push(dir))

	// The remote should now know the commit.
	remoteLog := runTestGit(t, dir, "--git-dir", remote, "log", "-1", "--format=%s", branch)
	assert.Contains(t, remoteLog, "v0.0.1")
}

func TestCurrentBranch(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	runTestGit(t, dir, "checkout", "-b", "release-prep")

	branch, err := c.CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "release-prep", branch)
}

func TestTagsAndLatestRelease(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	require.NoError(t, c.CreateTag(dir, "0.9.9", "v0.9.9"))
	require.NoError(t, c.CreateTag(dir, "0.10.0", "v0.10.0"))
	runTestGit(t, dir, "tag", "not-a-version")

	tags, err := c.Tags(dir)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	// Semver ordering wins over the lexical order of `git tag`, and
	// non-version tags are ignored.
	latest, err := c.LatestRelease(dir)
	require.NoError(t, err)
	assert.Equal(t, "0.10.0", latest.String())
}

func TestLatestReleaseNoTags(t *testing.T) {
	dir := setupTestRepo(t)
	c := NewClient()

	_, err := c.LatestRelease(dir)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGitError, cliErr.Code)
}

func TestRunGitFailureCarriesStderr(t *testing.T) {
	c := NewClient()

	err := c.Push(t.TempDir()) // not a repository
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitGitError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "git push failed")
}
