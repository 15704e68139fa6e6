package gitops

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// Client runs git commands against repository directories.
//
// It is stateless; the struct exists as a receiver so a custom git
// binary path or extra global flags can be added without breaking
// callers.
type Client struct{}

// NewClient creates a git Client.
func NewClient() *Client {
	return &Client{}
}

// IsRepo reports whether dir is inside a git working tree.
func (c *Client) IsRepo(dir string) bool {
	_, err := runGit(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// HasChanges reports whether the working tree at dir differs from HEAD,
// including untracked files. `git diff --quiet` alone misses untracked
// files, which a version change can introduce (new manifests), so
// status --porcelain is used instead.
func (c *Client) HasChanges(dir string) (bool, error) {
	output, err := runGit(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) != "", nil
}

// Commit stages everything under dir and commits with the given
// message.
func (c *Client) Commit(dir, message string) error {
	if _, err := runGit(dir, "add", "."); err != nil {
		return err
	}
	_, err := runGit(dir, "commit", "-m", message)
	return err
}

// Push pushes the current branch of dir to its upstream.
func (c *Client) Push(dir string) error {
	_, err := runGit(dir, "push")
	return err
}

// CurrentBranch returns the short name of the checked-out branch, or
// "HEAD" for a detached head.
func (c *Client) CurrentBranch(dir string) (string, error) {
	output, err := runGit(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Tags returns all tag names in the repository at dir.
func (c *Client) Tags(dir string) ([]string, error) {
	output, err := runGit(dir, "tag")
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// LatestRelease returns the highest release version among the
// repository's tags. Tags that do not parse as dotted triples
// (with or without a "v" prefix) are ignored.
//
// Ordering is semver, not lexical: 0.10.0 is newer than 0.9.9 even
// though `git tag` lists it first.
func (c *Client) LatestRelease(dir string) (model.Version, error) {
	tags, err := c.Tags(dir)
	if err != nil {
		return model.Version{}, err
	}

	var latest model.Version
	for _, tag := range tags {
		v, parseErr := model.ParseVersion(tag)
		if parseErr != nil {
			continue
		}
		if latest.IsZero() || latest.LessThan(v) {
			latest = v
		}
	}

	if latest.IsZero() {
		return model.Version{}, model.NewCLIError(model.ExitGitError,
			fmt.Sprintf("no release tags found in %s", dir))
	}
	return latest, nil
}

// CreateTag creates an annotated tag in the repository at dir.
func (c *Client) CreateTag(dir, tag, message string) error {
	_, err := runGit(dir, "tag", "-a", tag, "-m", message)
	return err
}

// runGit executes git with the given arguments against dir.
//
// The directory is passed via -C so git resolves it itself; the
// process working directory never changes. On failure the trimmed
// stderr is folded into a CLIError with ExitGitError.
func runGit(dir string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", dir}, args...)

	log.Debug().Str("dir", dir).Strs("args", args).Msg("exec git")

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed in %s", strings.Join(args, " "), dir)
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
