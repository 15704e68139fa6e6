package hub

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// uploadAttempts bounds the retries for a single asset upload.
const uploadAttempts = 3

// Client runs gh commands against repository directories.
type Client struct{}

// NewClient creates a release-hosting Client.
func NewClient() *Client {
	return &Client{}
}

// CreateRelease creates a hosted release for the given version in the
// repository at dir, titled with the v-prefixed tag. The call is not
// retried: release creation is not idempotent, and a retry after an
// ambiguous failure could duplicate the release.
func (c *Client) CreateRelease(dir string, v model.Version) error {
	_, err := runGH(dir, "release", "create", v.String(), "-t", v.Tag())
	return err
}

// UploadAsset uploads a file (relative to dir) to the release for the
// given version. Uploads are idempotent on the hosting side (a re-push
// of the same asset name overwrites), so transient failures are
// retried with backoff.
func (c *Client) UploadAsset(dir string, v model.Version, asset string) error {
	// Fail before the first network call if the asset is missing.
	assetPath := filepath.Join(dir, asset)
	if _, err := os.Stat(assetPath); err != nil {
		return model.WrapCLIError(model.ExitReleaseError,
			fmt.Sprintf("release asset %s not found", assetPath), err)
	}

	return retry.Do(
		func() error {
			_, err := runGH(dir, "release", "upload", "--clobber", v.String(), asset)
			return err
		},
		retry.Attempts(uploadAttempts),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Uint("attempt", n+1).Err(err).
				Str("asset", asset).Msg("retrying release asset upload")
		}),
	)
}

// runGH executes gh with the given arguments, with dir as working
// directory so gh resolves the target repository from the checkout.
func runGH(dir string, args ...string) (string, error) {
	log.Debug().Str("dir", dir).Strs("args", args).Msg("exec gh")

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("gh", args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("gh %s failed in %s", strings.Join(args, " "), dir)
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitReleaseError, message, err)
	}

	return stdout.String(), nil
}
