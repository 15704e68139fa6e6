package registry

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// queryAttempts bounds the retries for a single registry query.
const queryAttempts = 3

// Client queries the npm registry through the npm CLI.
type Client struct{}

// NewClient creates a registry Client.
func NewClient() *Client {
	return &Client{}
}

// PackageVersion returns the latest published version of pkg.
func (c *Client) PackageVersion(pkg string) (string, error) {
	output, err := runNpmRetried("show", pkg, "version")
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(output)
	if _, parseErr := model.ParseVersion(version); parseErr != nil {
		return "", model.WrapCLIError(model.ExitRegistryError,
			fmt.Sprintf("registry returned unusable version %q for %s", version, pkg), parseErr)
	}
	return version, nil
}

// DependencyVersion returns the version of dep recorded in the
// published dependencies of pkg.
func (c *Client) DependencyVersion(pkg, dep string) (string, error) {
	output, err := runNpmRetried("show", pkg, "dependencies")
	if err != nil {
		return "", err
	}

	version, ok := parseDependency(output, dep)
	if !ok {
		return "", model.NewCLIError(model.ExitRegistryError,
			fmt.Sprintf("dependency %s not found in %s", dep, pkg))
	}
	return version, nil
}

// parseDependency extracts dep's version from `npm show <pkg>
// dependencies` output, which npm prints as a JavaScript object
// literal with single-quoted keys and values:
//
//	{ '@bentley/imodeljs-native': '2.19.20', 'semver': '^7.3.5' }
func parseDependency(output, dep string) (string, bool) {
	re := regexp.MustCompile(`'` + regexp.QuoteMeta(dep) + `':\s*'([0-9.]+)'`)
	m := re.FindStringSubmatch(output)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

// runNpmRetried runs an npm query, retrying transient failures.
func runNpmRetried(args ...string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return runNpm(args...)
		},
		retry.Attempts(queryAttempts),
		retry.Delay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Uint("attempt", n+1).Err(err).
				Strs("args", args).Msg("retrying npm query")
		}),
	)
}

// runNpm executes npm with the given arguments.
func runNpm(args ...string) (string, error) {
	log.Debug().Strs("args", args).Msg("exec npm")

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("npm", args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("npm %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitRegistryError, message, err)
	}

	return stdout.String(), nil
}
