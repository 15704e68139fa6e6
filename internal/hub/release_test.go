package hub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

func TestUploadAssetMissingFile(t *testing.T) {
	c := NewClient()

	// The asset check fails before gh is ever invoked, so this test
	// needs neither the gh binary nor network access.
	err := c.UploadAsset(t.TempDir(), model.MustVersion("0.22.18"), "absent.podspec")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitReleaseError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "absent.podspec")
}
