package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/sdkrel/internal/model"
	"github.com/mmr-tortoise/sdkrel/internal/rewrite"
)

var testCtx = Context{
	CoreScope:     "@bentley",
	NativePackage: "itwin-mobile-ios-package",
}

var testSet = model.VersionSet{
	Old:     "0.22.17",
	New:     "0.22.18",
	NewCore: "2.19.18",
	OldIOS:  "2.19.19",
	NewIOS:  "2.19.20",
}

// applyTo writes content to a temp file, applies the rules for kind,
// and returns the rewritten content.
func applyTo(t *testing.T, kind model.ManifestKind, content string, vs model.VersionSet) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "manifest")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := Rules(kind, vs, testCtx)
	require.NoError(t, err)

	_, err = rewrite.ApplyFile(path, rules)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const samplePackageJSON = `{
  "name": "@itwin/mobile-sdk-core",
  "version": "0.22.17",
  "dependencies": {
    "@bentley/imodeljs-backend": "2.19.11",
    "@bentley/imodeljs-common": "2.19.11",
    "react": "^17.0.2"
  }
}
`

func TestPackageJSONRules(t *testing.T) {
	out := applyTo(t, model.KindPackageJSON, samplePackageJSON, testSet)

	assert.Contains(t, out, `"version": "0.22.18"`)
	assert.Contains(t, out, `"@bentley/imodeljs-backend": "2.19.18"`)
	assert.Contains(t, out, `"@bentley/imodeljs-common": "2.19.18"`)
	// Out-of-scope dependencies are untouched.
	assert.Contains(t, out, `"react": "^17.0.2"`)
}

func TestPackageJSONRulesWithoutCoreVersion(t *testing.T) {
	vs := testSet
	vs.NewCore = ""
	out := applyTo(t, model.KindPackageJSON, samplePackageJSON, vs)

	assert.Contains(t, out, `"version": "0.22.18"`)
	assert.Contains(t, out, `"@bentley/imodeljs-backend": "2.19.11"`)
}

func TestPackageSwiftRules(t *testing.T) {
	content := `    .package(name: "x", url: "u", .exact("1.0.0")),
    .package(name: "itwin-mobile-ios-package", url: "https://github.com/iTwin/itwin-mobile-ios-package", .exact("2.19.19")),
`
	path := filepath.Join(t.TempDir(), "Package.swift")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := Rules(model.KindPackageSwift, testSet, testCtx)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	_, err = rewrite.ApplyFile(path, rules)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `itwin-mobile-ios-package", .exact("2.19.20")`)
	// Unrelated exact pins are untouched.
	assert.Contains(t, string(data), `.exact("1.0.0")`)
}

func TestPackageSwiftRulesNoChangeWhenPinStays(t *testing.T) {
	vs := testSet
	vs.NewIOS = vs.OldIOS

	rules, err := Rules(model.KindPackageSwift, vs, testCtx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

const samplePodspec = `Pod::Spec.new do |spec|
  spec.name         = "itwin-mobile-sdk"
  spec.version      = "0.22.17"
  spec.dependency   "itwin-mobile-ios-package", "~> 2.19.19"
end
`

func TestPodspecRules(t *testing.T) {
	out := applyTo(t, model.KindPodspec, samplePodspec, testSet)

	assert.Contains(t, out, `spec.version      = "0.22.18"`)
	assert.Contains(t, out, `"itwin-mobile-ios-package", "~> 2.19.20"`)
}

func TestPodspecRulesIOSUnchanged(t *testing.T) {
	vs := testSet
	vs.NewIOS = vs.OldIOS
	out := applyTo(t, model.KindPodspec, samplePodspec, vs)

	assert.Contains(t, out, `spec.version      = "0.22.18"`)
	assert.Contains(t, out, `"~> 2.19.19"`)
}

const sampleGradle = `android {
    defaultConfig {
        versionCode 22
        versionName "0.22.17"
    }
}
`

func TestGradleRules(t *testing.T) {
	out := applyTo(t, model.KindGradle, sampleGradle, testSet)

	assert.Contains(t, out, `versionName "0.22.18"`)
	assert.Contains(t, out, "versionCode 22")
}

func TestVersion(t *testing.T) {
	dir := t.TempDir()

	pkgPath := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(pkgPath, []byte(samplePackageJSON), 0644))

	podPath := filepath.Join(dir, "sdk.podspec")
	require.NoError(t, os.WriteFile(podPath, []byte(samplePodspec), 0644))

	gradlePath := filepath.Join(dir, "build.gradle")
	require.NoError(t, os.WriteFile(gradlePath, []byte(sampleGradle), 0644))

	v, err := Version(pkgPath, model.KindPackageJSON)
	require.NoError(t, err)
	assert.Equal(t, "0.22.17", v)

	v, err = Version(podPath, model.KindPodspec)
	require.NoError(t, err)
	assert.Equal(t, "0.22.17", v)

	v, err = Version(gradlePath, model.KindGradle)
	require.NoError(t, err)
	assert.Equal(t, "0.22.17", v)

	_, err = Version(pkgPath, model.KindPackageSwift)
	assert.Error(t, err)
}

func TestVersionToleratesJSONCComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package.json")
	content := `{
  // pinned until the next major
  "version": "1.4.2"
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v, err := Version(path, model.KindPackageJSON)
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", v)
}

func TestNativePinned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Package.swift")
	content := `    .package(name: "itwin-mobile-ios-package", url: "https://github.com/iTwin/itwin-mobile-ios-package", .exact("2.19.19")),
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	v, err := NativePinned(path, "itwin-mobile-ios-package")
	require.NoError(t, err)
	assert.Equal(t, "2.19.19", v)

	_, err = NativePinned(path, "some-other-package")
	assert.Error(t, err)
}
