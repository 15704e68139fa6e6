package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/sdkrel/internal/model"
	"github.com/mmr-tortoise/sdkrel/internal/rewrite"
)

// Context carries the constellation-wide names the rule builders need.
type Context struct {
	// CoreScope is the npm scope whose dependency pins in package.json
	// files follow the core version (e.g. "@bentley").
	CoreScope string

	// NativePackage is the native iOS package name pinned in
	// Package.swift and the podspec.
	NativePackage string
}

// Rules returns the rewrite rules for one manifest file of the given
// kind under the version change described by vs.
//
// The returned slice may be empty: a Package.swift manifest has nothing
// to rewrite when the native iOS pin does not move.
func Rules(kind model.ManifestKind, vs model.VersionSet, ctx Context) ([]rewrite.Rule, error) {
	switch kind {
	case model.KindPackageJSON:
		return packageJSONRules(vs, ctx.CoreScope), nil
	case model.KindPackageSwift:
		return packageSwiftRules(vs, ctx.NativePackage), nil
	case model.KindPodspec:
		return podspecRules(vs, ctx.NativePackage), nil
	case model.KindGradle:
		return gradleRules(vs), nil
	default:
		return nil, fmt.Errorf("unknown manifest kind %q", kind)
	}
}

// packageJSONRules rewrites the package's own version field and, when a
// new core version is given, every dependency pin under the core scope.
// The dependency rule has no fixed count: each package.json depends on
// a different subset of the scoped packages.
func packageJSONRules(vs model.VersionSet, coreScope string) []rewrite.Rule {
	rules := []rewrite.Rule{{
		Name:    "package version",
		Pattern: regexp.MustCompile(`("version": )"` + regexp.QuoteMeta(vs.Old) + `"`),
		Replace: `${1}"` + vs.New + `"`,
		Want:    1,
	}}

	if vs.NewCore != "" {
		rules = append(rules, rewrite.Rule{
			Name:    "core dependencies",
			Pattern: regexp.MustCompile(`("` + regexp.QuoteMeta(coreScope) + `/[a-z0-9-]+"): "\d+\.\d+\.\d+`),
			Replace: `${1}: "` + vs.NewCore,
			Want:    rewrite.AnyCount,
		})
	}

	return rules
}

// packageSwiftRules rewrites the exact-version pin of the native iOS
// package. Nothing to do when the pin does not move.
func packageSwiftRules(vs model.VersionSet, nativePkg string) []rewrite.Rule {
	if !vs.IOSChanged() {
		return nil
	}
	return []rewrite.Rule{{
		Name:    "native package pin",
		Pattern: regexp.MustCompile(`(` + regexp.QuoteMeta(nativePkg) + `", \.exact\()"` + regexp.QuoteMeta(vs.OldIOS) + `"`),
		Replace: `${1}"` + vs.NewIOS + `"`,
		Want:    1,
	}}
}

// podspecRules rewrites spec.version and, when the native pin moves,
// the pessimistic dependency constraint on the native package.
func podspecRules(vs model.VersionSet, nativePkg string) []rewrite.Rule {
	rules := []rewrite.Rule{{
		Name:    "spec.version",
		Pattern: regexp.MustCompile(`(spec\.version\s+= )"` + regexp.QuoteMeta(vs.Old) + `"`),
		Replace: `${1}"` + vs.New + `"`,
		Want:    1,
	}}

	if vs.IOSChanged() {
		rules = append(rules, rewrite.Rule{
			Name:    "native dependency",
			Pattern: regexp.MustCompile(`(spec\.dependency\s+"` + regexp.QuoteMeta(nativePkg) + `",\s+"~>) ` + regexp.QuoteMeta(vs.OldIOS)),
			Replace: `${1} ` + vs.NewIOS,
			Want:    1,
		})
	}

	return rules
}

// gradleRules rewrites the Android versionName string.
func gradleRules(vs model.VersionSet) []rewrite.Rule {
	return []rewrite.Rule{{
		Name:    "versionName",
		Pattern: regexp.MustCompile(`(versionName\s+)"` + regexp.QuoteMeta(vs.Old) + `"`),
		Replace: `${1}"` + vs.New + `"`,
		Want:    1,
	}}
}

// packageJSON is the subset of package.json read back for version
// detection.
type packageJSON struct {
	Version string `json:"version"`
}

var (
	podspecVersionRe = regexp.MustCompile(`spec\.version\s+= "([0-9.]+)"`)
	gradleVersionRe  = regexp.MustCompile(`versionName\s+"([0-9.]+)"`)
)

// Version reads the version currently recorded in a manifest file.
//
// Package.swift manifests pin the native package but carry no version
// of their own, so asking for one is an error.
func Version(path string, kind model.ManifestKind) (string, error) {
	switch kind {
	case model.KindPackageJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		// package.json files in the wild occasionally carry JSONC-style
		// comments; strip them before strict parsing.
		var pkg packageJSON
		if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
			return "", fmt.Errorf("cannot parse %s: %w", path, err)
		}
		if pkg.Version == "" {
			return "", fmt.Errorf("%s has no version field", path)
		}
		return pkg.Version, nil
	case model.KindPodspec:
		return rewrite.FindFirst(path, podspecVersionRe)
	case model.KindGradle:
		return rewrite.FindFirst(path, gradleVersionRe)
	case model.KindPackageSwift:
		return "", fmt.Errorf("%s: Package.swift manifests carry no own version", path)
	default:
		return "", fmt.Errorf("unknown manifest kind %q", kind)
	}
}

// NativePinned reads the exact native package version pinned in a
// Package.swift manifest.
func NativePinned(path, nativePkg string) (string, error) {
	re := regexp.MustCompile(regexp.QuoteMeta(nativePkg) + `", \.exact\("([0-9.]+)"`)
	return rewrite.FindFirst(path, re)
}
