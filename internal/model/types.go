package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// tripleRegex restricts versions to plain numeric dotted triples.
// The SDK constellation never publishes prerelease or build-metadata
// versions, so anything fancier is treated as operator error.
var tripleRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Version is a release version number such as "0.22.17".
//
// It is backed by a semver version for comparison and increment, but
// construction is stricter than semver: only MAJOR.MINOR.PATCH with
// numeric components is accepted.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a dotted-triple version string.
// A leading "v" (as found on git tags) is tolerated and stripped.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !tripleRegex.MatchString(s) {
		return Version{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH", s)
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{v: v}, nil
}

// MustVersion is ParseVersion for trusted literals, panicking on error.
func MustVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Next returns the next point release: the final dotted component
// incremented by one, the others untouched.
func (v Version) Next() Version {
	next := v.v.IncPatch()
	return Version{v: &next}
}

// LessThan reports whether v orders before other under semver rules.
func (v Version) LessThan(other Version) bool {
	return v.v.LessThan(other.v)
}

// String returns the bare dotted triple, without a "v" prefix.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Tag returns the "v"-prefixed form used for git tags and release titles.
func (v Version) Tag() string {
	return "v" + v.String()
}

// IsZero reports whether v is the zero Version (never parsed).
func (v Version) IsZero() bool {
	return v.v == nil
}

// VersionSet holds every version string a change run needs.
//
// Old and New are the SDK's own version. NewCore is the core package
// version written into package.json dependency blocks. OldIOS and
// NewIOS pin the native iOS package in Package.swift and the podspec;
// when they are equal (or both empty) the native pin is left alone.
type VersionSet struct {
	Old     string
	New     string
	NewCore string
	OldIOS  string
	NewIOS  string
}

// Validate checks the version set before any file is touched.
// Old and New must be dotted triples; the optional fields must be
// dotted triples when present, and OldIOS/NewIOS must come as a pair.
func (s VersionSet) Validate() error {
	if _, err := ParseVersion(s.Old); err != nil {
		return fmt.Errorf("old version: %w", err)
	}
	if _, err := ParseVersion(s.New); err != nil {
		return fmt.Errorf("new version: %w", err)
	}
	if s.Old == s.New {
		return fmt.Errorf("old and new version are both %q", s.New)
	}
	if s.NewCore != "" {
		if _, err := ParseVersion(s.NewCore); err != nil {
			return fmt.Errorf("new core version: %w", err)
		}
	}
	if (s.OldIOS == "") != (s.NewIOS == "") {
		return fmt.Errorf("old and new native iOS versions must be given together")
	}
	if s.OldIOS != "" {
		if _, err := ParseVersion(s.OldIOS); err != nil {
			return fmt.Errorf("old native iOS version: %w", err)
		}
		if _, err := ParseVersion(s.NewIOS); err != nil {
			return fmt.Errorf("new native iOS version: %w", err)
		}
	}
	return nil
}

// IOSChanged reports whether the native iOS package pin moves in this run.
func (s VersionSet) IOSChanged() bool {
	return s.OldIOS != "" && s.OldIOS != s.NewIOS
}

// ManifestKind identifies the flavor of a manifest file, which
// determines the rewrite rules applied to it.
type ManifestKind string

const (
	// KindPackageJSON is an npm package.json manifest.
	KindPackageJSON ManifestKind = "package-json"

	// KindPackageSwift is a Swift Package Manager manifest with an
	// exact-version pin of the native iOS package.
	KindPackageSwift ManifestKind = "package-swift"

	// KindPodspec is a CocoaPods podspec.
	KindPodspec ManifestKind = "podspec"

	// KindGradle is a Gradle build file carrying a versionName string.
	KindGradle ManifestKind = "gradle"
)

// IsValid checks whether the ManifestKind is one of the known kinds.
func (k ManifestKind) IsValid() bool {
	switch k {
	case KindPackageJSON, KindPackageSwift, KindPodspec, KindGradle:
		return true
	default:
		return false
	}
}

// String returns the string representation of the manifest kind.
func (k ManifestKind) String() string {
	return string(k)
}

// ParseManifestKind converts a string to a ManifestKind.
func ParseManifestKind(s string) (ManifestKind, error) {
	kind := ManifestKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid manifest kind: %q (valid: package-json, package-swift, podspec, gradle)", s)
	}
	return kind, nil
}

// ExitCode defines the CLI exit codes. These allow CI systems and
// wrapper scripts to distinguish which stage of a release run failed.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the release configuration is missing
	// or invalid.
	ExitConfigError ExitCode = 2

	// ExitRewriteError indicates a manifest rewrite failed, typically
	// because a rule matched a different number of lines than expected.
	ExitRewriteError ExitCode = 3

	// ExitGitError indicates a git operation failed.
	ExitGitError ExitCode = 4

	// ExitReleaseError indicates a release-hosting (gh) operation failed.
	ExitReleaseError ExitCode = 5

	// ExitRegistryError indicates an npm registry query failed.
	ExitRegistryError ExitCode = 6
)

// CLIError is an error that carries an exit code, allowing the CLI
// layer to translate domain errors into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
