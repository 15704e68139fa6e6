package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/sdkrel/internal/model"
)

// DefaultFileName is the constellation file looked up next to the
// root repository when --config is not given.
const DefaultFileName = "release.yml"

// Manifest names one version-carrying file inside a repository.
type Manifest struct {
	// Path is the file path relative to the repository directory.
	Path string `yaml:"path"`

	// Kind selects the rewrite rules applied to the file.
	Kind model.ManifestKind `yaml:"kind"`
}

// Repo describes one repository of the constellation.
type Repo struct {
	// Name is a short identifier used in output and error messages.
	Name string `yaml:"name"`

	// Path is the repository directory, relative to the constellation
	// base directory. The root repository uses ".".
	Path string `yaml:"path"`

	// Release marks repositories that get a hosted release created
	// for each new version.
	Release bool `yaml:"release,omitempty"`

	// Assets lists files (relative to the repository directory) that
	// are uploaded to the repository's hosted release.
	Assets []string `yaml:"assets,omitempty"`

	// Manifests lists the version-carrying files rewritten on a change.
	Manifests []Manifest `yaml:"manifests,omitempty"`
}

// Registry holds the npm package coordinates the bump command queries.
type Registry struct {
	// CorePackage is the npm package whose published version becomes
	// the new core version (e.g. "@bentley/imodeljs-backend").
	CorePackage string `yaml:"core_package"`

	// CoreScope is the npm scope whose dependency entries in
	// package.json files are rewritten to the new core version.
	CoreScope string `yaml:"core_scope"`

	// NativeDependency is the dependency of CorePackage whose version
	// becomes the new native iOS package version.
	NativeDependency string `yaml:"native_dependency"`

	// NativePackage is the Swift/CocoaPods package name pinned in
	// Package.swift and the podspec.
	NativePackage string `yaml:"native_package"`
}

// Constellation is the full release configuration: an ordered set of
// repositories plus registry coordinates. The first repository is the
// root: its tags define the release history and its assets are the
// release uploads.
type Constellation struct {
	Registry Registry `yaml:"registry"`
	Repos    []Repo   `yaml:"repos"`

	// baseDir anchors relative repo paths. It is the directory of the
	// loaded release.yml, or the working directory for defaults.
	baseDir string
}

// Default returns the built-in constellation matching the historical
// SDK layout: the iOS SDK at the base directory with its core, UI,
// samples, and Android siblings alongside.
func Default(baseDir string) *Constellation {
	return &Constellation{
		Registry: Registry{
			CorePackage:      "@bentley/imodeljs-backend",
			CoreScope:        "@bentley",
			NativeDependency: "@bentley/imodeljs-native",
			NativePackage:    "itwin-mobile-ios-package",
		},
		Repos: []Repo{
			{
				Name:    "mobile-sdk-ios",
				Path:    ".",
				Release: true,
				Assets:  []string{"itwin-mobile-sdk.podspec"},
				Manifests: []Manifest{
					{Path: "Package.swift", Kind: model.KindPackageSwift},
					{Path: "Package@swift-5.5.swift", Kind: model.KindPackageSwift},
					{Path: "itwin-mobile-sdk.podspec", Kind: model.KindPodspec},
				},
			},
			{
				Name:    "mobile-sdk-core",
				Path:    "../mobile-sdk-core",
				Release: true,
				Manifests: []Manifest{
					{Path: "package.json", Kind: model.KindPackageJSON},
				},
			},
			{
				Name:    "mobile-ui-react",
				Path:    "../mobile-ui-react",
				Release: true,
				Manifests: []Manifest{
					{Path: "package.json", Kind: model.KindPackageJSON},
				},
			},
			{
				Name: "mobile-sdk-samples",
				Path: "../mobile-sdk-samples",
				Manifests: []Manifest{
					{Path: "ios/MobileStarter/react-app/package.json", Kind: model.KindPackageJSON},
				},
			},
			{
				Name:    "mobile-sdk-android",
				Path:    "../mobile-sdk-android",
				Release: true,
				Manifests: []Manifest{
					{Path: "mobile-sdk/build.gradle", Kind: model.KindGradle},
				},
			},
		},
		baseDir: baseDir,
	}
}

// Load reads a constellation from the YAML file at path. Unknown keys
// are rejected so that typos in release.yml fail loudly instead of
// silently dropping a repository.
func Load(path string) (*Constellation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("cannot read config %s", path), err)
	}

	var c Constellation
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("cannot parse config %s", path), err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("cannot resolve config directory for %s", path), err)
	}
	c.baseDir = abs

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Resolve returns the constellation for an explicit --config path, or
// release.yml in the working directory when present, or the built-in
// defaults anchored at the working directory.
func Resolve(explicitPath string) (*Constellation, error) {
	if explicitPath != "" {
		return Load(explicitPath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "cannot determine working directory", err)
	}

	defaultPath := filepath.Join(cwd, DefaultFileName)
	if _, statErr := os.Stat(defaultPath); statErr == nil {
		return Load(defaultPath)
	}

	log.Debug().Str("base_dir", cwd).Msg("no release.yml found, using built-in constellation")
	c := Default(cwd)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks structural soundness: at least one repo, unique
// names, non-empty paths, known manifest kinds, and registry
// coordinates present whenever a manifest needs them.
func (c *Constellation) Validate() error {
	if len(c.Repos) == 0 {
		return model.NewCLIError(model.ExitConfigError, "config defines no repositories")
	}

	seen := make(map[string]bool, len(c.Repos))
	for _, repo := range c.Repos {
		if repo.Name == "" {
			return model.NewCLIError(model.ExitConfigError, "repository with empty name")
		}
		if seen[repo.Name] {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("duplicate repository name %q", repo.Name))
		}
		seen[repo.Name] = true

		if repo.Path == "" {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("repository %q has no path", repo.Name))
		}

		for _, m := range repo.Manifests {
			if m.Path == "" {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("repository %q has a manifest with no path", repo.Name))
			}
			if !m.Kind.IsValid() {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("repository %q manifest %q has invalid kind %q", repo.Name, m.Path, m.Kind))
			}
			if m.Kind == model.KindPackageJSON && c.Registry.CoreScope == "" {
				return model.NewCLIError(model.ExitConfigError,
					fmt.Sprintf("repository %q uses a package.json manifest but registry.core_scope is not set", repo.Name))
			}
		}
	}

	return nil
}

// Root returns the root repository: the first entry, whose git tags
// define the release history.
func (c *Constellation) Root() Repo {
	return c.Repos[0]
}

// Dir returns the absolute directory of a repository.
func (c *Constellation) Dir(repo Repo) string {
	return filepath.Clean(filepath.Join(c.baseDir, repo.Path))
}

// ManifestPath returns the absolute path of a manifest file inside a
// repository.
func (c *Constellation) ManifestPath(repo Repo, m Manifest) string {
	return filepath.Join(c.Dir(repo), m.Path)
}

// BaseDir returns the directory that anchors relative repo paths.
func (c *Constellation) BaseDir() string {
	return c.baseDir
}
