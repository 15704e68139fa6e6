// Package config loads and validates the release constellation
// description: which sibling repositories take part in a release, which
// manifest files each one carries, and which npm packages supply the
// core and native versions.
//
// The constellation is read from a release.yml file. When no file is
// present, built-in defaults matching the historical SDK layout are
// used, so the tool keeps working when run from the root repository
// without any setup.
package config
