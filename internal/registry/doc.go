// Package registry queries the npm registry, via the npm CLI, for the
// published versions the bump command needs: the core package's current
// version and the native package version recorded in its dependencies.
//
// npm stays an opaque child process so that registry selection,
// authentication, and proxy settings keep following the operator's npm
// configuration. Queries are read-only and idempotent, so transient
// failures are retried with backoff.
package registry
