// Package hub wraps the release-hosting CLI (gh) for creating hosted
// releases and uploading release assets.
//
// gh stays an opaque child process: it owns authentication (GH_TOKEN,
// keyring), API endpoints, and rate-limit handling for the hosting
// service. Asset uploads are retried with backoff because they are the
// one network write in the pipeline that fails transiently in practice.
package hub
