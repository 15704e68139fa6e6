// Package rewrite implements the line-by-line regex substitution engine
// that rewrites version strings inside manifest files.
//
// A rewrite is a list of Rules applied to every line of a file. Each
// rule counts how many lines it changed; a rule whose count differs
// from its expectation aborts the rewrite and the file is left exactly
// as it was. This count guard is the only defense against a manifest
// whose shape drifted since the rules were written, so it is strict:
// too many matches is as fatal as too few.
package rewrite
