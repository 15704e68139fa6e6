// Package manifest knows the shape of each version-carrying file in
// the constellation: npm package.json, Swift package manifests,
// CocoaPods podspecs, and Gradle build files.
//
// For each manifest kind it builds the rewrite rules for a version
// change and can read the currently recorded version back out. The
// rules carry expected substitution counts so that a manifest whose
// layout drifted fails the run instead of being half-rewritten.
package manifest
