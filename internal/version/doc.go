// Package version reports the dkimkey build. Values come from -ldflags at
// release time and fall back to runtime/debug.BuildInfo for go install builds.
package version
