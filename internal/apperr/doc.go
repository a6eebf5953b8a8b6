// Package apperr defines shared error sentinels for the dkimkey application.
// It is a leaf package with no internal imports, allowing any package
// (including low-level transports like doh) to use the sentinels without
// creating import cycles.
package apperr
