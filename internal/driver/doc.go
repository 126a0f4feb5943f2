// Package driver runs the analyzer and the formatter over files on disk.
//
// Files are analyzed in parallel with bounded concurrency; results keep the
// sorted file order. Analysis results can be cached on disk keyed by content
// and configuration.
package driver
