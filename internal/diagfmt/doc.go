// Package diagfmt renders analysis results for terminals and tools.
package diagfmt
