// Package diag defines the diagnostic model shared by the analyzer, the CLI and
// the language server.
//
// # Purpose
//
//   - Provide plain, deterministic records for findings produced by the
//     document analyzer (string scanning, block tracking, line rules and the
//     semantic cross-check).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or presentation.
//
// # Scope
//
// Package diag does not format or publish anything. Rendering lives in
// internal/diagfmt; the language server converts ranges to protocol positions
// itself.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Hint, Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable SCRnnnn form (codes.go).
//   - Message – short, actionable text.
//   - Range – zero-based line/byte-column region (source.Range).
//   - Notes – optional secondary ranges, e.g. where an unclosed block opened.
//
// # Ordering and limits
//
// A Bag keeps diagnostics in discovery order and silently drops anything past
// its cap. Truncation is a presentation concern: the first N findings are kept,
// nothing is reported about the rest. Sort exists for CLI output only.
package diag
