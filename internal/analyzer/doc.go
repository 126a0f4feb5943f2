// Package analyzer is the document analyzer for the scripted language.
//
// It recovers block structure, a symbol table and diagnostics from raw text
// without building an AST. Every call works on one immutable snapshot and keeps
// no state between calls; analysis of a document is a fixed sequence of linear
// passes:
//
//  1. scan       – every line is scanned once by internal/lexer (comment
//     stripping, string balance, masking);
//  2. blocks     – the block tracker and the line rules walk the scanned lines;
//  3. symbols    – declarations are extracted from the whole document;
//  4. semantic   – identifier references are cross-checked against the
//     symbols, the keyword tables and the library registry.
//
// Diagnostics keep discovery order and are capped by Options.MaxDiagnostics.
//
// The symbol namespace is flat: a name declared anywhere in the document is
// visible everywhere. This over-accepts code that a scoped resolver would
// reject and never reports a false "undefined variable" because of scoping.
package analyzer
