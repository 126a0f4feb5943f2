// Package lexer is the line-local scanner shared by every analysis pass.
//
// The scripted language has no multi-line strings, so all state is reset at
// the start of each physical line. ScanLine walks a line once and reports:
//
//   - where a trailing comment starts (an unescaped '#' outside a string);
//   - whether every quote on the code part of the line is balanced, and if
//     not, the column of the quote that opened the unterminated literal;
//   - a masked copy of the code in which string contents are blanked.
//
// The masked copy has the same length as the code part, so columns found in it
// are valid columns in the raw line. Closed literals become `"` + spaces + `"`
// regardless of their original quote type; an unterminated literal is copied
// verbatim so that keyword checks after it still see the rest of the line.
package lexer
