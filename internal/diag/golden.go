package diag

import (
	"fmt"
	"path/filepath"
	"strings"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation: "<severity> <code> <path>:<line>:<col> <message>". Order is
// preserved; lines and columns are 1-based. It backs golden files and the CLI
// short output.
func FormatShortDiagnostics(path string, diags []Diagnostic, includeNotes bool) string {
	entries := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		entries = append(entries, collectGoldenEntries(path, &diags[i], includeNotes)...)
	}
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", e.Severity, e.Code, e.Path, e.Line, e.Column, e.Message)
	}
	return b.String()
}

func collectGoldenEntries(path string, d *Diagnostic, includeNotes bool) []goldenDiagnostic {
	path = normalizePath(path)
	start := d.Range.Start.Human()
	out := []goldenDiagnostic{{
		Severity: severityLabel(d.Severity),
		Code:     d.Code.ID(),
		Path:     path,
		Line:     start.Line,
		Column:   start.Col,
		Message:  sanitizeMessage(d.Message),
	}}

	if includeNotes {
		for _, note := range d.Notes {
			nstart := note.Range.Start.Human()
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     path,
				Line:     nstart.Line,
				Column:   nstart.Col,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevHint:
		return "hint"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
