package diagfmt

import (
	"encoding/json"
	"io"

	"scriptls/internal/analyzer"
	"scriptls/internal/diag"
	"scriptls/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON (1-based).
type LocationJSON struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// SymbolJSON is one declaration.
type SymbolJSON struct {
	Name     string       `json:"name"`
	Type     string       `json:"type,omitempty"`
	Kind     string       `json:"kind"`
	Location LocationJSON `json:"location"`
}

// FileJSON groups the output of one file.
type FileJSON struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
	Symbols     []SymbolJSON     `json:"symbols,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

// FileInput is what the JSON writer needs about one file.
type FileInput struct {
	Path        string
	Err         error
	Diagnostics []diag.Diagnostic
	Symbols     []analyzer.Symbol
}

func makeLocation(path string, rng source.Range) LocationJSON {
	start, end := rng.Start.Human(), rng.End.Human()
	return LocationJSON{
		File:      path,
		StartLine: int(start.Line),
		StartCol:  int(start.Col),
		EndLine:   int(end.Line),
		EndCol:    int(end.Col),
	}
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(files []FileInput, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Files: make([]FileJSON, 0, len(files))}
	for _, f := range files {
		path := formatPath(f.Path, opts.PathMode, opts.BaseDir)
		fj := FileJSON{Path: path}
		if f.Err != nil {
			fj.Error = f.Err.Error()
		}

		items := f.Diagnostics
		if opts.Max > 0 && opts.Max < len(items) {
			items = items[:opts.Max]
		}
		for _, d := range items {
			dj := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message,
				Location: makeLocation(path, d.Range),
			}
			if opts.IncludeNotes && len(d.Notes) > 0 {
				dj.Notes = make([]NoteJSON, len(d.Notes))
				for j, note := range d.Notes {
					dj.Notes[j] = NoteJSON{Message: note.Msg, Location: makeLocation(path, note.Range)}
				}
			}
			fj.Diagnostics = append(fj.Diagnostics, dj)
		}
		out.Count += len(fj.Diagnostics)

		for _, s := range f.Symbols {
			fj.Symbols = append(fj.Symbols, SymbolJSON{
				Name:     s.Name,
				Type:     s.Type,
				Kind:     s.Kind(),
				Location: makeLocation(path, s.Range()),
			})
		}
		out.Files = append(out.Files, fj)
	}
	return out
}

// JSON форматирует результаты в JSON формат.
func JSON(w io.Writer, files []FileInput, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(files, opts))
}
