package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"scriptls/internal/analyzer"
	"scriptls/internal/diag"
	"scriptls/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	doc := source.NewVirtual("/home/user/project/src/test.script", "var x = \"unterminated\n")
	d := diag.New(diag.SevError, diag.LexUnclosedString, source.LineRange(0, 8, 21), "unclosed string literal")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/project/src/test.script:1:9"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/test.script:1:9"},
		{name: "Basename only", mode: PathModeBasename, contains: "test.script:1:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"}
			if err := Pretty(&buf, doc, []diag.Diagnostic{d}, opts); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("expected %q in output:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	doc := source.NewVirtual("main.script", "var a = 1\nvar c = a + b\n")
	d := diag.New(diag.SevWarning, diag.SemaUndefinedVariable, source.LineRange(1, 12, 13), "undefined variable `b`")

	var buf bytes.Buffer
	if err := Pretty(&buf, doc, []diag.Diagnostic{d}, PrettyOpts{Context: 1}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := strings.Join([]string{
		"main.script:2:13: warning SCR4001: undefined variable `b`",
		"1 | var a = 1",
		"2 | var c = a + b",
		"  |             ^",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyWideRunesAndTabs(t *testing.T) {
	doc := source.NewVirtual("w.script", "\tLog(\"日本\") + zz")
	// "\tLog(\"日本\") + " is 1+4+1+6+1+4 bytes
	start := len("\tLog(\"日本\") + ")
	d := diag.New(diag.SevWarning, diag.SemaUndefinedVariable, source.LineRange(0, start, start+2), "undefined variable `zz`")

	var buf bytes.Buffer
	if err := Pretty(&buf, doc, []diag.Diagnostic{d}, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	wantCaret := "  | \t" + strings.Repeat(" ", len("Log(\"")+4+len("\") + ")) + "^~"
	if lines[2] != wantCaret {
		t.Fatalf("caret line %q, want %q", lines[2], wantCaret)
	}
}

func TestJSONOutput(t *testing.T) {
	res := analyzer.Analyze("var a = b\nbreak", analyzer.DefaultOptions())
	files := []FileInput{
		{Path: "main.script", Diagnostics: res.Diagnostics, Symbols: res.Symbols},
		{Path: "missing.script", Err: errors.New("open missing.script: no such file")},
	}

	var buf bytes.Buffer
	if err := JSON(&buf, files, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || len(out.Files) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	first := out.Files[0]
	if first.Diagnostics[0].Code != "SCR2003" || first.Diagnostics[0].Severity != "ERROR" {
		t.Fatalf("unexpected first diagnostic %+v", first.Diagnostics[0])
	}
	if loc := first.Diagnostics[0].Location; loc.StartLine != 2 || loc.StartCol != 1 || loc.EndCol != 6 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if len(first.Symbols) != 1 || first.Symbols[0].Name != "a" || first.Symbols[0].Kind != "variable" {
		t.Fatalf("unexpected symbols %+v", first.Symbols)
	}
	if out.Files[1].Error == "" {
		t.Fatalf("expected load error to be reported")
	}

	limited := BuildDiagnosticsOutput(files, JSONOpts{Max: 1})
	if limited.Count != 1 {
		t.Fatalf("expected Max to cap per-file output, got %d", limited.Count)
	}
}
