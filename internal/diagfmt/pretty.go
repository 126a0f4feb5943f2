package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scriptls/internal/diag"
	"scriptls/internal/source"
)

type palette struct {
	err, warn, info, hint *color.Color
	path, gutter, caret   *color.Color
	bold                  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		hint:   color.New(color.FgGreen),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgMagenta, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.hint, p.path, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	case diag.SevInfo:
		return p.info
	}
	return p.hint
}

// Pretty форматирует диагностики одного документа в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Range, затем Notes.
func Pretty(w io.Writer, doc *source.Document, diags []diag.Diagnostic, opts PrettyOpts) error {
	if doc == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	path := formatPath(doc.Path, opts.PathMode, opts.BaseDir)

	for _, d := range diags {
		pos := d.Range.Start.Human()
		header := fmt.Sprintf("%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", path, pos.Line, pos.Col),
			pal.severity(d.Severity).Sprint(strings.ToLower(d.Severity.String())),
			pal.bold.Sprint(d.Code.ID()),
			d.Message,
		)
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}
		if err := writeSnippet(w, doc, d.Range, opts.Context, pal); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			npos := note.Range.Start.Human()
			line := fmt.Sprintf("  %s %s:%d:%d: %s\n", pal.gutter.Sprint("="), path, npos.Line, npos.Col, note.Msg)
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSnippet(w io.Writer, doc *source.Document, rng source.Range, context int, pal palette) error {
	line := rng.Start.Line
	if line < 0 || line >= len(doc.Lines) {
		return nil
	}
	first := max(line-max(context, 0), 0)
	width := len(fmt.Sprint(line + 1))

	var b strings.Builder
	for n := first; n <= line; n++ {
		fmt.Fprintf(&b, "%s %s\n", pal.gutter.Sprintf("%*d |", width, n+1), doc.Lines[n])
	}

	text := doc.Lines[line]
	start := min(max(rng.Start.Col, 0), len(text))
	end := len(text)
	if rng.End.Line == line {
		end = min(max(rng.End.Col, start), len(text))
	}
	fmt.Fprintf(&b, "%s %s%s\n",
		pal.gutter.Sprintf("%*s |", width, ""),
		padding(text[:start]),
		pal.caret.Sprint(underline(text[start:end])),
	)
	_, err := io.WriteString(w, b.String())
	return err
}

// padding returns blanks occupying the same display width as s. Tabs are kept
// so the caret lines up whatever the terminal tab width is.
func padding(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(s string) string {
	n := runewidth.StringWidth(s)
	if n <= 1 || utf8.RuneCountInString(s) <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}
