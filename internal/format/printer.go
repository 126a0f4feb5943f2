package format

import (
	"strings"

	"scriptls/internal/lexer"
	"scriptls/internal/source"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// KeepCommas disables comma spacing normalization.
	KeepCommas bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type frame uint8

const (
	frameBlock frame = iota
	frameArm
)

type printer struct {
	writer *Writer
	opt    Options
	stack  []frame
}

// Format returns text re-indented by block structure. Line content is kept;
// trailing whitespace and trailing blank lines are dropped, line endings
// become "\n" and a non-empty result ends with exactly one newline.
// Formatting already formatted text returns it unchanged.
func Format(text string, opt Options) []byte {
	opt = opt.withDefaults()
	pr := printer{
		writer: NewWriter(len(text)+len(text)/8, opt),
		opt:    opt,
	}
	lines := source.SplitLines(text)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for _, raw := range lines {
		pr.printLine(raw)
		pr.writer.Newline()
	}
	return pr.writer.Bytes()
}

// Changed reports whether Format would modify text.
func Changed(text string, opt Options) bool {
	return string(Format(text, opt)) != strings.ReplaceAll(text, "\r\n", "\n")
}

func (p *printer) printLine(raw string) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return
	}
	line := lexer.ScanLine(body)
	if !p.opt.KeepCommas && line.Balanced() {
		body = NormalizeCommas(line)
		line = lexer.ScanLine(body)
	}

	first, _ := lexer.FirstWord(line.Masked)
	level := len(p.stack)
	switch first.Text {
	case "end":
		if p.top() == frameArm {
			p.pop()
		}
		level = len(p.stack) - 1
	case "else", "elseif":
		if p.top() == frameArm {
			p.pop()
		}
		level = len(p.stack) - 1
	case "case", "default":
		if p.top() == frameArm {
			p.pop()
		}
		level = len(p.stack)
	}
	p.writer.SetIndent(level)
	p.writer.WriteString(body)

	switch first.Text {
	case "case", "default":
		p.stack = append(p.stack, frameArm)
		return
	case "end":
		p.pop()
		return
	}

	from := 0
	if first.Text == "elseif" {
		from = first.End
	}
	if kind, col := lexer.FindBlockOpener(line.Masked, from); kind != lexer.BlockNone {
		if lexer.IndexWord(line.Masked, "end", col) < 0 {
			p.stack = append(p.stack, frameBlock)
		}
	}
}

func (p *printer) top() frame {
	if len(p.stack) == 0 {
		return frameBlock
	}
	return p.stack[len(p.stack)-1]
}

func (p *printer) pop() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}
