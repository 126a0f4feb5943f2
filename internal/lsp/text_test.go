package lsp

import "testing"

func TestApplyChangesIncremental(t *testing.T) {
	text := "var a = 1\nvar b = 2\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{{
		Range: &lspRange{
			Start: position{Line: 1, Character: 4},
			End:   position{Line: 1, Character: 5},
		},
		Text: "total",
	}})
	if want := "var a = 1\nvar total = 2\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyChangesFullReplace(t *testing.T) {
	got := applyChanges("old", []textDocumentContentChangeEvent{{Text: "new"}})
	if got != "new" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyChangesUTF16(t *testing.T) {
	// 😀 is two UTF-16 code units and four bytes
	text := "var s = \"😀\" + x\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{{
		Range: &lspRange{
			Start: position{Line: 0, Character: 15},
			End:   position{Line: 0, Character: 16},
		},
		Text: "y",
	}})
	if want := "var s = \"😀\" + y\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyChangesPastEndClamps(t *testing.T) {
	got := applyChanges("abc", []textDocumentContentChangeEvent{{
		Range: &lspRange{
			Start: position{Line: 5, Character: 0},
			End:   position{Line: 5, Character: 0},
		},
		Text: "!",
	}})
	if got != "abc!" {
		t.Fatalf("got %q", got)
	}
}
