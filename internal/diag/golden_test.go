package diag

import (
	"testing"

	"scriptls/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     BlkUnclosedBlock,
			Message:  "first line\nsecond",
			Range:    source.LineRange(0, 0, 2),
			Notes: []Note{
				{Range: source.LineRange(1, 2, 3), Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaUndefinedVariable,
			Message:  "another",
			Range:    source.LineRange(1, 0, 1),
		},
	}

	expected := "error SCR2002 testdata/sample.script:1:1 first line second\n" +
		"note SCR2002 testdata/sample.script:2:3 note line\n" +
		"warning SCR4001 testdata/sample.script:2:1 another"

	if got := FormatShortDiagnostics("./testdata/sample.script", diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics("x.script", nil, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestBagKeepsFirstN(t *testing.T) {
	bag := NewBag(2)
	for i := range 4 {
		added := bag.Add(New(SevWarning, SemaUndefinedVariable, source.LineRange(i, 0, 1), "x"))
		if want := i < 2; added != want {
			t.Fatalf("Add #%d: expected %v, got %v", i, want, added)
		}
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
	if bag.Items()[1].Range.Start.Line != 1 {
		t.Fatalf("expected discovery order to be kept, got %+v", bag.Items())
	}
}

func TestBagUnlimitedWhenNonPositive(t *testing.T) {
	bag := NewBag(0)
	if bag.Cap() != 65535 {
		t.Fatalf("expected max cap, got %d", bag.Cap())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, BlkUnexpectedEnd, source.LineRange(3, 0, 3), "unexpected `end`").
		WithNote(source.LineRange(0, 0, 1), "here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected single diagnostic, got %d", bag.Len())
	}
	got := bag.Items()[0]
	if got.Severity != SevError || len(got.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", got)
	}
}

func TestSeverityLSP(t *testing.T) {
	cases := map[Severity]int{SevError: 1, SevWarning: 2, SevInfo: 3, SevHint: 4}
	for sev, want := range cases {
		if got := sev.LSP(); got != want {
			t.Fatalf("%s: expected %d, got %d", sev, want, got)
		}
	}
}
