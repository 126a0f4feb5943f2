package lsp

import (
	"testing"

	"scriptls/internal/stdlib"
)

func completionLabels(list completionList) map[string]int {
	labels := make(map[string]int, len(list.Items))
	for _, item := range list.Items {
		labels[item.Label] = item.Kind
	}
	return labels
}

func TestCompletionTypeAnnotation(t *testing.T) {
	snap := newSnapshot(t, "var total = 1\nvar t: \n")
	list := buildCompletion(snap, stdlib.Default(), nil, position{Line: 1, Character: 7})
	if len(list.Items) != 5 {
		t.Fatalf("expected 5 type keywords, got %+v", list.Items)
	}
	for _, item := range list.Items {
		if item.Kind != completionKindTypeName {
			t.Fatalf("unexpected item %+v", item)
		}
	}
}

func TestCompletionMembers(t *testing.T) {
	src := "player.name = 1\nplayer.score = 2\nplayer.stats.hp = 3\nvar s = player.\n"
	snap := newSnapshot(t, src)
	list := buildCompletion(snap, stdlib.Default(), nil, position{Line: 3, Character: 15})
	want := []string{"name", "score", "stats"}
	if len(list.Items) != len(want) {
		t.Fatalf("expected %v, got %+v", want, list.Items)
	}
	for i, label := range want {
		if list.Items[i].Label != label || list.Items[i].Kind != completionKindProperty {
			t.Fatalf("item %d: expected %q, got %+v", i, label, list.Items[i])
		}
	}
}

func TestCompletionGeneral(t *testing.T) {
	snap := newSnapshot(t, "var total = 1\nto\n")
	list := buildCompletion(snap, stdlib.Default(), []string{"tokens"}, position{Line: 1, Character: 2})
	labels := completionLabels(list)
	for label, kind := range map[string]int{
		"total":   completionKindVariable,
		"tokens":  completionKindVariable,
		"ToUpper": completionKindFunction,
		"ToLower": completionKindFunction,
		"to":      completionKindKeyword,
	} {
		got, ok := labels[label]
		if !ok {
			t.Fatalf("missing %q in %v", label, labels)
		}
		if got != kind {
			t.Fatalf("%q: expected kind %d, got %d", label, kind, got)
		}
	}
	if _, ok := labels["var"]; ok {
		t.Fatalf("prefix filter must drop %q", "var")
	}
}

func TestCompletionInsideString(t *testing.T) {
	snap := newSnapshot(t, "var s = \"ab\n")
	list := buildCompletion(snap, stdlib.Default(), nil, position{Line: 0, Character: 11})
	if len(list.Items) != 0 {
		t.Fatalf("expected no items inside a string, got %+v", list.Items)
	}
}
