package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"scriptls/internal/analyzer"
	"scriptls/internal/source"
)

func newSnapshot(t *testing.T, text string) *docSnapshot {
	t.Helper()
	uri := fileURI(filepath.Join(t.TempDir(), "main.script"))
	doc := source.NewVirtual(documentPath(uri), text)
	return &docSnapshot{
		uri:        uri,
		version:    1,
		snapshotID: 1,
		doc:        doc,
		result:     analyzer.Analyze(doc.Text, analyzer.DefaultOptions()),
	}
}

// positionOf locates the n-th byte after the first occurrence of needle.
// Only ASCII sources are expected here.
func positionOf(t *testing.T, text, needle string, delta int) position {
	t.Helper()
	idx := strings.Index(text, needle)
	if idx < 0 {
		t.Fatalf("missing %q", needle)
	}
	idx += delta
	line := strings.Count(text[:idx], "\n")
	col := idx - (strings.LastIndex(text[:idx], "\n") + 1)
	return position{Line: line, Character: col}
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func readAll(t *testing.T, out []byte) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if err != nil {
			return msgs
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func decode(t *testing.T, data json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", string(data), err)
	}
}
