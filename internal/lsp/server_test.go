package lsp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestServer(out *bytes.Buffer) *Server {
	return NewServer(bytes.NewReader(nil), out, ServerOptions{
		Debounce:  time.Hour,
		LogOutput: io.Discard,
	})
}

func openDocument(t *testing.T, server *Server, uri, text string) {
	t.Helper()
	params := didOpenTextDocumentParams{
		TextDocument: textDocumentItem{URI: uri, LanguageID: "scriptls", Version: 1, Text: text},
	}
	if err := server.handleDidOpen(&rpcMessage{Method: "textDocument/didOpen", Params: mustMarshal(t, params)}); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
}

func flushDiagnostics(server *Server) {
	server.stopTimer()
	server.runDiagnostics(atomic.LoadUint64(&server.latestSeq))
}

func TestPublishDiagnosticsMapping(t *testing.T) {
	uri := fileURI(filepath.Join(t.TempDir(), "main.script"))
	var out bytes.Buffer
	server := newTestServer(&out)

	openDocument(t, server, uri, "var s = \"é\" + y\n")
	flushDiagnostics(server)

	msgs := readAll(t, out.Bytes())
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("expected publishDiagnostics, got %q", msgs[0].Method)
	}
	var params publishDiagnosticsParams
	decode(t, msgs[0].Params, &params)
	if params.URI != uri {
		t.Fatalf("expected uri %q, got %q", uri, params.URI)
	}
	if params.Version == nil || *params.Version != 1 {
		t.Fatalf("expected version 1, got %v", params.Version)
	}
	if len(params.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %+v", params.Diagnostics)
	}
	got := params.Diagnostics[0]
	// é is two bytes but one UTF-16 unit
	if got.Range.Start != (position{Line: 0, Character: 14}) || got.Range.End != (position{Line: 0, Character: 15}) {
		t.Fatalf("unexpected range: %+v", got.Range)
	}
	if got.Severity != 2 || got.Code != "SCR4001" || got.Source != "scriptls" {
		t.Fatalf("unexpected diagnostic: %+v", got)
	}
	if got.Message != "undefined variable `y`" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestStaleRunPublishesNothing(t *testing.T) {
	uri := fileURI(filepath.Join(t.TempDir(), "main.script"))
	var out bytes.Buffer
	server := newTestServer(&out)

	openDocument(t, server, uri, "x\n")
	stale := atomic.LoadUint64(&server.latestSeq)

	change := didChangeTextDocumentParams{
		TextDocument:   versionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []textDocumentContentChangeEvent{{Text: "var x = 1\n"}},
	}
	if err := server.handleDidChange(&rpcMessage{Method: "textDocument/didChange", Params: mustMarshal(t, change)}); err != nil {
		t.Fatalf("didChange: %v", err)
	}
	server.stopTimer()
	server.runDiagnostics(stale)
	if out.Len() != 0 {
		t.Fatalf("stale run must not publish, got %q", out.String())
	}

	server.runDiagnostics(atomic.LoadUint64(&server.latestSeq))
	msgs := readAll(t, out.Bytes())
	if len(msgs) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(msgs))
	}
	var params publishDiagnosticsParams
	decode(t, msgs[0].Params, &params)
	if *params.Version != 2 || len(params.Diagnostics) != 0 {
		t.Fatalf("unexpected publish: %+v", params)
	}
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	uri := fileURI(filepath.Join(t.TempDir(), "main.script"))
	var out bytes.Buffer
	server := newTestServer(&out)

	openDocument(t, server, uri, "end\n")
	flushDiagnostics(server)
	out.Reset()

	closeParams := didCloseTextDocumentParams{TextDocument: textDocumentIdentifier{URI: uri}}
	if err := server.handleDidClose(&rpcMessage{Method: "textDocument/didClose", Params: mustMarshal(t, closeParams)}); err != nil {
		t.Fatalf("didClose: %v", err)
	}
	msgs := readAll(t, out.Bytes())
	if len(msgs) != 1 {
		t.Fatalf("expected clearing publish, got %d messages", len(msgs))
	}
	var params publishDiagnosticsParams
	decode(t, msgs[0].Params, &params)
	if params.URI != uri || len(params.Diagnostics) != 0 {
		t.Fatalf("unexpected publish: %+v", params)
	}
	if server.snapshotFor(uri) != nil {
		t.Fatal("closed document must have no snapshot")
	}
}

func TestSettingsGlobalsSuppressUndefined(t *testing.T) {
	uri := fileURI(filepath.Join(t.TempDir(), "main.script"))
	var out bytes.Buffer
	server := newTestServer(&out)
	openDocument(t, server, uri, "print = player\n")

	if snap := server.snapshotFor(uri); len(snap.result.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics before settings, got %+v", snap.result.Diagnostics)
	}

	settings := `{"settings":{"scriptls":{"globals":["print","player"]}}}`
	if err := server.handleDidChangeConfiguration(&rpcMessage{Params: []byte(settings)}); err != nil {
		t.Fatalf("didChangeConfiguration: %v", err)
	}
	server.stopTimer()
	if snap := server.snapshotFor(uri); len(snap.result.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics after settings, got %+v", snap.result.Diagnostics)
	}
}

func TestRunLifecycle(t *testing.T) {
	var in bytes.Buffer
	for _, payload := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"initialized","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"textDocument/unknown","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		if err := writeMessage(&in, []byte(payload)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	var out bytes.Buffer
	server := NewServer(&in, &out, ServerOptions{Debounce: time.Hour, LogOutput: io.Discard})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExit) {
		t.Fatalf("expected ErrExit, got %v", err)
	}

	msgs := readAll(t, out.Bytes())
	if len(msgs) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(msgs))
	}
	var init initializeResult
	decode(t, msgs[0].Result, &init)
	if init.ServerInfo.Name != "scriptls" {
		t.Fatalf("unexpected server info: %+v", init.ServerInfo)
	}
	if !init.Capabilities.HoverProvider || init.Capabilities.TextDocumentSync.Change != textDocumentSyncIncremental {
		t.Fatalf("unexpected capabilities: %+v", init.Capabilities)
	}
	if msgs[1].Error == nil || msgs[1].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", msgs[1])
	}
	if msgs[2].Error != nil || string(msgs[2].ID) != "3" {
		t.Fatalf("unexpected shutdown response: %+v", msgs[2])
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	var in bytes.Buffer
	if err := writeMessage(&in, []byte(`{"jsonrpc":"2.0","method":"exit"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	server := NewServer(&in, io.Discard, ServerOptions{LogOutput: io.Discard})
	if err := server.Run(context.Background()); !errors.Is(err, ErrExitWithoutShutdown) {
		t.Fatalf("expected ErrExitWithoutShutdown, got %v", err)
	}
}

func TestRunStopsAtEOF(t *testing.T) {
	server := NewServer(strings.NewReader(""), io.Discard, ServerOptions{LogOutput: io.Discard})
	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("expected nil at EOF, got %v", err)
	}
}
