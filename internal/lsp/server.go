package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"scriptls/internal/analyzer"
	"scriptls/internal/config"
	"scriptls/internal/source"
	"scriptls/internal/stdlib"
	"scriptls/internal/trace"
	"scriptls/internal/version"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// JSON-RPC error codes.
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Debounce time.Duration
	// Config, when set, is used as is; otherwise scriptls.toml is looked up
	// from the workspace root on initialize.
	Config *config.Config
	// Registry overrides the catalog derived from the configuration.
	Registry *stdlib.Registry
	// LogOutput receives server logs; nil means stderr.
	LogOutput io.Writer
	// Tracer receives a session span, one span per analysis and one point
	// per request. Nil disables tracing.
	Tracer trace.Tracer
}

type openDoc struct {
	text       string
	version    int
	snapshotID int64
}

// docSnapshot is one analysis of one document version. It is immutable once
// stored.
type docSnapshot struct {
	uri        string
	version    int
	snapshotID int64
	doc        *source.Document
	result     analyzer.Result
}

// Server handles stdio JSON-RPC for the scripted-language server.
type Server struct {
	in        *bufio.Reader
	out       *bufio.Writer
	sendMu    sync.Mutex
	mu        sync.Mutex
	docs      map[string]*openDoc
	snapshots map[string]*docSnapshot
	dirty     map[string]struct{}
	published map[string]struct{}

	workspaceRoot     string
	shutdownRequested bool
	debounce          time.Duration
	debounceTimer     *time.Timer
	analysisSeq       uint64
	latestSeq         uint64
	baseCtx           context.Context
	cfg               config.Config
	cfgFixed          bool
	registry          *stdlib.Registry
	registryFixed     bool
	traceLSP          bool
	logOut            io.Writer
	tracer            trace.Tracer
	sessionSpan       uint64
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	reg := opts.Registry
	if reg == nil {
		reg = stdlib.Default()
	}
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = os.Stderr
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Server{
		in:            bufio.NewReader(in),
		out:           bufio.NewWriter(out),
		docs:          make(map[string]*openDoc),
		snapshots:     make(map[string]*docSnapshot),
		dirty:         make(map[string]struct{}),
		published:     make(map[string]struct{}),
		debounce:      debounce,
		baseCtx:       context.Background(),
		cfg:           cfg,
		cfgFixed:      opts.Config != nil,
		registry:      reg,
		registryFixed: opts.Registry != nil,
		logOut:        logOut,
		tracer:        tracer,
	}
}

// Run serves LSP requests until exit or end of input.
func (s *Server) Run(ctx context.Context) error {
	s.baseCtx = ctx
	defer s.stopTimer()
	session := trace.Begin(s.tracer, trace.ScopeDriver, "lsp", 0)
	s.sessionSpan = session.ID()
	defer session.End("")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		trace.Point(s.tracer, trace.ScopeEvent, msg.Method, "", s.sessionSpan)
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	if msg.Method != "exit" && msg.Method != "shutdown" && s.isShuttingDown() {
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
		return nil
	}
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.isShuttingDown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/signatureHelp":
		return s.handleSignatureHelp(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := ""
	if params.RootURI != "" {
		root = documentPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = documentPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	s.mu.Lock()
	s.workspaceRoot = root
	s.mu.Unlock()

	s.loadWorkspaceConfig(root)
	s.applySettings(params.InitializationOptions)

	result := initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    textDocumentSyncIncremental,
				Save: saveOptions{
					IncludeText: true,
				},
			},
			HoverProvider:              true,
			DefinitionProvider:         true,
			DocumentSymbolProvider:     true,
			DocumentFormattingProvider: true,
			FoldingRangeProvider:       true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{".", ":"},
			},
			SignatureHelpProvider: &signatureHelpOptions{
				TriggerCharacters: []string{"(", ","},
			},
		},
		ServerInfo: serverInfo{Name: "scriptls", Version: version.Version},
	}
	return s.sendResponse(msg.ID, result)
}

// loadWorkspaceConfig reads scriptls.toml for root unless the configuration
// was fixed by the embedder.
func (s *Server) loadWorkspaceConfig(root string) {
	s.mu.Lock()
	fixed, regFixed := s.cfgFixed, s.registryFixed
	s.mu.Unlock()
	if fixed || root == "" {
		return
	}
	cfg, err := config.Load(root)
	if err != nil {
		s.logf("config: %v", err)
		return
	}
	var reg *stdlib.Registry
	if !regFixed {
		reg, err = cfg.Registry()
		if err != nil {
			s.logf("catalog: %v", err)
			reg = nil
		}
	}
	s.mu.Lock()
	s.cfg = cfg
	if reg != nil {
		s.registry = reg
	}
	s.mu.Unlock()
	if cfg.Path != "" {
		s.logf("loaded %s", cfg.Path)
	}
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	s.stopTimer()
	s.clearPublishedDiagnostics()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	prev := s.docs[uri]
	var id int64 = 1
	if prev != nil {
		id = prev.snapshotID + 1
	}
	s.docs[uri] = &openDoc{text: params.TextDocument.Text, version: params.TextDocument.Version, snapshotID: id}
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		doc = &openDoc{}
		s.docs[uri] = doc
	}
	doc.text = applyChanges(doc.text, params.ContentChanges)
	doc.version = params.TextDocument.Version
	doc.snapshotID++
	traceLSP := s.traceLSP
	snapshotID := doc.snapshotID
	s.mu.Unlock()
	if traceLSP {
		s.logf("didChange: uri=%s version=%d snapshotID=%d", uri, params.TextDocument.Version, snapshotID)
	}
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	if params.Text != nil && *params.Text != doc.text {
		doc.text = *params.Text
		doc.snapshotID++
	}
	s.mu.Unlock()
	s.scheduleDiagnostics(uri)
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	uri := canonicalURI(params.TextDocument.URI)
	if uri == "" {
		return nil
	}
	s.mu.Lock()
	delete(s.docs, uri)
	delete(s.snapshots, uri)
	delete(s.dirty, uri)
	_, hadDiagnostics := s.published[uri]
	delete(s.published, uri)
	s.mu.Unlock()
	if hadDiagnostics {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": publishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: list,
		},
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

func (s *Server) logf(format string, args ...any) {
	fmt.Fprintf(s.logOut, "lsp: "+format+"\n", args...)
}

func (s *Server) isShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) isLatestSeq(seq uint64) bool {
	if seq == 0 {
		return false
	}
	return seq == atomic.LoadUint64(&s.latestSeq)
}

func (s *Server) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}
