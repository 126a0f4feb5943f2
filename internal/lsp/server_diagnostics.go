package lsp

import (
	"sync/atomic"
	"time"

	"scriptls/internal/diag"
	"scriptls/internal/source"
)

const diagnosticSource = "scriptls"

func (s *Server) scheduleDiagnostics(uri string) {
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	s.mu.Lock()
	if uri != "" {
		s.dirty[uri] = struct{}{}
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

// scheduleAll marks every open document dirty, for example after a settings
// change.
func (s *Server) scheduleAll() {
	s.mu.Lock()
	for uri := range s.docs {
		s.dirty[uri] = struct{}{}
	}
	s.mu.Unlock()
	s.scheduleDiagnostics("")
}

func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) || s.isShuttingDown() {
		return
	}
	s.mu.Lock()
	uris := make([]string, 0, len(s.dirty))
	for uri := range s.dirty {
		uris = append(uris, uri)
	}
	clear(s.dirty)
	s.mu.Unlock()

	for _, uri := range uris {
		if err := s.baseCtx.Err(); err != nil {
			return
		}
		snap := s.snapshotFor(uri)
		if snap == nil {
			continue
		}
		// a newer edit arrived while analyzing; its own run will publish
		if !s.isCurrent(snap) {
			continue
		}
		list := toLSPDiagnostics(snap.doc, snap.result.Diagnostics)
		version := snap.version
		if err := s.sendPublish(uri, &version, list); err != nil {
			s.logf("publish failed: %v", err)
			continue
		}
		s.mu.Lock()
		if len(list) > 0 {
			s.published[uri] = struct{}{}
		} else {
			delete(s.published, uri)
		}
		s.mu.Unlock()
	}
}

func toLSPDiagnostics(doc *source.Document, diags []diag.Diagnostic) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		out = append(out, lspDiagnostic{
			Range:    toLSPRange(doc, d.Range),
			Severity: d.Severity.LSP(),
			Code:     d.Code.ID(),
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return out
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	clear(s.published)
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}
