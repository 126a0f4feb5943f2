package lsp

import (
	"fmt"

	"scriptls/internal/analyzer"
	"scriptls/internal/source"
	"scriptls/internal/trace"
)

// snapshotFor returns the analysis of the current text of uri, computing it
// when the stored one is stale. Nil means the document is not open.
func (s *Server) snapshotFor(uri string) *docSnapshot {
	s.mu.Lock()
	open := s.docs[uri]
	if open == nil {
		s.mu.Unlock()
		return nil
	}
	if snap := s.snapshots[uri]; snap != nil && snap.snapshotID == open.snapshotID {
		s.mu.Unlock()
		return snap
	}
	text, version, id := open.text, open.version, open.snapshotID
	opts := analyzer.OptionsFrom(s.cfg, s.registry)
	traceLSP := s.traceLSP
	s.mu.Unlock()

	span := trace.Begin(s.tracer, trace.ScopeFile, "analyze:"+uri, s.sessionSpan)
	opts.Trace = s.tracer
	opts.TraceParent = span.ID()
	doc := source.NewVirtual(documentPath(uri), text)
	snap := &docSnapshot{
		uri:        uri,
		version:    version,
		snapshotID: id,
		doc:        doc,
		result:     analyzer.Analyze(doc.Text, opts),
	}
	span.End(fmt.Sprintf("version %d", version))
	if traceLSP {
		s.logf("analyzed %s: version=%d diagnostics=%d symbols=%d",
			uri, version, len(snap.result.Diagnostics), len(snap.result.Symbols))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.docs[uri]; cur != nil && cur.snapshotID == id {
		s.snapshots[uri] = snap
	}
	return snap
}

func (s *Server) isCurrent(snap *docSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[snap.uri]
	return doc != nil && doc.snapshotID == snap.snapshotID
}

// invalidateSnapshots drops every stored analysis, keeping the texts.
func (s *Server) invalidateSnapshots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.snapshots)
}
