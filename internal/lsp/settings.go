package lsp

import (
	"bytes"
	"encoding/json"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if s.applySettings(params.Settings) {
		s.invalidateSnapshots()
		s.scheduleAll()
	}
	return nil
}

// applySettings merges client settings over the workspace configuration.
// Both {"scriptls": {...}} and a bare settings object are accepted. It
// reports whether anything changed.
func (s *Server) applySettings(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}
	var wrapped lspSettings
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		s.logf("invalid settings: %v", err)
		return false
	}
	settings := wrapped.Scriptls
	if settings.empty() {
		if err := json.Unmarshal(raw, &settings); err != nil {
			s.logf("invalid settings: %v", err)
			return false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if settings.MaxDiagnostics != nil && *settings.MaxDiagnostics != s.cfg.MaxDiagnosticCount {
		s.cfg.MaxDiagnosticCount = *settings.MaxDiagnostics
		changed = true
	}
	if settings.WarnOnHostFunctionCalls != nil && *settings.WarnOnHostFunctionCalls != s.cfg.WarnOnHostFunctionCalls {
		s.cfg.WarnOnHostFunctionCalls = *settings.WarnOnHostFunctionCalls
		changed = true
	}
	if settings.Globals != nil {
		s.cfg.Globals = append([]string(nil), settings.Globals...)
		changed = true
	}
	if settings.Trace != nil {
		s.traceLSP = *settings.Trace
	}
	return changed
}

func (s scriptlsSettings) empty() bool {
	return s.MaxDiagnostics == nil && s.WarnOnHostFunctionCalls == nil && s.Globals == nil && s.Trace == nil
}
