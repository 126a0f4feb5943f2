package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
)

// documentPath returns the filesystem path behind a document URI. Schemes
// other than file (untitled:, etc.) have no path and yield "".
func documentPath(uri string) string {
	if uri == "" {
		return ""
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	var p string
	switch parsed.Scheme {
	case "":
		p = uri
	case "file":
		p = parsed.Path
		// file:///C:/dir -> C:/dir
		if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
			p = p[1:]
		}
	default:
		return ""
	}
	if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
		return abs
	}
	return filepath.FromSlash(p)
}

// fileURI builds a file:// URI for path.
func fileURI(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

// canonicalURI normalizes file URIs so that differently escaped spellings of
// the same file share one document entry. Other schemes are kept verbatim.
func canonicalURI(uri string) string {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	if p := documentPath(uri); p != "" {
		return fileURI(p)
	}
	return uri
}
