package diag

// Severity defines the importance of a diagnostic. Values are ordered so
// that a larger severity is more serious.
type Severity uint8

const (
	SevHint    Severity = iota // editor-only hint
	SevInfo                    // informational note, e.g. a host function call
	SevWarning                 // suspicious but runnable
	SevError                   // the script will not run as written
)

var severityNames = [...]string{
	SevHint:    "HINT",
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

// lspSeverity maps to DiagnosticSeverity of the language server protocol.
var lspSeverity = [...]int{
	SevHint:    4,
	SevInfo:    3,
	SevWarning: 2,
	SevError:   1,
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// LSP returns the protocol severity number; unknown values map to Hint.
func (s Severity) LSP() int {
	if int(s) < len(lspSeverity) {
		return lspSeverity[s]
	}
	return 4
}
