package diag

import (
	"scriptls/internal/source"
)

type Note struct {
	Range source.Range
	Msg   string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Range    source.Range
	Notes    []Note
}
