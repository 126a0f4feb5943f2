package diag

import "scriptls/internal/source"

func New(sev Severity, code Code, rng source.Range, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Range:    rng,
		Message:  msg,
		Notes:    nil,
	}
}

func (d Diagnostic) WithNote(rng source.Range, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Range: rng, Msg: msg})
	return d
}
