package driver

import (
	"context"
	"os"

	"scriptls/internal/format"
	"scriptls/internal/source"
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check    bool
	Options  format.Options
	Stdout   bool
	Progress ProgressSink
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Original  string
	Formatted []byte
}

// FormatPaths formats provided files or directories (recursively collecting
// .script files). When opts.Check is true, files are not modified; Changed
// indicates whether formatting would update the file contents. When
// opts.Stdout is true, formatted content is returned in the results without
// touching files on disk.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusWorking})

		result := FormatResult{Path: path}
		doc, err := source.Load(path)
		if err != nil {
			result.Err = err
			results = append(results, result)
			emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusError, Err: err})
			continue
		}
		formatted := format.Format(doc.Text, opts.Options)
		changed := string(formatted) != doc.Text || doc.Flags&(source.DocHadBOM|source.DocNormalizedCRLF) != 0
		result.Original = doc.Text
		result.Formatted = formatted
		result.Changed = changed

		switch {
		case opts.Check, opts.Stdout:
		case changed:
			mode := os.FileMode(0o644)
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(path, formatted, mode.Perm()); err != nil {
				result.Err = err
				result.Changed = false
			}
		}
		results = append(results, result)
		emit(opts.Progress, Event{File: path, Stage: StageFormat, Status: StatusDone})
	}

	return results, nil
}
