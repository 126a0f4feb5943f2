package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"scriptls/internal/analyzer"
	"scriptls/internal/config"
	"scriptls/internal/diag"
	"scriptls/internal/observ"
	"scriptls/internal/source"
	"scriptls/internal/stdlib"
	"scriptls/internal/trace"
)

// ErrNoFiles is returned when the given paths contain no scripts.
var ErrNoFiles = errors.New("no script files found")

// CheckOptions configures CheckPaths.
type CheckOptions struct {
	Config config.Config
	// Registry overrides Config.Registry() when set.
	Registry *stdlib.Registry
	// Jobs bounds parallelism; non-positive means GOMAXPROCS.
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
	// Timings records per-phase timings for every file.
	Timings bool
}

// CheckResult is the outcome for one file. Err is set when the file could not
// be read; analysis itself never fails.
type CheckResult struct {
	Path   string
	Doc    *source.Document
	Result analyzer.Result
	Cached bool
	Err    error
	Timing *observ.Report
}

// CheckPaths analyzes every script under paths. Results keep sorted file order.
func CheckPaths(ctx context.Context, paths []string, opts CheckOptions) ([]CheckResult, error) {
	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	reg := opts.Registry
	if reg == nil {
		reg, err = opts.Config.Registry()
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}
	fingerprint := opts.Config.Fingerprint()

	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check", 0)
	defer root.End(fmt.Sprintf("%d files", len(files)))

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path, reg, fingerprint, opts, tracer, root.ID())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func checkFile(path string, reg *stdlib.Registry, fingerprint string, opts CheckOptions, tracer trace.Tracer, parent uint64) CheckResult {
	started := time.Now()
	res := CheckResult{Path: path}
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+path, parent)
	defer func() {
		span.WithExtra("cached", fmt.Sprint(res.Cached)).
			WithExtra("diagnostics", fmt.Sprint(len(res.Result.Diagnostics))).
			End("")
	}()

	emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusWorking})
	doc, err := source.Load(path)
	if err != nil {
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}
	res.Doc = doc

	key := cacheKey(doc, fingerprint)
	var payload DiskPayload
	if ok, cacheErr := opts.Cache.Get(key, &payload); cacheErr == nil && ok {
		res.Result = payloadToResult(&payload)
		res.Cached = true
		trace.Point(tracer, trace.ScopeEvent, "cache", "hit", span.ID())
		emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusCached, Elapsed: time.Since(started)})
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
	aopts := analyzer.OptionsFrom(opts.Config, reg)
	aopts.Trace = tracer
	aopts.TraceParent = span.ID()
	if opts.Timings {
		aopts.Timer = observ.NewTimer()
	}
	res.Result = analyzer.Analyze(doc.Text, aopts)
	if aopts.Timer != nil {
		report := aopts.Timer.Report()
		res.Timing = &report
	}
	// ошибка записи кэша не мешает результату
	_ = opts.Cache.Put(key, resultToPayload(path, res.Result))

	emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusDone, Elapsed: time.Since(started)})
	return res
}

// Summary counts diagnostics across results by severity.
type Summary struct {
	Files    int
	Errors   int
	Warnings int
	Infos    int
	Failed   int
}

// Summarize tallies results.
func Summarize(results []CheckResult) Summary {
	var s Summary
	for _, r := range results {
		s.Files++
		if r.Err != nil {
			s.Failed++
			continue
		}
		for _, d := range r.Result.Diagnostics {
			switch {
			case d.Severity >= diag.SevError:
				s.Errors++
			case d.Severity == diag.SevWarning:
				s.Warnings++
			default:
				s.Infos++
			}
		}
	}
	return s
}

// CombinedTiming folds per-file timing reports into one.
func CombinedTiming(results []CheckResult) observ.Report {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	return observ.Combine(reports...)
}
