package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scriptls/internal/diagfmt"
	"scriptls/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.script|directory> [path...]",
	Short: "Analyze script files and report diagnostics",
	Long:  `Analyze .script files (directories are walked recursively) and report structural, rule and semantic diagnostics`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var errCheckFailed = errors.New("check failed")

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().String("ui", "off", "show progress UI (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Int("context", 0, "source lines of context before each diagnostic")
	checkCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	checkCmd.Flags().Bool("clear-cache", false, "drop the on-disk result cache before checking")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("symbols", false, "include symbols in JSON output")
}

// runCheck analyzes every path, renders the diagnostics and fails when any
// error diagnostic was found or a file could not be read.
func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if outputFormat != "pretty" && outputFormat != "json" {
		return fmt.Errorf("check: unsupported output format %q", outputFormat)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	withSymbols, err := cmd.Flags().GetBool("symbols")
	if err != nil {
		return fmt.Errorf("failed to get symbols flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cfg, err := loadConfig(cmd, configStartDir(args))
	if err != nil {
		return err
	}

	opts := driver.CheckOptions{
		Config:  cfg,
		Jobs:    jobs,
		Timings: showTimings,
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("scriptls")
		switch {
		case cacheErr != nil:
			if !quiet {
				fmt.Fprintf(os.Stderr, "check: cache disabled: %v\n", cacheErr)
			}
		case clearCache:
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("check: clear cache: %w", err)
			}
			opts.Cache = cache
		default:
			opts.Cache = cache
		}
	}

	var results []driver.CheckResult
	if outputFormat == "pretty" && shouldUseTUI(mode) {
		results, err = runCheckWithUI(cmd.Context(), "scriptls check", args, opts)
	} else {
		results, err = driver.CheckPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch outputFormat {
	case "json":
		inputs := make([]diagfmt.FileInput, 0, len(results))
		for _, r := range results {
			in := diagfmt.FileInput{Path: r.Path, Err: r.Err, Diagnostics: r.Result.Diagnostics}
			if withSymbols {
				in.Symbols = r.Result.Symbols
			}
			inputs = append(inputs, in)
		}
		if err := diagfmt.JSON(os.Stdout, inputs, diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: true}); err != nil {
			return err
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   contextLines,
			PathMode:  pathMode,
			ShowNotes: true,
		}
		if wd, wdErr := os.Getwd(); wdErr == nil {
			prettyOpts.BaseDir = filepath.Clean(wd)
		}
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "check: %s: %v\n", r.Path, r.Err)
				continue
			}
			if err := diagfmt.Pretty(os.Stdout, r.Doc, r.Result.Diagnostics, prettyOpts); err != nil {
				return err
			}
		}
	}

	summary := driver.Summarize(results)
	if !quiet && outputFormat == "pretty" {
		printSummary(summary)
	}
	if showTimings {
		printTimings(os.Stderr, driver.CombinedTiming(results))
	}
	if summary.Errors > 0 || summary.Failed > 0 {
		return fmt.Errorf("%w: %d error(s), %d unreadable file(s)", errCheckFailed, summary.Errors, summary.Failed)
	}
	return nil
}

func printSummary(s driver.Summary) {
	fmt.Fprintf(os.Stderr, "checked %d file(s): %d error(s), %d warning(s), %d info\n",
		s.Files, s.Errors, s.Warnings, s.Infos)
}
