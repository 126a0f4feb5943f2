package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"kr.dev/diff"

	"scriptls/internal/driver"
	"scriptls/internal/format"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format script files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().Bool("diff", false, "with --check, print what would change")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Int("indent", 4, "spaces per indentation level")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs")
	fmtCmd.Flags().Bool("keep-commas", false, "do not normalize spacing after commas")
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return err
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return err
	}
	keepCommas, err := cmd.Flags().GetBool("keep-commas")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	if writeToStdout && check {
		return reportFmtError(fmt.Errorf("fmt: --stdout cannot be used with --check"))
	}
	if writeToStdout && outputFormat != "text" {
		return reportFmtError(fmt.Errorf("fmt: --stdout is only supported with text output"))
	}
	if showDiff && !check {
		return reportFmtError(fmt.Errorf("fmt: --diff requires --check"))
	}

	formatResults, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:  check,
		Stdout: writeToStdout,
		Options: format.Options{
			IndentWidth: indent,
			UseTabs:     tabs,
			KeepCommas:  keepCommas,
		},
	})
	if err != nil {
		return reportFmtError(err)
	}

	var hasErrors bool
	var hasChanges bool

	switch outputFormat {
	case "text":
		if writeToStdout {
			renderFmtStdout(formatResults, &hasErrors)
			if hasErrors {
				return fmt.Errorf("fmt: failed to format some files")
			}
			return nil
		}
		renderFmtText(formatResults, check, quiet, showDiff, &hasErrors, &hasChanges)
	case "json":
		if err := renderFmtJSON(formatResults, check); err != nil {
			return err
		}
		for _, res := range formatResults {
			hasErrors = hasErrors || res.Err != nil
			hasChanges = hasChanges || res.Changed
		}
	default:
		return reportFmtError(fmt.Errorf("fmt: unsupported output format %q", outputFormat))
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && hasChanges {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

func reportFmtError(err error) error {
	fmt.Fprintln(os.Stderr, err)
	return err
}

func renderFmtStdout(results []driver.FormatResult, hasErrors *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = os.Stdout.Write(res.Formatted)
	}
}

func renderFmtText(results []driver.FormatResult, check, quiet, showDiff bool, hasErrors, hasChanges *bool) {
	for _, res := range results {
		if res.Err != nil {
			*hasErrors = true
			fmt.Fprintf(os.Stderr, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}

		if check {
			if res.Changed {
				*hasChanges = true
				if !quiet {
					if _, printErr := fmt.Fprintln(os.Stdout, res.Path); printErr != nil {
						panic(printErr)
					}
				}
				if showDiff {
					printFormatDiff(os.Stdout, res)
				}
			}
			continue
		}

		if res.Changed && !quiet {
			if _, printErr := fmt.Fprintf(os.Stdout, "reformatted %s\n", res.Path); printErr != nil {
				panic(printErr)
			}
		}
	}
}

// printFormatDiff writes one line per difference between the file on disk
// and its formatted form.
func printFormatDiff(w io.Writer, res driver.FormatResult) {
	diff.Each(func(format string, arg ...any) (int, error) {
		return fmt.Fprintf(w, format+"\n", arg...)
	}, res.Original, string(res.Formatted))
}

func renderFmtJSON(results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
