package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scriptls/internal/config"
	"scriptls/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "scriptls",
	Short: "Analyzer, formatter and language server for scripts",
	Long:  `scriptls checks .script files for structural and semantic problems, formats them and serves editors over LSP`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		mode, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		enabled, err := colorEnabled(mode)
		if err != nil {
			return err
		}
		color.NoColor = !enabled

		stopTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTrace)
		stopProfile, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfile)
		return nil
	},
}

// cleanups run after the command finishes, also on error, since cobra skips
// PersistentPostRun when RunE fails.
var cleanups []func()

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from config)")
	rootCmd.PersistentFlags().Bool("host-calls", true, "report calls to unknown PascalCase functions")
	rootCmd.PersistentFlags().String("config", "", "path to scriptls.toml (default: searched upwards)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (\"-\" for stderr, *.ndjson for JSON)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail|debug)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
}

// main runs the root command; any returned error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

// loadConfig resolves scriptls.toml (explicit --config or searched from
// startDir) and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command, startDir string) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(startDir)
	}
	if err != nil {
		return config.Config{}, err
	}

	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return config.Config{}, err
	}
	if maxDiagnostics > 0 {
		cfg.MaxDiagnosticCount = maxDiagnostics
	}
	if flags.Changed("host-calls") {
		hostCalls, err := flags.GetBool("host-calls")
		if err != nil {
			return config.Config{}, err
		}
		cfg.WarnOnHostFunctionCalls = hostCalls
	}
	return cfg, nil
}

// configStartDir picks the directory config discovery starts from.
func configStartDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	info, err := os.Stat(args[0])
	if err != nil || info.IsDir() {
		return args[0]
	}
	return filepath.Dir(args[0])
}
