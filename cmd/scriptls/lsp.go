package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"scriptls/internal/lsp"
	"scriptls/internal/trace"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 300*time.Millisecond, "delay between an edit and re-analysis")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	opts := lsp.ServerOptions{
		Debounce: debounce,
		Tracer:   trace.FromContext(cmd.Context()),
	}
	// an explicit --config pins the configuration; otherwise the server looks
	// for scriptls.toml in the workspace root on initialize
	if cmd.Root().PersistentFlags().Changed("config") {
		cfg, err := loadConfig(cmd, ".")
		if err != nil {
			return err
		}
		opts.Config = &cfg
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, opts)
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
