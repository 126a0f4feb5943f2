package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"scriptls/internal/analyzer"
	"scriptls/internal/diagfmt"
	"scriptls/internal/source"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] <file.script>",
	Short: "List the declarations of a script file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().String("format", "text", "output format (text|json)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	doc, err := source.Load(args[0])
	if err != nil {
		return err
	}
	symbols := analyzer.Symbols(doc.Text)

	switch outputFormat {
	case "text":
		return renderSymbolsText(os.Stdout, symbols)
	case "json":
		return diagfmt.JSON(os.Stdout, []diagfmt.FileInput{{Path: doc.Path, Symbols: symbols}}, diagfmt.JSONOpts{})
	default:
		return fmt.Errorf("symbols: unsupported output format %q", outputFormat)
	}
}

func renderSymbolsText(out io.Writer, symbols []analyzer.Symbol) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, sym := range symbols {
		pos := sym.Range().Start.Human()
		typ := sym.Type
		if typ == "" {
			typ = "-"
		}
		if _, err := fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\n", pos.Line, pos.Col, sym.Name, sym.Kind(), typ); err != nil {
			return err
		}
	}
	return tw.Flush()
}
