package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/highlight"
)

var renderColor string

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Print the file to stdout with ANSI highlighting",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderColor, "color", "auto",
		"color output: auto, always, never")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch renderColor {
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "auto":
		// leave terminal detection alone
	default:
		return fmt.Errorf("invalid --color value %q (want auto, always or never)", renderColor)
	}

	hl, err := highlight.New(cfg)
	if err != nil {
		return err
	}
	lang, err := highlight.DetectLanguage(args[0])
	if err != nil {
		return err
	}
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	doc := document.New(text)
	hl.LexDocument(doc, lang)
	for _, line := range hl.RenderAll(doc, lang) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
