package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	docpkg "github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/highlight"
)

var foldCmd = &cobra.Command{
	Use:   "fold [file]",
	Short: "Print the fold structure of the file",
	Long: `fold lexes the file and prints one row per line: the line number, the
packed fold level, a header marker for lines that open a region, and the
line text indented by nesting depth.`,
	Args: cobra.ExactArgs(1),
	RunE: runFold,
}

func init() {
	rootCmd.AddCommand(foldCmd)
}

func runFold(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
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

	doc := docpkg.New(text)
	hl.LexDocument(doc, lang)

	out := cmd.OutOrStdout()
	for line := 0; line < doc.LineCount(); line++ {
		level := doc.Level(line)
		depth := (level & docpkg.FoldLevelNumberMask) - docpkg.FoldLevelBase
		if depth < 0 {
			depth = 0
		}
		header := " "
		if level&docpkg.FoldLevelHeaderFlag != 0 {
			header = "+"
		}
		start := doc.LineStart(line)
		end := doc.LineEnd(line)
		content := strings.TrimRight(string(doc.Text()[start:end]), "\r\n")
		fmt.Fprintf(out, "%4d %04x %s %s%s\n",
			line+1, level&0xffff, header, strings.Repeat("  ", depth), strings.TrimLeft(content, " \t"))
	}
	return nil
}
