// Package commands implements the bpetrain command-line interface.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	noColor bool
	verbose bool
)

// Execute runs the root command with the given version string.
func Execute(version string) {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bpetrain",
		Version: version,
		Short:   "Train and apply byte-pair encoding tokenizers",
		Long: `Train a byte-pair encoding (BPE) tokenizer on your own text and use it.

Training learns an ordered list of pair merges by repeatedly replacing the
most frequent adjacent symbol pair across the corpus with a new symbol.
The result is saved as a JSON model file that encode, decode, and compare
read back.

When training on a directory with --recursive, the command:
  - Respects the .gitignore file at the directory root
  - Skips binary files automatically
  - Treats every text file as one training document`,
		Example: `  bpetrain train corpus.txt --vocab-size 512 --output model.json
  bpetrain train -r ./docs --vocab-size 2048 --output model.json
  bpetrain encode document.md --model model.json
  bpetrain decode --model model.json 17 4 42
  bpetrain compare document.md --model model.json`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	cmd.AddCommand(newTrainCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newCompareCmd())

	return cmd
}

// styles returns lipgloss styles for output rendering.
func styles() (title, section, label, valStyle lipgloss.Style) {
	purple := lipgloss.Color("99")
	dim := lipgloss.Color("245")

	title = lipgloss.NewStyle().Bold(true).Foreground(purple)
	section = lipgloss.NewStyle().Bold(true).Foreground(purple)
	label = lipgloss.NewStyle().Foreground(dim)
	valStyle = lipgloss.NewStyle()
	return
}

// formatInt formats an integer with comma thousand separators.
func formatInt(n int) string {
	if n < 0 {
		return "-" + formatInt(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		b.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
