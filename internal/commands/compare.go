package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/finchlabs/go-bpe-trainer/bpe"
	"github.com/finchlabs/go-bpe-trainer/internal/corpus"
	"github.com/finchlabs/go-bpe-trainer/internal/errors"
	"github.com/finchlabs/go-bpe-trainer/internal/reference"
	"github.com/finchlabs/go-bpe-trainer/internal/ui"
)

type compareOptions struct {
	model      string
	vocabFile  string
	jsonOutput bool
}

// referenceEncodings are the tiktoken encodings compared against by default.
var referenceEncodings = []string{"cl100k_base", "o200k_base"}

// compareResult is the JSON form of a compare run.
type compareResult struct {
	Path       string             `json:"path"`
	Characters int                `json:"characters"`
	Words      int                `json:"words"`
	Lines      int                `json:"lines"`
	Methods    []reference.Result `json:"methods"`
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Compare a trained model against reference encodings",
		Long: `Count tokens in a file with a trained model and with established
reference encodings side by side.

References include tiktoken encodings (cl100k_base, o200k_base) via both a
runtime-loaded and an embedded vocabulary, and optionally a SentencePiece
model given with --vocab-file. References that fail to initialize (for
example without network access) are skipped; a failed SentencePiece model
is always reported, failed tiktoken encodings only with --verbose.`,
		Example: `  bpetrain compare document.md --model model.json
  bpetrain compare document.md --model model.json --vocab-file tokenizer.model
  bpetrain compare document.md --model model.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "model.json", "path to the trained model file")
	cmd.Flags().StringVar(&opts.vocabFile, "vocab-file", "", "path to a SentencePiece .model file to include")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func runCompare(ctx context.Context, path string, opts *compareOptions) error {
	display := ui.New(noColor, verbose)

	tok, err := bpe.LoadFile(opts.model)
	if err != nil {
		return errors.Parse("loading model", err).WithField("path", opts.model)
	}

	text, err := corpus.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	tokenizers := buildTokenizers(tok, opts, display)
	result := &compareResult{
		Path:       path,
		Characters: len(text),
		Words:      countWords(text),
		Lines:      countLines(text),
		Methods:    reference.Compare(text, tokenizers),
	}

	if opts.jsonOutput {
		return outputJSON(result)
	}
	return outputCompareTable(result)
}

// buildTokenizers assembles the trained model plus every reference that
// initializes successfully.
func buildTokenizers(tok *bpe.Tokenizer, opts *compareOptions, display *ui.UI) []reference.Tokenizer {
	tokenizers := []reference.Tokenizer{
		reference.NewTrainedTokenizer(tok, opts.model),
	}

	for _, encoding := range referenceEncodings {
		if t, err := reference.NewTiktokenTokenizer(encoding); err == nil {
			tokenizers = append(tokenizers, t)
		} else if verbose {
			display.Warning("skipping tiktoken %s: %v", encoding, err)
		}
		if t, err := reference.NewEmbeddedTokenizer(encoding); err == nil {
			tokenizers = append(tokenizers, t)
		} else if verbose {
			display.Warning("skipping embedded %s: %v", encoding, err)
		}
	}

	if opts.vocabFile != "" {
		if t, err := reference.NewSentencePieceTokenizer(opts.vocabFile); err == nil {
			tokenizers = append(tokenizers, t)
		} else {
			display.Warning("skipping SentencePiece: %v", err)
		}
	}

	return tokenizers
}

func outputCompareTable(result *compareResult) error {
	titleStyle, sectionStyle, labelStyle, valStyle := styles()

	fmt.Println(titleStyle.Render("Token Count Comparison for: " + result.Path))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Basic Statistics"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Characters:"), valStyle.Render(formatInt(result.Characters)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Words:"), valStyle.Render(formatInt(result.Words)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Lines:"), valStyle.Render(formatInt(result.Lines)))
	fmt.Println()

	rows := make([][]string, 0, len(result.Methods))
	for _, method := range result.Methods {
		accuracy := "Approx"
		if method.IsExact {
			accuracy = "Exact"
		}
		rows = append(rows, []string{method.DisplayName, formatInt(method.Tokens), accuracy})
	}

	purple := lipgloss.Color("99")
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(purple).Align(lipgloss.Center)
	cellStyle := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	tokenCellStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		Headers("Method", "Tokens", "Accuracy").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return tokenCellStyle
			}
			if col == 2 && row >= 0 && row < len(rows) {
				if rows[row][2] == "Exact" {
					return cellStyle.Foreground(lipgloss.Color("10"))
				}
				return cellStyle.Foreground(lipgloss.Color("245"))
			}
			return cellStyle
		})

	fmt.Println(sectionStyle.Render("Token Counts by Method"))
	fmt.Println(t)

	return nil
}

// countWords counts whitespace-separated words.
func countWords(text string) int {
	return len(strings.FieldsFunc(text, unicode.IsSpace))
}

// countLines counts newline-terminated lines; a trailing newline does not
// add an empty line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n") + 1
	if strings.HasSuffix(text, "\n") {
		n--
	}
	return n
}
