package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finchlabs/go-bpe-trainer/bpe"
	"github.com/finchlabs/go-bpe-trainer/internal/corpus"
	"github.com/finchlabs/go-bpe-trainer/internal/errors"
	"github.com/finchlabs/go-bpe-trainer/internal/ui"
)

type trainOptions struct {
	vocabSize  int
	output     string
	recursive  bool
	perLine    bool
	jsonOutput bool
}

// trainReport summarizes a completed training run.
type trainReport struct {
	Path          string `json:"path"`
	Documents     int    `json:"documents"`
	Characters    int    `json:"characters"`
	AlphabetSize  int    `json:"alphabet_size"`
	Merges        int    `json:"merges"`
	VocabSize     int    `json:"vocab_size"`
	CorpusTokens  int    `json:"corpus_tokens"`
	CorpusSymbols int    `json:"corpus_symbols"`
	Output        string `json:"output"`
}

func newTrainCmd() *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train [file|directory]",
		Short: "Learn a BPE vocabulary from a text corpus",
		Long: `Learn BPE merge rules from a file or directory of text and write the
trained model to a JSON file.

The vocabulary size counts base characters, the reserved unknown symbol,
and merged symbols together. Training stops early if the corpus runs out
of repeated pairs.`,
		Example: `  bpetrain train corpus.txt --vocab-size 512 --output model.json
  bpetrain train -r ./docs --vocab-size 2048 --output model.json
  bpetrain train corpus.txt --per-line --vocab-size 256 --output model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.vocabSize, "vocab-size", 512, "target vocabulary size (alphabet + unknown + merges)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "model.json", "path for the trained model file")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "train on every text file under a directory")
	cmd.Flags().BoolVar(&opts.perLine, "per-line", false, "treat every non-empty line as its own training document")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output the training report as JSON")

	return cmd
}

func runTrain(ctx context.Context, path string, opts *trainOptions) error {
	display := ui.New(noColor, verbose)

	if opts.vocabSize < 1 {
		return errors.Validation("vocab-size must be at least 1").WithField("vocab-size", opts.vocabSize)
	}

	documents, err := loadDocuments(ctx, path, opts.recursive, display)
	if err != nil {
		return err
	}
	if opts.perLine {
		documents = corpus.SplitLines(documents)
	}

	tok := bpe.New(opts.vocabSize)
	merges, err := tok.Train(documents)
	if err != nil {
		return errors.Wrap(err, "training tokenizer")
	}

	if err := tok.SaveFile(opts.output); err != nil {
		return errors.IO("writing model", err).WithField("path", opts.output)
	}

	report := &trainReport{
		Path:         path,
		Documents:    len(documents),
		AlphabetSize: tok.AlphabetSize(),
		Merges:       len(merges),
		VocabSize:    tok.VocabSize(),
		Output:       opts.output,
	}
	for _, doc := range documents {
		report.Characters += len(doc)
	}

	// Re-encode the corpus to report how well the vocabulary compresses it.
	encoded, err := tok.Encode(documents)
	if err != nil {
		return errors.Wrap(err, "encoding corpus for report")
	}
	for i, tokens := range encoded {
		report.CorpusTokens += len(tokens)
		report.CorpusSymbols += len([]rune(documents[i]))
	}

	if opts.jsonOutput {
		return outputJSON(report)
	}
	return outputTrainReport(report)
}

// loadDocuments reads the corpus from a file or, with recursive set, from
// every text file under a directory.
func loadDocuments(ctx context.Context, path string, recursive bool, display *ui.UI) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.IO("accessing path", err).WithField("path", path)
	}

	if info.IsDir() {
		if !recursive {
			return nil, errors.Validation("path is a directory — use --recursive to train on all files").WithField("path", path)
		}
		documents, stats, err := corpus.LoadDirectory(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(documents) == 0 {
			return nil, errors.NotFound("text files in directory").WithField("path", path)
		}
		if verbose {
			display.Info("Found %d text files (skipped %d binary, %d ignored)",
				len(documents), stats.SkippedBinary, stats.SkippedIgnore)
		}
		return documents, nil
	}

	document, err := corpus.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return []string{document}, nil
}

func outputTrainReport(report *trainReport) error {
	titleStyle, sectionStyle, labelStyle, valStyle := styles()

	fmt.Println(titleStyle.Render("Training Report for: " + report.Path))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Corpus"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Documents:"), valStyle.Render(formatInt(report.Documents)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Characters:"), valStyle.Render(formatInt(report.Characters)))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Vocabulary"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Alphabet:"), valStyle.Render(formatInt(report.AlphabetSize)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Merges:"), valStyle.Render(formatInt(report.Merges)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Total size:"), valStyle.Render(formatInt(report.VocabSize)))
	fmt.Println()

	fmt.Println(sectionStyle.Render("Compression"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Base symbols:"), valStyle.Render(formatInt(report.CorpusSymbols)))
	fmt.Printf("  %s %s\n", labelStyle.Render("Tokens:"), valStyle.Render(formatInt(report.CorpusTokens)))
	if report.CorpusTokens > 0 {
		ratio := float64(report.CorpusSymbols) / float64(report.CorpusTokens)
		fmt.Printf("  %s %s\n", labelStyle.Render("Ratio:"), valStyle.Render(fmt.Sprintf("%.2f symbols/token", ratio)))
	}
	fmt.Println()

	fmt.Printf("Model written to %s\n", report.Output)
	return nil
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
