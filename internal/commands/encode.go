package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finchlabs/go-bpe-trainer/bpe"
	"github.com/finchlabs/go-bpe-trainer/internal/corpus"
	"github.com/finchlabs/go-bpe-trainer/internal/errors"
)

type encodeOptions struct {
	model      string
	jsonOutput bool
}

// encodeResult is the JSON form of an encode run.
type encodeResult struct {
	Path       string `json:"path"`
	Characters int    `json:"characters"`
	Tokens     []int  `json:"tokens"`
}

func newEncodeCmd() *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Tokenize a file with a trained model",
		Long: `Tokenize a text file using a model produced by bpetrain train.

Characters outside the model's training alphabet encode to the unknown
symbol. Token IDs are printed space-separated, or as JSON with --json.`,
		Example: `  bpetrain encode document.md --model model.json
  bpetrain encode document.md --model model.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "model.json", "path to the trained model file")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")

	return cmd
}

func runEncode(ctx context.Context, path string, opts *encodeOptions) error {
	tok, err := bpe.LoadFile(opts.model)
	if err != nil {
		return errors.Parse("loading model", err).WithField("path", opts.model)
	}

	text, err := corpus.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	encoded, err := tok.Encode([]string{text})
	if err != nil {
		return errors.Wrap(err, "encoding text")
	}
	tokens := encoded[0]

	if opts.jsonOutput {
		return outputJSON(&encodeResult{
			Path:       path,
			Characters: len(text),
			Tokens:     tokens,
		})
	}

	parts := make([]string, len(tokens))
	for i, id := range tokens {
		parts[i] = fmt.Sprintf("%d", id)
	}
	fmt.Println(strings.Join(parts, " "))
	return nil
}
