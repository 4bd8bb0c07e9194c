package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finchlabs/go-bpe-trainer/bpe"
	"github.com/finchlabs/go-bpe-trainer/internal/errors"
)

type decodeOptions struct {
	model string
	input string
}

func newDecodeCmd() *cobra.Command {
	opts := &decodeOptions{}

	cmd := &cobra.Command{
		Use:   "decode [token IDs...]",
		Short: "Turn token IDs back into text",
		Long: `Decode token IDs with a model produced by bpetrain train.

IDs come from the arguments, or from a file of whitespace-separated IDs
given with --input (matching the default output of bpetrain encode).`,
		Example: `  bpetrain decode --model model.json 17 4 42
  bpetrain encode doc.md --model model.json > ids.txt
  bpetrain decode --model model.json --input ids.txt`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "model.json", "path to the trained model file")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "file containing whitespace-separated token IDs")

	return cmd
}

func runDecode(args []string, opts *decodeOptions) error {
	tok, err := bpe.LoadFile(opts.model)
	if err != nil {
		return errors.Parse("loading model", err).WithField("path", opts.model)
	}

	fields := args
	if opts.input != "" {
		if len(args) > 0 {
			return errors.Validation("pass token IDs as arguments or with --input, not both")
		}
		content, err := os.ReadFile(opts.input)
		if err != nil {
			return errors.IO("reading token IDs", err).WithField("path", opts.input)
		}
		fields = strings.Fields(string(content))
	}
	if len(fields) == 0 {
		return errors.Validation("no token IDs to decode")
	}

	tokens := make([]int, len(fields))
	for i, field := range fields {
		id, err := strconv.Atoi(field)
		if err != nil {
			return errors.Parse("parsing token ID", err).WithField("value", field)
		}
		tokens[i] = id
	}

	fmt.Println(tok.Decode([][]int{tokens})[0])
	return nil
}
