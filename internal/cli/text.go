package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"textsplit/internal/domain"
)

func newTextCmd(a *app) *cobra.Command {
	var (
		id     string
		format string
	)

	cmd := &cobra.Command{
		Use:   "text [text]",
		Short: "Split text given as an argument or on stdin",
		Long: `Split a single piece of text and print its chunks. Without an argument the
text is read from stdin. Nothing is stored.

Examples:
  textsplit text --split-by word --chunk-size 5 --chunk-overlap 1 "Example text. More example text."
  cat notes.txt | textsplit text --format text`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			splitter, err := a.newSplitter()
			if err != nil {
				return err
			}

			chunks, err := splitter.SplitDocument(domain.NewDocument(id, text, nil))
			if err != nil {
				return err
			}

			if format == "" {
				format = a.cfg.Output.Format
			}
			return writeChunks(cmd.OutOrStdout(), chunks, format)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document id (default is a random uuid)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(formats, ", "))
	return cmd
}

var formats = []string{"json", "yaml", "text"}
