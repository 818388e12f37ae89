package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"textsplit/internal/domain"
	"textsplit/internal/usecase"
)

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <doc-id|path>",
		Short: "Print the stored chunks of a document",
		Long: `Print the chunks stored for a document, in order. The document is named by
its id or by the path of the file it was read from. A path selects the store
of the nearest split directory above the file; an id uses the store of the
root directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, start := args[0], a.rootDir
			if _, err := os.Stat(id); err == nil {
				abs, err := filepath.Abs(id)
				if err != nil {
					return fmt.Errorf("invalid path: %w", err)
				}
				id, start = usecase.GenerateDocID(abs), abs
			}

			st, _, err := a.openExisting(start)
			if err != nil {
				return err
			}
			defer st.Close()

			_, src, err := st.GetDocument(id)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("no stored document %q, run 'textsplit split' first", args[0])
			}
			if err != nil {
				return err
			}

			chunks, err := st.GetChunks(id)
			if err != nil {
				return fmt.Errorf("failed to load chunks: %w", err)
			}

			if format == "" {
				format = a.cfg.Output.Format
			}
			if strings.EqualFold(format, "text") {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %d chunks)\n\n", src.Path, src.Lang, len(chunks))
			}
			return writeChunks(cmd.OutOrStdout(), chunks, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(formats, ", "))
	return cmd
}
