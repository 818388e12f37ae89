package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"textsplit/internal/adapter/chunker"
	"textsplit/internal/adapter/observer"
	"textsplit/internal/domain"
)

// newSplitter builds a splitter from the loaded configuration.
func (a *app) newSplitter() (*chunker.TextSplitter, error) {
	sc, err := a.cfg.SplitterConfig()
	if err != nil {
		return nil, err
	}
	sc.Observer = observer.NewLog(a.logger)
	return chunker.New(sc)
}

func writeChunks(w io.Writer, chunks []domain.Document, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		if chunks == nil {
			chunks = []domain.Document{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(chunks); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		if len(chunks) == 0 {
			_, err := fmt.Fprintln(w, "No chunks.")
			return err
		}
		for _, c := range chunks {
			if _, err := fmt.Fprintf(w, "--- [%d] %s (parent %s) ---\n%s\n\n", c.Order, c.ID, c.ParentDocID, c.Text); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
