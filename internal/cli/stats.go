package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"textsplit/config"
	"textsplit/internal/adapter/store"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Show chunk store statistics",
		Long: `Show statistics of the chunk store that covers path (default is the
root directory). The store is looked up in path and its parent directories.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := a.rootDir
			if len(args) > 0 {
				start = args[0]
			}
			st, dbPath, err := a.openExisting(start)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.Stats()
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Store:            %s\n", dbPath)
			fmt.Fprintf(out, "Documents:        %d\n", stats.TotalDocs)
			fmt.Fprintf(out, "Chunks:           %d\n", stats.TotalChunks)
			fmt.Fprintf(out, "Avg chunk length: %.1f bytes\n", stats.AvgChunkLen)

			if info, err := st.GetSchemaInfo(); err == nil {
				fmt.Fprintf(out, "Schema version:   %d\n", info.Version)
				if info.ConfigHash != "" && info.ConfigHash != store.ComputeConfigHash(a.cfg) {
					fmt.Fprintf(out, "\nThe split settings changed since the last run; the next split rebuilds the store.\n")
				}
			}
			return nil
		},
	}
}

// openExisting opens the store covering start without creating one. The
// store of a split directory is found from any file or directory below it.
func (a *app) openExisting(start string) (*store.BoltStore, string, error) {
	dbPath, err := findStore(start)
	if err != nil {
		return nil, "", err
	}
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open chunk store: %w", err)
	}
	return st, dbPath, nil
}

// findStore walks up from start to the nearest directory holding a chunk store.
func findStore(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if dbPath := config.StoreDBPath(dir); fileExists(dbPath) {
			return dbPath, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no chunk store found from %s, run 'textsplit split' first", start)
		}
		dir = parent
	}
}
