package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"textsplit/config"
	"textsplit/internal/adapter/fs"
	"textsplit/internal/adapter/memstore"
	"textsplit/internal/adapter/observer"
	"textsplit/internal/adapter/store"
	"textsplit/internal/port"
	"textsplit/internal/usecase"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		dryRun bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "split [path]",
		Short: "Split files and store their chunks",
		Long: `Split every matching file in the specified directory and store the chunks.
The store lives in .textsplit/chunks.db within the target directory. Files
that did not change since the last run are skipped.

Examples:
  textsplit split .                     # Split current directory
  textsplit split /path/to/notes        # Split specific directory
  textsplit split . --dry-run           # Split without writing the store`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.rootDir
			if len(args) > 0 {
				var err error
				path, err = filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("invalid path: %w", err)
				}
			}

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("path does not exist: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("path is not a directory: %s", path)
			}

			splitter, err := a.newSplitter()
			if err != nil {
				return err
			}

			st, dbPath, err := a.openStore(path, dryRun)
			if err != nil {
				return err
			}
			defer st.Close()

			cfg := a.cfg
			walker := fs.NewWalker(cfg.Input.Includes, cfg.Input.Excludes, cfg.Input.MaxFileBytes)
			splitUC := usecase.NewSplitUseCase(st, walker, fs.Reader{}, splitter, a.logger)

			var bar *observer.Progress
			progress := func(total int) port.Observer {
				logObs := observer.NewLog(a.logger)
				if quiet || total == 0 {
					return logObs
				}
				bar = observer.NewProgress(cmd.ErrOrStderr(), total, "Splitting")
				return observer.Multi{bar, logObs}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanning %s...\n", path)

			result, err := splitUC.Split(cmd.Context(), path, progress)
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("splitting failed: %w", err)
			}

			if bolt, ok := st.(*store.BoltStore); ok {
				if err := bolt.Migrate(cfg); err != nil {
					return fmt.Errorf("failed to update schema info: %w", err)
				}
			}

			fmt.Fprintf(out, "\nSplitting complete:\n")
			fmt.Fprintf(out, "  Files split:    %d\n", result.FilesSplit)
			fmt.Fprintf(out, "  Files skipped:  %d (unchanged)\n", result.FilesSkipped)
			fmt.Fprintf(out, "  Files deleted:  %d (removed)\n", result.FilesDeleted)
			fmt.Fprintf(out, "  Chunks created: %d\n", result.ChunksCreated)

			if len(result.Errors) > 0 {
				fmt.Fprintf(out, "\nWarnings:\n")
				for _, e := range result.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}

			if dbPath != "" {
				fmt.Fprintf(out, "\nChunks stored at: %s\n", dbPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "split into an in-memory store and discard the result")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show a progress bar")
	return cmd
}

// openStore opens the bolt store under dir, clearing it when the split
// configuration changed since it was written.
func (a *app) openStore(dir string, inMemory bool) (port.ChunkStore, string, error) {
	if inMemory {
		return memstore.NewMemoryStore(), "", nil
	}

	if err := config.EnsureDataDir(dir); err != nil {
		return nil, "", fmt.Errorf("failed to create .textsplit directory: %w", err)
	}

	dbPath := config.StoreDBPath(dir)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open chunk store: %w", err)
	}

	migration, err := st.CheckMigration(a.cfg)
	if err != nil {
		st.Close()
		return nil, "", fmt.Errorf("failed to check migration: %w", err)
	}

	switch {
	case migration.NeedsRebuild:
		a.logger.Info("clearing chunk store", "reason", migration.Reason)
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, "", fmt.Errorf("failed to clear chunk store: %w", err)
		}
	case migration.NeedsMigration:
		a.logger.Info("migrating chunk store", "reason", migration.Reason)
		if err := st.Migrate(a.cfg); err != nil {
			st.Close()
			return nil, "", fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, dbPath, nil
}
