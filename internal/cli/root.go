package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"textsplit/config"
	"textsplit/internal/logging"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	rootDir  string
	logLevel string

	splitBy      string
	chunkSize    int
	chunkOverlap int
	tokenizer    string
	workers      int

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the textsplit command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "textsplit",
		Short: "Split text documents into overlapping chunks",
		Long: `textsplit cuts text files into ordered, overlapping chunks by word, token,
sentence, passage or page, and keeps them in a local store with the id of
the document each chunk came from and its position in that document.

Example usage:
  textsplit split .                                  # Split every matching file in the current directory
  textsplit text --split-by token --chunk-size 5 "Some text"
  textsplit show notes/intro.md                      # Print the stored chunks of a file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./textsplit.yaml)")
	flags.StringVarP(&a.rootDir, "dir", "d", "", "root directory (default is current directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.splitBy, "split-by", "", "split unit: word, token, sentence, passage, page")
	flags.IntVar(&a.chunkSize, "chunk-size", 0, "units per chunk")
	flags.IntVar(&a.chunkOverlap, "chunk-overlap", 0, "units repeated between consecutive chunks")
	flags.StringVar(&a.tokenizer, "tokenizer", "", "tokenizer for token mode: lexical, cl100k_base, p50k_base, r50k_base")
	flags.IntVar(&a.workers, "workers", 0, "documents split in parallel (0 = GOMAXPROCS)")

	rootCmd.AddCommand(
		newSplitCmd(a),
		newTextCmd(a),
		newShowCmd(a),
		newStatsCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the config file and applies flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	var err error

	if a.rootDir == "" {
		a.rootDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromDir(a.rootDir)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("split-by") {
		a.cfg.Split.SplitBy = a.splitBy
	}
	if flags.Changed("chunk-size") {
		a.cfg.Split.ChunkSize = a.chunkSize
	}
	if flags.Changed("chunk-overlap") {
		a.cfg.Split.ChunkOverlap = a.chunkOverlap
	}
	if flags.Changed("tokenizer") {
		a.cfg.Split.Tokenizer = a.tokenizer
	}
	if flags.Changed("workers") {
		a.cfg.Split.Workers = a.workers
	}
	if flags.Changed("log-level") {
		a.cfg.Logging.Level = a.logLevel
	}

	a.logger, err = logging.New(logging.Config{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}
