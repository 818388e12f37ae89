package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"textsplit/config"
	"textsplit/internal/adapter/cache"
	"textsplit/internal/adapter/chunker"
	"textsplit/internal/adapter/fs"
	"textsplit/internal/adapter/observer"
	"textsplit/internal/domain"
	"textsplit/internal/usecase"
)

func main() {
	dir := flag.String("dir", ".", "Directory with text files")
	rounds := flag.Int("n", 3, "Rounds per worker count")
	workerList := flag.String("workers", "1,2,4,8", "Comma separated worker counts")
	flag.Parse()

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	docs, bytes, err := loadDocs(*dir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading files: %v\n", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./corpus")
		fmt.Println("\nNo matching text files found.")
		os.Exit(1)
	}

	fmt.Println("SPLIT THROUGHPUT BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Documents:   %d (%.1f MiB)\n", len(docs), float64(bytes)/(1<<20))
	fmt.Printf("Split by:    %s, size %d, overlap %d\n", cfg.Split.SplitBy, cfg.Split.ChunkSize, cfg.Split.ChunkOverlap)
	if cfg.Split.SplitBy == string(domain.SplitByToken) {
		fmt.Printf("Tokenizer:   %s\n", cfg.Split.Tokenizer)
	}
	fmt.Println(strings.Repeat("-", 70))

	var baseline time.Duration
	for _, w := range parseWorkers(*workerList) {
		cfg.Split.Workers = w
		sc, err := cfg.SplitterConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid split config: %v\n", err)
			os.Exit(1)
		}

		var best time.Duration
		var chunks int
		for r := 0; r < *rounds; r++ {
			bar := observer.NewProgress(os.Stderr, len(docs), fmt.Sprintf("workers=%d", w))
			sc.Observer = bar
			splitter, err := chunker.New(sc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid split config: %v\n", err)
				os.Exit(1)
			}

			start := time.Now()
			out, err := splitter.Split(context.Background(), docs)
			elapsed := time.Since(start)
			_ = bar.Finish()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Split error: %v\n", err)
				os.Exit(1)
			}

			chunks = len(out)
			if best == 0 || elapsed < best {
				best = elapsed
			}
		}
		if baseline == 0 {
			baseline = best
		}

		hitRate := ""
		if ct, ok := sc.Tokenizer.(*cache.CachedTokenizer); ok {
			hitRate = fmt.Sprintf("  token cache hits %.0f%%", ct.Cache().HitRate()*100)
		}

		mibs := float64(bytes) / (1 << 20) / best.Seconds()
		fmt.Printf("workers=%-3d  chunks=%-8d  best=%-8s  %.1f MiB/s  speedup %.2fx%s\n",
			w, chunks, best.Round(time.Microsecond), mibs, float64(baseline)/float64(best), hitRate)
	}
	fmt.Println(strings.Repeat("=", 70))
}

func loadDocs(dir string, cfg *config.Config) ([]domain.Document, int64, error) {
	walker := fs.NewWalker(cfg.Input.Includes, cfg.Input.Excludes, cfg.Input.MaxFileBytes)
	files, err := walker.Walk(context.Background(), dir)
	if err != nil {
		return nil, 0, err
	}

	var (
		docs  []domain.Document
		total int64
	)
	for _, f := range files {
		text, err := fs.ReadFile(f.Path)
		if err != nil {
			continue
		}
		docs = append(docs, domain.NewDocument(usecase.GenerateDocID(f.Path), text, nil))
		total += int64(len(text))
	}
	return docs, total, nil
}

func parseWorkers(list string) []int {
	var out []int
	for _, s := range strings.Split(list, ",") {
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err == nil && n > 0 {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		out = []int{1}
	}
	return out
}
