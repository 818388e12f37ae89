package chunker

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"textsplit/internal/adapter/analyzer"
	"textsplit/internal/domain"
	"textsplit/internal/port"
)

// Config controls how a TextSplitter cuts documents.
type Config struct {
	SplitBy      domain.SplitBy
	ChunkSize    int
	ChunkOverlap int

	// Tokenizer is used in token mode. Nil selects the lexical tokenizer.
	Tokenizer port.Tokenizer

	// Workers bounds how many documents are split at once. Zero means GOMAXPROCS.
	Workers int

	Observer port.Observer

	// KeepMetaData copies the parent's MetaData onto each chunk.
	KeepMetaData bool
}

// TextSplitter slides a fixed window of units over each document's text.
type TextSplitter struct {
	splitBy   domain.SplitBy
	size      int
	overlap   int
	tokenizer port.Tokenizer
	workers   int
	observer  port.Observer
	keepMeta  bool
}

var _ port.Splitter = (*TextSplitter)(nil)

// New validates cfg and returns a splitter. Every configuration problem is
// reported here as a *domain.ConfigurationError.
func New(cfg Config) (*TextSplitter, error) {
	if !cfg.SplitBy.Valid() {
		return nil, &domain.ConfigurationError{Field: "split_by", Value: cfg.SplitBy, Reason: "must be one of word, token, sentence, passage, page"}
	}
	if cfg.ChunkSize <= 0 {
		return nil, &domain.ConfigurationError{Field: "chunk_size", Value: cfg.ChunkSize, Reason: "must be positive"}
	}
	if cfg.ChunkOverlap < 0 {
		return nil, &domain.ConfigurationError{Field: "chunk_overlap", Value: cfg.ChunkOverlap, Reason: "must not be negative"}
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, &domain.ConfigurationError{
			Field:  "chunk_overlap",
			Value:  cfg.ChunkOverlap,
			Reason: fmt.Sprintf("must be smaller than chunk_size (%d)", cfg.ChunkSize),
		}
	}
	if cfg.Workers < 0 {
		return nil, &domain.ConfigurationError{Field: "workers", Value: cfg.Workers, Reason: "must not be negative"}
	}

	s := &TextSplitter{
		splitBy:   cfg.SplitBy,
		size:      cfg.ChunkSize,
		overlap:   cfg.ChunkOverlap,
		tokenizer: cfg.Tokenizer,
		workers:   cfg.Workers,
		observer:  cfg.Observer,
		keepMeta:  cfg.KeepMetaData,
	}
	if s.splitBy == domain.SplitByToken && s.tokenizer == nil {
		s.tokenizer = analyzer.NewLexicalTokenizer()
	}
	if s.workers == 0 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	return s, nil
}

// WithObserver returns a copy of s reporting to o.
func (s *TextSplitter) WithObserver(o port.Observer) *TextSplitter {
	cp := *s
	cp.observer = o
	if cp.observer == nil {
		cp.observer = nopObserver{}
	}
	return &cp
}

// Split splits every document and returns the chunks in input order, each
// document's chunks contiguous and ordered by Order. The batch is validated
// before any work starts; the first error aborts the whole call.
func (s *TextSplitter) Split(ctx context.Context, docs []domain.Document) ([]domain.Document, error) {
	if err := validateBatch(docs); err != nil {
		return nil, err
	}

	results := make([][]domain.Document, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range docs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks := s.split(docs[i])
			results[i] = chunks
			s.observer.DocumentSplit(docs[i].ID, len(chunks))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]domain.Document, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// SplitDocument splits a single document on the calling goroutine.
func (s *TextSplitter) SplitDocument(doc domain.Document) ([]domain.Document, error) {
	if err := validateDocument(doc, 0); err != nil {
		return nil, err
	}
	chunks := s.split(doc)
	s.observer.DocumentSplit(doc.ID, len(chunks))
	return chunks, nil
}

// Units returns the units text is cut into for the configured mode.
func (s *TextSplitter) Units(text string) []string {
	if s.splitBy == domain.SplitByToken {
		return s.tokenizer.Encode(text)
	}
	return splitUnits(text, s.splitBy)
}

func (s *TextSplitter) split(doc domain.Document) []domain.Document {
	if doc.Text == "" {
		return nil
	}

	units := s.Units(doc.Text)
	bounds := windows(len(units), s.size, s.overlap)

	chunks := make([]domain.Document, 0, len(bounds))
	for order, w := range bounds {
		if s.splitBy == domain.SplitByToken {
			w = alignRunes(units, w)
		}
		chunks = append(chunks, domain.NewChunk(doc, s.join(units[w.start:w.end]), order, s.keepMeta))
	}
	return chunks
}

// alignRunes widens w so neither edge falls inside a multi-byte rune. Byte
// level tokenizers can split one rune over several tokens; a token that
// begins with a UTF-8 continuation byte continues the rune before it.
func alignRunes(units []string, w window) window {
	for w.start > 0 && continuesRune(units[w.start]) {
		w.start--
	}
	for w.end < len(units) && continuesRune(units[w.end]) {
		w.end++
	}
	return w
}

func continuesRune(token string) bool {
	return token != "" && !utf8.RuneStart(token[0])
}

func (s *TextSplitter) join(units []string) string {
	if s.splitBy == domain.SplitByToken {
		return s.tokenizer.Decode(units)
	}
	return strings.Join(units, "")
}

type window struct {
	start, end int
}

// windows returns the [start, end) unit ranges for n units. A window is only
// opened while the previous one has not reached the end, so the last window
// is never made of overlap alone.
func windows(n, size, overlap int) []window {
	if n == 0 {
		return nil
	}
	step := size - overlap
	out := make([]window, 0, ChunkCount(n, size, overlap))
	for start := 0; start < n; start += step {
		end := min(start+size, n)
		out = append(out, window{start: start, end: end})
		if end == n {
			break
		}
	}
	return out
}

// ChunkCount is the number of chunks n units produce:
// ceil(max(1, n-overlap) / (size-overlap)) for n > 0.
func ChunkCount(n, size, overlap int) int {
	if n <= 0 {
		return 0
	}
	step := size - overlap
	span := max(1, n-overlap)
	return (span + step - 1) / step
}

func validateBatch(docs []domain.Document) error {
	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		if err := validateDocument(doc, i); err != nil {
			return err
		}
		if first, dup := seen[doc.ID]; dup {
			return &domain.InputError{DocID: doc.ID, Index: i, Reason: fmt.Sprintf("duplicate id, first seen at index %d", first)}
		}
		seen[doc.ID] = i
	}
	return nil
}

func validateDocument(doc domain.Document, index int) error {
	if doc.ID == "" {
		return &domain.InputError{Index: index, Reason: "missing id"}
	}
	if !utf8.ValidString(doc.Text) {
		return &domain.InputError{DocID: doc.ID, Index: index, Reason: "text is not valid UTF-8"}
	}
	return nil
}

type nopObserver struct{}

func (nopObserver) DocumentSplit(string, int) {}
