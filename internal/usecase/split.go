package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"

	"textsplit/internal/adapter/chunker"
	"textsplit/internal/domain"
	"textsplit/internal/port"
)

// ObserverFactory builds a progress observer once the number of documents to
// split is known. It may return nil.
type ObserverFactory func(total int) port.Observer

// SplitUseCase splits the files under a directory and stores their chunks.
type SplitUseCase struct {
	store    port.ChunkStore
	walker   port.FileWalker
	reader   port.FileReader
	splitter *chunker.TextSplitter
	logger   *slog.Logger
}

// NewSplitUseCase creates a new split use case.
func NewSplitUseCase(
	store port.ChunkStore,
	walker port.FileWalker,
	reader port.FileReader,
	splitter *chunker.TextSplitter,
	logger *slog.Logger,
) *SplitUseCase {
	return &SplitUseCase{
		store:    store,
		walker:   walker,
		reader:   reader,
		splitter: splitter,
		logger:   logger,
	}
}

// SplitResult contains the results of a split run.
type SplitResult struct {
	FilesSplit    int
	FilesSkipped  int
	FilesDeleted  int
	ChunksCreated int
	Errors        []string
}

// Split splits new and modified files under root, replaces their stored
// chunks and drops documents whose files disappeared. Unreadable files are
// reported in SplitResult.Errors; splitter and store errors abort the run.
func (u *SplitUseCase) Split(ctx context.Context, root string, progress ObserverFactory) (*SplitResult, error) {
	result := &SplitResult{}

	files, err := u.walker.Walk(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	stored, err := u.store.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("failed to list stored documents: %w", err)
	}
	existing := make(map[string]port.StoredDocument, len(stored))
	for _, s := range stored {
		existing[s.Source.Path] = s
	}

	seen := make(map[string]bool, len(files))
	var (
		docs    []domain.Document
		sources []domain.Source
	)

	for _, file := range files {
		seen[file.Path] = true

		if prev, ok := existing[file.Path]; ok && prev.Source.ModTime >= file.ModTime {
			result.FilesSkipped++
			continue
		}

		content, err := u.reader.ReadFile(file.Path)
		if err != nil {
			u.logger.Warn("skipping unreadable file", "path", file.Path, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to read %s: %v", file.Path, err))
			continue
		}

		src := domain.Source{
			Path:    file.Path,
			ModTime: file.ModTime,
			Lang:    detectLanguage(file.Path),
		}
		docs = append(docs, domain.Document{
			ID:   GenerateDocID(file.Path),
			Text: content,
			MetaData: map[string]any{
				"path":     src.Path,
				"lang":     src.Lang,
				"mod_time": src.ModTime,
			},
		})
		sources = append(sources, src)
	}

	splitter := u.splitter
	if progress != nil {
		splitter = splitter.WithObserver(progress(len(docs)))
	}

	chunks, err := splitter.Split(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to split documents: %w", err)
	}

	// chunks come back grouped by parent in input order
	pos := 0
	for i, doc := range docs {
		end := pos
		for end < len(chunks) && chunks[end].ParentDocID == doc.ID {
			end++
		}

		if err := u.store.ReplaceDocument(doc, sources[i], chunks[pos:end]); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", sources[i].Path, err)
		}
		u.logger.Debug("stored document", "path", sources[i].Path, "doc_id", doc.ID, "chunks", end-pos)

		result.FilesSplit++
		result.ChunksCreated += end - pos
		pos = end
	}

	for path, prev := range existing {
		if seen[path] {
			continue
		}
		if err := u.store.DeleteDocument(prev.Doc.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %v", path, err))
			continue
		}
		result.FilesDeleted++
	}

	return result, nil
}

// GenerateDocID derives a stable document id from a file path.
func GenerateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// detectLanguage guesses the content type from the file extension.
func detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".md", ".markdown":
		return "markdown"
	case ".txt", ".text":
		return "text"
	case ".rst":
		return "rst"
	case ".adoc":
		return "asciidoc"
	case ".html", ".htm":
		return "html"
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".xml":
		return "xml"
	case ".go":
		return "go"
	case ".py":
		return "python"
	default:
		return "unknown"
	}
}
