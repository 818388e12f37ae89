package port

import (
	"context"

	"textsplit/internal/domain"
)

// Splitter cuts source documents into ordered chunks.
type Splitter interface {
	Split(ctx context.Context, docs []domain.Document) ([]domain.Document, error)
}

// Observer receives progress as documents are split. Implementations must be
// safe for concurrent use.
type Observer interface {
	DocumentSplit(docID string, chunks int)
}
