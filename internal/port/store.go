package port

import "textsplit/internal/domain"

// ChunkStore persists source documents and the chunks split from them.
type ChunkStore interface {
	PutDocument(doc domain.Document, src domain.Source) error

	GetDocument(id string) (domain.Document, domain.Source, error)

	DeleteDocument(id string) error

	ListDocuments() ([]StoredDocument, error)

	// PutChunks replaces every chunk stored for parentID.
	PutChunks(parentID string, chunks []domain.Document) error

	// ReplaceDocument stores doc and replaces its chunks atomically: either
	// both are written or neither is.
	ReplaceDocument(doc domain.Document, src domain.Source, chunks []domain.Document) error

	GetChunks(parentID string) ([]domain.Document, error)

	Stats() (domain.Stats, error)

	Clear() error

	Close() error
}

type StoredDocument struct {
	Doc    domain.Document
	Source domain.Source
}
