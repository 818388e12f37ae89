package memstore

import (
	"fmt"
	"slices"
	"sync"

	"textsplit/internal/domain"
	"textsplit/internal/port"
)

type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[string]port.StoredDocument
	docChunks map[string][]domain.Document
}

var _ port.ChunkStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:      make(map[string]port.StoredDocument),
		docChunks: make(map[string][]domain.Document),
	}
}

func (s *MemoryStore) PutDocument(doc domain.Document, src domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = port.StoredDocument{Doc: doc, Source: src}
	return nil
}

func (s *MemoryStore) GetDocument(id string) (domain.Document, domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.docs[id]
	if !ok {
		return domain.Document{}, domain.Source{}, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return stored.Doc, stored.Source, nil
}

func (s *MemoryStore) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	delete(s.docChunks, id)
	return nil
}

func (s *MemoryStore) ListDocuments() ([]port.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]port.StoredDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MemoryStore) PutChunks(parentID string, chunks []domain.Document) error {
	if err := checkParent(parentID, chunks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putChunks(parentID, chunks)
	return nil
}

func (s *MemoryStore) ReplaceDocument(doc domain.Document, src domain.Source, chunks []domain.Document) error {
	if err := checkParent(doc.ID, chunks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = port.StoredDocument{Doc: doc, Source: src}
	s.putChunks(doc.ID, chunks)
	return nil
}

func (s *MemoryStore) putChunks(parentID string, chunks []domain.Document) {
	if len(chunks) == 0 {
		delete(s.docChunks, parentID)
		return
	}
	s.docChunks[parentID] = slices.Clone(chunks)
}

func checkParent(parentID string, chunks []domain.Document) error {
	for _, c := range chunks {
		if c.ParentDocID != parentID {
			return fmt.Errorf("chunk %s belongs to %q, not %q", c.ID, c.ParentDocID, parentID)
		}
	}
	return nil
}

func (s *MemoryStore) GetChunks(parentID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := slices.Clone(s.docChunks[parentID])
	slices.SortStableFunc(chunks, func(a, b domain.Document) int { return a.Order - b.Order })
	return chunks, nil
}

func (s *MemoryStore) Stats() (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Stats{TotalDocs: len(s.docs)}
	total := 0
	for _, chunks := range s.docChunks {
		for _, c := range chunks {
			stats.TotalChunks++
			total += len(c.Text)
		}
	}
	if stats.TotalChunks > 0 {
		stats.AvgChunkLen = float64(total) / float64(stats.TotalChunks)
	}
	return stats, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]port.StoredDocument)
	s.docChunks = make(map[string][]domain.Document)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
