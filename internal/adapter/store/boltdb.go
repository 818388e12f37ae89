package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"
	"textsplit/internal/domain"
	"textsplit/internal/port"
)

var (
	bucketDocs      = []byte("docs")
	bucketChunks    = []byte("chunks")
	bucketBlobs     = []byte("blobs")
	bucketDocChunks = []byte("doc_chunks")
	bucketMeta      = []byte("meta")

	dataBuckets = [][]byte{bucketDocs, bucketChunks, bucketBlobs, bucketDocChunks}
)

type BoltStore struct {
	db *bbolt.DB
}

var _ port.ChunkStore = (*BoltStore)(nil)

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range append(dataBuckets, bucketMeta) {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB {
	return s.db
}

type docRecord struct {
	Text     string         `json:"text"`
	MetaData map[string]any `json:"meta_data,omitempty"`
	Source   domain.Source  `json:"source"`
}

type chunkRecord struct {
	ParentDocID string         `json:"parent_doc_id"`
	Order       int            `json:"order"`
	MetaData    map[string]any `json:"meta_data,omitempty"`
}

func (s *BoltStore) PutDocument(doc domain.Document, src domain.Source) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putDocument(tx, doc, src)
	})
}

// ReplaceDocument stores doc and replaces its chunks in one transaction.
func (s *BoltStore) ReplaceDocument(doc domain.Document, src domain.Source, chunks []domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := putChunks(tx, doc.ID, chunks); err != nil {
			return err
		}
		return putDocument(tx, doc, src)
	})
}

func (s *BoltStore) GetDocument(id string) (domain.Document, domain.Source, error) {
	var (
		doc domain.Document
		src domain.Source
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocs).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		var rec docRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		doc = domain.Document{ID: id, Text: rec.Text, MetaData: rec.MetaData}
		src = rec.Source
		return nil
	})
	return doc, src, err
}

// DeleteDocument removes a document together with its chunks.
func (s *BoltStore) DeleteDocument(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := deleteChunks(tx, id); err != nil {
			return err
		}
		return tx.Bucket(bucketDocs).Delete([]byte(id))
	})
}

func (s *BoltStore) ListDocuments() ([]port.StoredDocument, error) {
	var docs []port.StoredDocument
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocs).ForEach(func(k, v []byte) error {
			var rec docRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			docs = append(docs, port.StoredDocument{
				Doc:    domain.Document{ID: string(k), Text: rec.Text, MetaData: rec.MetaData},
				Source: rec.Source,
			})
			return nil
		})
	})
	return docs, err
}

func (s *BoltStore) PutChunks(parentID string, chunks []domain.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return putChunks(tx, parentID, chunks)
	})
}

// GetChunks returns the chunks of parentID ordered by Order.
func (s *BoltStore) GetChunks(parentID string) ([]domain.Document, error) {
	var chunks []domain.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocChunks).Get([]byte(parentID))
		if data == nil {
			return nil
		}
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}

		chunkBucket := tx.Bucket(bucketChunks)
		blobBucket := tx.Bucket(bucketBlobs)
		for _, id := range ids {
			data := chunkBucket.Get([]byte(id))
			if data == nil {
				continue
			}
			var rec chunkRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("corrupt chunk %s: %w", id, err)
			}
			chunks = append(chunks, domain.Document{
				ID:          id,
				Text:        string(blobBucket.Get([]byte(id))),
				MetaData:    rec.MetaData,
				ParentDocID: rec.ParentDocID,
				Order:       rec.Order,
			})
		}
		return nil
	})
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Order < chunks[j].Order })
	return chunks, err
}

// Stats counts documents and chunks and averages chunk text length in bytes.
func (s *BoltStore) Stats() (domain.Stats, error) {
	var stats domain.Stats
	err := s.db.View(func(tx *bbolt.Tx) error {
		stats.TotalDocs = tx.Bucket(bucketDocs).Stats().KeyN

		total := 0
		err := tx.Bucket(bucketBlobs).ForEach(func(_, v []byte) error {
			stats.TotalChunks++
			total += len(v)
			return nil
		})
		if err != nil {
			return err
		}
		if stats.TotalChunks > 0 {
			stats.AvgChunkLen = float64(total) / float64(stats.TotalChunks)
		}
		return nil
	})
	return stats, err
}

// Clear removes all documents and chunks. Schema info is kept.
func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range dataBuckets {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func deleteChunks(tx *bbolt.Tx, parentID string) error {
	docChunks := tx.Bucket(bucketDocChunks)
	data := docChunks.Get([]byte(parentID))
	if data == nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}

	chunkBucket := tx.Bucket(bucketChunks)
	blobBucket := tx.Bucket(bucketBlobs)
	for _, id := range ids {
		if err := chunkBucket.Delete([]byte(id)); err != nil {
			return err
		}
		if err := blobBucket.Delete([]byte(id)); err != nil {
			return err
		}
	}
	return docChunks.Delete([]byte(parentID))
}

func putDocument(tx *bbolt.Tx, doc domain.Document, src domain.Source) error {
	data, err := json.Marshal(docRecord{Text: doc.Text, MetaData: doc.MetaData, Source: src})
	if err != nil {
		return err
	}
	return tx.Bucket(bucketDocs).Put([]byte(doc.ID), data)
}

func putChunks(tx *bbolt.Tx, parentID string, chunks []domain.Document) error {
	if err := deleteChunks(tx, parentID); err != nil {
		return err
	}

	chunkBucket := tx.Bucket(bucketChunks)
	blobBucket := tx.Bucket(bucketBlobs)

	ids := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.ParentDocID != parentID {
			return fmt.Errorf("chunk %s belongs to %q, not %q", chunk.ID, chunk.ParentDocID, parentID)
		}
		data, err := json.Marshal(chunkRecord{
			ParentDocID: chunk.ParentDocID,
			Order:       chunk.Order,
			MetaData:    chunk.MetaData,
		})
		if err != nil {
			return err
		}
		if err := chunkBucket.Put([]byte(chunk.ID), data); err != nil {
			return err
		}
		if err := blobBucket.Put([]byte(chunk.ID), []byte(chunk.Text)); err != nil {
			return err
		}
		ids = append(ids, chunk.ID)
	}

	if len(ids) == 0 {
		return nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketDocChunks).Put([]byte(parentID), data)
}
