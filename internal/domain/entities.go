package domain

import (
	"maps"

	"github.com/google/uuid"
)

// SplitBy selects the unit a text is cut into before windowing.
type SplitBy string

const (
	SplitByWord     SplitBy = "word"
	SplitByToken    SplitBy = "token"
	SplitBySentence SplitBy = "sentence"
	SplitByPassage  SplitBy = "passage"
	SplitByPage     SplitBy = "page"
)

// Valid reports whether s names a known split unit.
func (s SplitBy) Valid() bool {
	switch s {
	case SplitByWord, SplitByToken, SplitBySentence, SplitByPassage, SplitByPage:
		return true
	}
	return false
}

// Document is both the input to splitting and every chunk it produces.
// ParentDocID and Order are only meaningful on chunks.
type Document struct {
	ID          string         `json:"id" yaml:"id"`
	Text        string         `json:"text" yaml:"text"`
	MetaData    map[string]any `json:"meta_data,omitempty" yaml:"meta_data,omitempty"`
	Vector      []float32      `json:"vector,omitempty" yaml:"vector,omitempty"`
	ParentDocID string         `json:"parent_doc_id,omitempty" yaml:"parent_doc_id,omitempty"`
	Order       int            `json:"order" yaml:"order"`
	Score       *float64       `json:"score,omitempty" yaml:"score,omitempty"`
}

// NewDocument builds a source document, generating an id when none is given.
func NewDocument(id, text string, meta map[string]any) Document {
	if id == "" {
		id = NewID()
	}
	return Document{ID: id, Text: text, MetaData: meta}
}

// NewChunk derives a chunk of parent with a fresh id.
func NewChunk(parent Document, text string, order int, keepMeta bool) Document {
	chunk := Document{
		ID:          NewID(),
		Text:        text,
		ParentDocID: parent.ID,
		Order:       order,
	}
	if keepMeta && parent.MetaData != nil {
		chunk.MetaData = maps.Clone(parent.MetaData)
	}
	return chunk
}

// IsChunk reports whether d was produced by splitting.
func (d Document) IsChunk() bool {
	return d.ParentDocID != ""
}

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// Source describes where a stored document came from on disk.
type Source struct {
	Path    string `json:"path"`
	ModTime int64  `json:"mod_time"`
	Lang    string `json:"lang"`
}

// Stats summarises a chunk store.
type Stats struct {
	TotalDocs   int     `json:"total_docs" yaml:"total_docs"`
	TotalChunks int     `json:"total_chunks" yaml:"total_chunks"`
	AvgChunkLen float64 `json:"avg_chunk_len" yaml:"avg_chunk_len"`
}
