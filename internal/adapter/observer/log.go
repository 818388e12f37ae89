package observer

import (
	"log/slog"

	"textsplit/internal/port"
)

// Log writes one debug record per split document.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) DocumentSplit(docID string, chunks int) {
	l.logger.Debug("document split", "doc_id", docID, "chunks", chunks)
}

// Multi fans a notification out to several observers.
type Multi []port.Observer

func (m Multi) DocumentSplit(docID string, chunks int) {
	for _, o := range m {
		if o != nil {
			o.DocumentSplit(docID, chunks)
		}
	}
}
