package observer

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Counts(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 10, "Splitting")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.DocumentSplit("doc", 3)
		}()
	}
	wg.Wait()
	require.NoError(t, p.Finish())

	docs, chunks := p.Counts()
	assert.Equal(t, 10, docs)
	assert.Equal(t, 30, chunks)
	assert.NotEmpty(t, buf.String())
}

func TestLog_DocumentSplit(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewLog(logger).DocumentSplit("doc1", 3)

	out := buf.String()
	assert.True(t, strings.Contains(out, "doc_id=doc1"), out)
	assert.True(t, strings.Contains(out, "chunks=3"), out)
}

type recorder struct{ calls []string }

func (r *recorder) DocumentSplit(docID string, _ int) { r.calls = append(r.calls, docID) }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, nil, b}.DocumentSplit("doc1", 1)

	assert.Equal(t, []string{"doc1"}, a.calls)
	assert.Equal(t, []string{"doc1"}, b.calls)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "<1s"},
		{42 * time.Second, "42s"},
		{3*time.Minute + 5*time.Second, "3m5s"},
		{2*time.Hour + 7*time.Minute, "2h7m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}
