package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textsplit/internal/adapter/chunker"
	"textsplit/internal/adapter/fs"
	"textsplit/internal/adapter/memstore"
	"textsplit/internal/domain"
	"textsplit/internal/logging"
	"textsplit/internal/port"
)

type countObserver struct{ docs int }

func (c *countObserver) DocumentSplit(string, int) { c.docs++ }

func newUseCase(t *testing.T, st port.ChunkStore) *SplitUseCase {
	t.Helper()
	splitter, err := chunker.New(chunker.Config{
		SplitBy:      domain.SplitByWord,
		ChunkSize:    5,
		ChunkOverlap: 1,
		Workers:      1,
		KeepMetaData: true,
	})
	require.NoError(t, err)

	walker := fs.NewWalker([]string{"**/*.txt"}, nil, 0)
	return NewSplitUseCase(st, walker, fs.Reader{}, splitter, logging.Discard())
}

func write(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestSplitUseCase_Incremental(t *testing.T) {
	root := t.TempDir()
	past := time.Now().Add(-time.Hour)

	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	write(t, a, "Example text. More example text. Even more text to illustrate.", past)
	write(t, b, "", past)
	write(t, filepath.Join(root, "ignored.md"), "not included", past)

	st := memstore.NewMemoryStore()
	uc := newUseCase(t, st)

	obs := &countObserver{}
	result, err := uc.Split(context.Background(), root, func(total int) port.Observer {
		assert.Equal(t, 2, total)
		return obs
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesSplit)
	assert.Equal(t, 0, result.FilesSkipped)
	assert.Equal(t, 3, result.ChunksCreated)
	assert.Equal(t, 2, obs.docs)

	chunks, err := st.GetChunks(GenerateDocID(a))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Order)
		assert.Equal(t, GenerateDocID(a), c.ParentDocID)
		assert.Equal(t, a, c.MetaData["path"])
	}

	// unchanged files are skipped
	result, err = uc.Split(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FilesSplit)
	assert.Equal(t, 2, result.FilesSkipped)

	// modified file is re-split, deleted file is dropped
	write(t, a, "one two three", time.Now())
	require.NoError(t, os.Remove(b))

	result, err = uc.Split(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesSplit)
	assert.Equal(t, 1, result.FilesDeleted)
	assert.Equal(t, 1, result.ChunksCreated)

	chunks, err = st.GetChunks(GenerateDocID(a))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one two three", chunks[0].Text)

	_, _, err = st.GetDocument(GenerateDocID(b))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingStore rejects the first failures writes and then behaves normally.
type failingStore struct {
	*memstore.MemoryStore
	failures int
}

func (s *failingStore) ReplaceDocument(doc domain.Document, src domain.Source, chunks []domain.Document) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("disk full")
	}
	return s.MemoryStore.ReplaceDocument(doc, src, chunks)
}

func TestSplitUseCase_FailedWriteIsRetried(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.txt")
	write(t, a, "Example text. More example text. Even more text to illustrate.", time.Now().Add(-time.Hour))

	st := &failingStore{MemoryStore: memstore.NewMemoryStore(), failures: 1}
	uc := newUseCase(t, st)

	_, err := uc.Split(context.Background(), root, nil)
	require.ErrorContains(t, err, "disk full")

	_, _, err = st.GetDocument(GenerateDocID(a))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	result, err := uc.Split(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesSplit)
	assert.Equal(t, 0, result.FilesSkipped)

	chunks, err := st.GetChunks(GenerateDocID(a))
	require.NoError(t, err)
	assert.Len(t, chunks, 3)
}

func TestSplitUseCase_UnreadableFileIsReported(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "good.txt"), "fine text", time.Now())
	write(t, filepath.Join(root, "bad.txt"), "\xff\xfe", time.Now())

	st := memstore.NewMemoryStore()
	result, err := newUseCase(t, st).Split(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesSplit)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "bad.txt")
}

func TestSplitUseCase_Cancelled(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.txt"), "text", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newUseCase(t, memstore.NewMemoryStore()).Split(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateDocID(t *testing.T) {
	assert.Equal(t, GenerateDocID("/a/b.txt"), GenerateDocID("/a/b.txt"))
	assert.NotEqual(t, GenerateDocID("/a/b.txt"), GenerateDocID("/a/c.txt"))
	assert.Len(t, GenerateDocID("/a/b.txt"), 16)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "markdown", detectLanguage("README.md"))
	assert.Equal(t, "text", detectLanguage("notes.txt"))
	assert.Equal(t, "unknown", detectLanguage("archive.tar"))
}
