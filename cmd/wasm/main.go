//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"
	"time"

	"textsplit/internal/adapter/chunker"
	"textsplit/internal/adapter/memstore"
	"textsplit/internal/domain"
	"textsplit/internal/usecase"
)

var (
	store    *memstore.MemoryStore
	splitter *chunker.TextSplitter
)

// setup builds the store and the default splitter.
func setup() error {
	var err error
	store = memstore.NewMemoryStore()
	splitter, err = chunker.New(chunker.Config{
		SplitBy:      domain.SplitByWord,
		ChunkSize:    200,
		ChunkOverlap: 20,
		Workers:      1,
	})
	return err
}

func main() {
	if err := setup(); err != nil {
		js.Global().Get("console").Call("error", "textsplit: invalid default configuration: "+err.Error())
		return
	}

	c := make(chan struct{})

	js.Global().Set("textsplitConfigure", js.FuncOf(configure))
	js.Global().Set("textsplitSplit", js.FuncOf(splitContent))
	js.Global().Set("textsplitChunks", js.FuncOf(getChunks))
	js.Global().Set("textsplitClear", js.FuncOf(clearStore))
	js.Global().Set("textsplitStats", js.FuncOf(getStats))

	<-c
}

type splitOptions struct {
	SplitBy      string `json:"splitBy"`
	ChunkSize    int    `json:"chunkSize"`
	ChunkOverlap int    `json:"chunkOverlap"`
	KeepMetaData bool   `json:"keepMetaData"`
}

// configure replaces the splitter. Stored chunks are kept.
func configure(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError(`usage: textsplitConfigure('{"splitBy":"word","chunkSize":200,"chunkOverlap":20}')`)
	}

	var opts splitOptions
	if err := json.Unmarshal([]byte(args[0].String()), &opts); err != nil {
		return makeError("invalid options: " + err.Error())
	}

	s, err := chunker.New(chunker.Config{
		SplitBy:      domain.SplitBy(opts.SplitBy),
		ChunkSize:    opts.ChunkSize,
		ChunkOverlap: opts.ChunkOverlap,
		Workers:      1,
		KeepMetaData: opts.KeepMetaData,
	})
	if err != nil {
		return makeError(err.Error())
	}
	splitter = s

	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func splitContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: textsplitSplit(filename, content)")
	}

	filename := args[0].String()
	content := args[1].String()

	src := domain.Source{
		Path:    filename,
		ModTime: time.Now().Unix(),
		Lang:    "text",
	}
	doc := domain.NewDocument(usecase.GenerateDocID(filename), content, map[string]any{"path": filename})

	chunks, err := splitter.Split(context.Background(), []domain.Document{doc})
	if err != nil {
		return makeError("splitting failed: " + err.Error())
	}

	if err := store.ReplaceDocument(doc, src, chunks); err != nil {
		return makeError("storing failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"success":  true,
		"docId":    doc.ID,
		"chunks":   len(chunks),
		"filename": filename,
	})
}

func getChunks(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: textsplitChunks(filename)")
	}

	chunks, err := store.GetChunks(usecase.GenerateDocID(args[0].String()))
	if err != nil {
		return makeError(err.Error())
	}

	output := make([]map[string]interface{}, 0, len(chunks))
	for _, c := range chunks {
		output = append(output, map[string]interface{}{
			"id":    c.ID,
			"order": c.Order,
			"text":  c.Text,
		})
	}

	return makeResult(map[string]interface{}{
		"chunks": output,
	})
}

func clearStore(this js.Value, args []js.Value) interface{} {
	store = memstore.NewMemoryStore()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	stats, err := store.Stats()
	if err != nil {
		return makeError("stats failed: " + err.Error())
	}
	docs, err := store.ListDocuments()
	if err != nil {
		return makeError("listing failed: " + err.Error())
	}

	filenames := make([]string, len(docs))
	for i, doc := range docs {
		filenames[i] = doc.Source.Path
	}

	return makeResult(map[string]interface{}{
		"totalDocs":   stats.TotalDocs,
		"totalChunks": stats.TotalChunks,
		"avgChunkLen": stats.AvgChunkLen,
		"files":       filenames,
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
