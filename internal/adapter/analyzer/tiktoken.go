package analyzer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var loaderOnce sync.Once

// TiktokenTokenizer wraps a tiktoken BPE encoding. Each token id is kept as
// its raw byte string, so Decode is byte exact even when a window boundary
// falls inside a multi-byte rune.
type TiktokenTokenizer struct {
	name string
	enc  *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding from the embedded vocabulary.
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}

	return &TiktokenTokenizer{name: encoding, enc: enc}, nil
}

func (t *TiktokenTokenizer) Name() string {
	return t.name
}

func (t *TiktokenTokenizer) Encode(text string) []string {
	ids := t.enc.Encode(text, nil, nil)
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.enc.Decode([]int{id})
	}
	return tokens
}

func (t *TiktokenTokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

// CountTokens returns the number of BPE tokens in text.
func (t *TiktokenTokenizer) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}
