package port

// Tokenizer turns text into an ordered token sequence and back.
type Tokenizer interface {
	Encode(text string) []string

	Decode(tokens []string) string

	Name() string
}
