package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"textsplit/internal/domain"
	"textsplit/internal/port"
)

const (
	// TokenizerLexical is the built-in tokenizer name.
	TokenizerLexical = "lexical"
	// TokenizerCL100K and friends select a tiktoken BPE encoding.
	TokenizerCL100K = "cl100k_base"
	TokenizerP50K   = "p50k_base"
	TokenizerR50K   = "r50k_base"
)

// NewTokenizer returns the tokenizer registered under name.
// An empty name selects the lexical tokenizer.
func NewTokenizer(name string) (port.Tokenizer, error) {
	switch name {
	case "", TokenizerLexical:
		return NewLexicalTokenizer(), nil
	case TokenizerCL100K, TokenizerP50K, TokenizerR50K:
		return NewTiktokenTokenizer(name)
	default:
		return nil, &domain.ConfigurationError{Field: "tokenizer", Value: name, Reason: "unknown tokenizer"}
	}
}

// LexicalTokenizer splits text into letter, digit, punctuation and whitespace
// runs. A single space before a run is kept on that run, so tokens look like
// " text" rather than " " + "text". Decoding is plain concatenation.
type LexicalTokenizer struct{}

// NewLexicalTokenizer creates a LexicalTokenizer.
func NewLexicalTokenizer() *LexicalTokenizer {
	return &LexicalTokenizer{}
}

func (t *LexicalTokenizer) Name() string {
	return TokenizerLexical
}

// Encode splits text into tokens. Joining the result gives text back.
func (t *LexicalTokenizer) Encode(text string) []string {
	var tokens []string

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		start := i

		switch {
		case r == ' ' && i+size < len(text) && !isSpace(runeAt(text, i+size)):
			// leading space joins the following run
			i += size
			cls := classOf(runeAt(text, i))
			i = scanRun(text, i, cls)

		case isSpace(r):
			end := scanRun(text, i, classSpace)
			// leave one trailing space for the next word
			if end < len(text) && end-i > 1 && text[end-1] == ' ' {
				end--
			}
			i = end

		default:
			i = scanRun(text, i, classOf(r))
		}

		tokens = append(tokens, text[start:i])
	}

	return tokens
}

// Decode joins tokens produced by Encode.
func (t *LexicalTokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

// CountTokens returns the number of tokens in text.
func (t *LexicalTokenizer) CountTokens(text string) int {
	return len(t.Encode(text))
}

type runeClass int

const (
	classLetter runeClass = iota
	classDigit
	classSpace
	classPunct
)

func classOf(r rune) runeClass {
	switch {
	case unicode.IsLetter(r) || unicode.IsMark(r) || r == '_':
		return classLetter
	case unicode.IsNumber(r):
		return classDigit
	case isSpace(r):
		return classSpace
	default:
		return classPunct
	}
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func runeAt(s string, i int) rune {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

// scanRun advances from i while runes belong to cls.
func scanRun(text string, i int, cls runeClass) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if classOf(r) != cls {
			break
		}
		i += size
	}
	return i
}
