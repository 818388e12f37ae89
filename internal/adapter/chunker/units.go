package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"textsplit/internal/domain"
)

// splitUnits cuts text into word-like units. Every unit keeps the separator
// that follows it and leading whitespace stays on the first unit, so joining
// the units gives the text back. Text with no content yields no units.
func splitUnits(text string, by domain.SplitBy) []string {
	switch by {
	case domain.SplitByWord:
		return splitWords(text)
	case domain.SplitBySentence:
		return splitSentences(text)
	case domain.SplitByPassage:
		return mergeBlank(strings.SplitAfter(text, "\n\n"))
	case domain.SplitByPage:
		return mergeBlank(strings.SplitAfter(text, "\f"))
	}
	return nil
}

func splitWords(text string) []string {
	var units []string

	start := 0
	i := skipSpace(text, 0)
	for i < len(text) {
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += size
		}
		i = skipSpace(text, i)
		units = append(units, text[start:i])
		start = i
	}

	return units
}

// splitSentences ends a unit after a run of '.', '!' or '?' that is followed
// by whitespace or the end of the text.
func splitSentences(text string) []string {
	var units []string

	start := 0
	i := skipSpace(text, 0)
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if !isTerminal(r) {
			continue
		}
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isTerminal(r) {
				break
			}
			i += size
		}
		if i < len(text) {
			r, _ := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				continue
			}
		}
		i = skipSpace(text, i)
		units = append(units, text[start:i])
		start = i
	}
	if strings.TrimSpace(text[start:]) != "" {
		units = append(units, text[start:])
	}

	return units
}

// mergeBlank folds separator-only pieces into their neighbours: onto the
// previous unit, or onto the next one when nothing precedes them.
func mergeBlank(parts []string) []string {
	units := make([]string, 0, len(parts))
	pending := ""
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			if len(units) > 0 {
				units[len(units)-1] += p
			} else {
				pending += p
			}
			continue
		}
		units = append(units, pending+p)
		pending = ""
	}
	return units
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
