// Package textutil provides text normalization shared by knowledge-base
// indexing and query processing.
package textutil

import (
	"regexp"
	"strings"
)

const minSignificantLen = 4

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	punctuationRe  = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips HTML tags and markdown link syntax,
// removes punctuation and collapses whitespace. It is total: any input,
// including markup-only or empty strings, yields a (possibly empty) string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = punctuationRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// SignificantWords returns up to limit distinct normalized words of at least
// four characters, in first-seen order. Used to derive keywords for entries
// that carry no explicit keyword list.
func SignificantWords(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(Normalize(text)) {
		if len([]rune(w)) < minSignificantLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if len(words) == limit {
			break
		}
	}

	return words
}
