package domain

import "strings"

// Query represents a single student question. OCRText carries text extracted
// from an attached image; it augments the typed question, never replaces it.
type Query struct {
	Text    string
	OCRText string
}

// EffectiveText returns the combined query text used for matching.
func (q Query) EffectiveText() string {
	if q.OCRText == "" {
		return q.Text
	}
	if strings.TrimSpace(q.Text) == "" {
		return q.OCRText
	}
	return q.Text + " " + q.OCRText
}

// Match references a knowledge-base entry by ID together with its relevance
// score. Matches are produced fresh per request and never persisted.
type Match struct {
	EntryID         string
	Score           float64
	MatchedKeywords []string
}
