// Package answer turns ranked matches into a human-readable response.
package answer

import (
	"fmt"
	"strings"

	"github.com/studyhall-ai/studyhall/internal/domain"
)

const (
	excerptMaxChars = 200
	maxLinks        = 5

	leadIn = "Based on the available course materials and forum discussions, here's what I found:"

	closing = "For more detailed information, please check the supporting links provided below."

	// FallbackAnswer is returned when nothing in the knowledge base clears
	// the relevance threshold.
	FallbackAnswer = "I couldn't find specific information related to your question in the current knowledge base. " +
		"Please try rephrasing your question or contact the course instructor for assistance."
)

// Link points at a supporting knowledge-base entry.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Result is the synthesized response for one question.
type Result struct {
	Answer string `json:"answer"`
	Links  []Link `json:"links"`
}

// EntryResolver resolves a match's entry reference against the snapshot the
// matches were ranked on.
type EntryResolver interface {
	EntryByID(id string) (domain.Entry, bool)
}

// Synthesize builds the answer paragraph and the supporting links for the
// given matches, in rank order. Links are deduplicated by URL, first
// occurrence wins. Empty matches yield the fallback answer and no links.
func Synthesize(matches []domain.Match, resolver EntryResolver) Result {
	entries := resolveEntries(matches, resolver)
	if len(entries) == 0 {
		return Result{Answer: FallbackAnswer, Links: []Link{}}
	}

	var b strings.Builder
	b.WriteString(leadIn)
	b.WriteString("\n\n")

	top := entries[0]
	if excerpt := makeExcerpt(top.Summary); excerpt != "" {
		fmt.Fprintf(&b, "**%s**: %s", top.Title, excerpt)
	} else {
		fmt.Fprintf(&b, "**%s**", top.Title)
	}
	b.WriteString("\n\n")

	if related := len(entries) - 1; related > 0 {
		if related == 1 {
			b.WriteString("1 related item was also found. ")
		} else {
			fmt.Fprintf(&b, "%d related items were also found. ", related)
		}
	}
	b.WriteString(closing)

	return Result{
		Answer: b.String(),
		Links:  buildLinks(entries),
	}
}

func resolveEntries(matches []domain.Match, resolver EntryResolver) []domain.Entry {
	entries := make([]domain.Entry, 0, len(matches))
	for _, m := range matches {
		if entry, ok := resolver.EntryByID(m.EntryID); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func buildLinks(entries []domain.Entry) []Link {
	seen := make(map[string]struct{}, len(entries))
	links := make([]Link, 0, len(entries))
	for _, e := range entries {
		if e.URL == "" {
			continue
		}
		if _, ok := seen[e.URL]; ok {
			continue
		}
		seen[e.URL] = struct{}{}
		links = append(links, Link{URL: e.URL, Text: linkText(e)})
		if len(links) == maxLinks {
			break
		}
	}
	return links
}

func linkText(e domain.Entry) string {
	switch e.Source {
	case domain.SourceForum:
		return "Forum Discussion: " + e.Title
	case domain.SourceCourse:
		return "Course Material: " + e.Title
	default:
		return e.Title
	}
}

func makeExcerpt(text string) string {
	clean := strings.Join(strings.Fields(text), " ")
	runes := []rune(clean)
	if len(runes) <= excerptMaxChars {
		return clean
	}
	return string(runes[:excerptMaxChars-3]) + "..."
}
