// Package stats computes summary figures over the loaded knowledge base.
package stats

import (
	"time"

	"github.com/studyhall-ai/studyhall/internal/kb"
	"github.com/studyhall-ai/studyhall/internal/textutil"
)

// Report summarizes the current knowledge-base snapshot.
type Report struct {
	CourseEntryCount int       `json:"course_entries"`
	ForumEntryCount  int       `json:"forum_posts"`
	TotalEntries     int       `json:"total_entries"`
	KeywordsIndexed  int       `json:"keywords_indexed"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Compute derives a Report from a snapshot. KeywordsIndexed counts distinct
// normalized keywords across the course collection; derived forum keywords
// are excluded so the figure reflects curated metadata only.
func Compute(snap *kb.Snapshot) Report {
	distinct := make(map[string]struct{})
	for _, entry := range snap.CourseEntries() {
		for _, kw := range entry.Keywords {
			normalized := textutil.Normalize(kw)
			if normalized == "" {
				continue
			}
			distinct[normalized] = struct{}{}
		}
	}

	return Report{
		CourseEntryCount: snap.CourseCount(),
		ForumEntryCount:  snap.ForumCount(),
		TotalEntries:     snap.CourseCount() + snap.ForumCount(),
		KeywordsIndexed:  len(distinct),
		LastUpdated:      snap.LoadedAt(),
	}
}
