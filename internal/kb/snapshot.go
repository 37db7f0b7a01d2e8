// Package kb loads and holds the in-memory knowledge base.
package kb

import (
	"strings"
	"time"

	"github.com/studyhall-ai/studyhall/internal/domain"
	"github.com/studyhall-ai/studyhall/internal/textutil"
)

// forumKeywordLimit bounds how many significant words a forum entry
// contributes as keywords.
const forumKeywordLimit = 10

// Snapshot is an immutable view of the knowledge base. It is built once per
// load and shared by reference; nothing mutates it afterwards, so concurrent
// requests read it without locking.
type Snapshot struct {
	course   []domain.CourseEntry
	forum    []domain.ForumEntry
	entries  []domain.Entry
	byID     map[string]int
	loadedAt time.Time
}

// NewSnapshot projects the validated collections into the unified entry view
// the matching engine ranks against.
func NewSnapshot(course []domain.CourseEntry, forum []domain.ForumEntry, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		course:   course,
		forum:    forum,
		entries:  make([]domain.Entry, 0, len(course)+len(forum)),
		byID:     make(map[string]int, len(course)+len(forum)),
		loadedAt: loadedAt,
	}

	for _, c := range course {
		searchable := strings.TrimSpace(c.Title + " " + c.Description + " " + strings.Join(c.Keywords, " "))
		s.add(domain.Entry{
			ID:             c.ID,
			Source:         domain.SourceCourse,
			Title:          c.Title,
			Summary:        c.Description,
			SearchableText: searchable,
			URL:            c.URL,
			Keywords:       c.Keywords,
		})
	}

	for _, f := range forum {
		searchable := strings.TrimSpace(f.Title + " " + f.Content)
		s.add(domain.Entry{
			ID:             f.ID,
			Source:         domain.SourceForum,
			Title:          f.Title,
			Summary:        f.Content,
			SearchableText: searchable,
			URL:            f.URL,
			Keywords:       textutil.SignificantWords(searchable, forumKeywordLimit),
		})
	}

	return s
}

func (s *Snapshot) add(e domain.Entry) {
	s.byID[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
}

// Entries returns the unified entry views in knowledge-base order. Callers
// must treat the slice as read-only.
func (s *Snapshot) Entries() []domain.Entry {
	return s.entries
}

// EntryByID resolves an entry view by id.
func (s *Snapshot) EntryByID(id string) (domain.Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Entry{}, false
	}
	return s.entries[i], true
}

// CourseEntries returns the course collection.
func (s *Snapshot) CourseEntries() []domain.CourseEntry {
	return s.course
}

// CourseCount returns the number of course entries.
func (s *Snapshot) CourseCount() int {
	return len(s.course)
}

// ForumCount returns the number of forum entries.
func (s *Snapshot) ForumCount() int {
	return len(s.forum)
}

// LoadedAt returns when this snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}
