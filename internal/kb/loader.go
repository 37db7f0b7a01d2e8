package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/studyhall-ai/studyhall/internal/domain"
)

// Default collection keys, relative to the source root.
const (
	DefaultCourseKey = "course_content.json"
	DefaultForumKey  = "forum_posts.json"
)

// Loader reads both collections from a Source and builds a Snapshot.
// Malformed records are skipped and logged; the load fails only when an I/O
// error occurs or no valid entries remain in either collection.
type Loader struct {
	source    Source
	courseKey string
	forumKey  string
}

// NewLoader creates a Loader. Empty keys fall back to the defaults.
func NewLoader(source Source, courseKey, forumKey string) *Loader {
	if courseKey == "" {
		courseKey = DefaultCourseKey
	}
	if forumKey == "" {
		forumKey = DefaultForumKey
	}
	return &Loader{source: source, courseKey: courseKey, forumKey: forumKey}
}

// Load fetches, validates and projects both collections into a fresh
// Snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	seen := make(map[string]struct{})

	course, err := l.loadCourse(ctx, seen)
	if err != nil {
		return nil, err
	}

	forum, err := l.loadForum(ctx, seen)
	if err != nil {
		return nil, err
	}

	if len(course) == 0 && len(forum) == 0 {
		return nil, domain.ErrKnowledgeBaseEmpty
	}

	log.Printf("knowledge base loaded: %d course entries, %d forum entries", len(course), len(forum))
	return NewSnapshot(course, forum, time.Now().UTC()), nil
}

func (l *Loader) loadCourse(ctx context.Context, seen map[string]struct{}) ([]domain.CourseEntry, error) {
	records, err := l.fetchRecords(ctx, l.courseKey)
	if err != nil || records == nil {
		return nil, err
	}

	entries := make([]domain.CourseEntry, 0, len(records))
	for i, raw := range records {
		var e domain.CourseEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("skipping course record %d: %v", i, err)
			continue
		}
		if err := domain.ValidateCourseEntry(&e); err != nil {
			log.Printf("skipping course record %d: %v", i, err)
			continue
		}
		if err := claimID(seen, e.ID); err != nil {
			log.Printf("skipping course record %d: %v", i, err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (l *Loader) loadForum(ctx context.Context, seen map[string]struct{}) ([]domain.ForumEntry, error) {
	records, err := l.fetchRecords(ctx, l.forumKey)
	if err != nil || records == nil {
		return nil, err
	}

	entries := make([]domain.ForumEntry, 0, len(records))
	for i, raw := range records {
		var e domain.ForumEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Printf("skipping forum record %d: %v", i, err)
			continue
		}
		if err := domain.ValidateForumEntry(&e); err != nil {
			log.Printf("skipping forum record %d: %v", i, err)
			continue
		}
		if err := claimID(seen, e.ID); err != nil {
			log.Printf("skipping forum record %d: %v", i, err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (l *Loader) fetchRecords(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, ok, err := l.source.Fetch(ctx, key)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeLoad, fmt.Sprintf("failed to read collection %s", key), err)
	}
	if !ok {
		log.Printf("collection %s not found, treating as empty", key)
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("collection %s is not a JSON array, treating as empty: %v", key, err)
		return nil, nil
	}

	return records, nil
}

func claimID(seen map[string]struct{}, id string) error {
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEntryID, id)
	}
	seen[id] = struct{}{}
	return nil
}
