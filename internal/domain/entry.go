package domain

import (
	"fmt"
	"time"
)

// Difficulty represents the difficulty level of a course entry
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// EntrySource identifies which collection an entry came from
type EntrySource string

const (
	SourceCourse EntrySource = "course"
	SourceForum  EntrySource = "forum"
)

// CourseEntry represents one item of course content
type CourseEntry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords"`
	URL         string     `json:"url"`
	Difficulty  Difficulty `json:"difficulty"`
	Module      int        `json:"module"`
}

// ForumEntry represents one scraped forum post
type ForumEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
	RepliesCount int       `json:"replies_count,omitempty"`
}

// Entry is the unified read-only view the matching engine ranks against.
// SearchableText concatenates every natural-language field of the underlying
// record; Keywords are lowercase tokens used for the overlap bonus. New entry
// kinds only need to project into this shape.
type Entry struct {
	ID             string
	Source         EntrySource
	Title          string
	Summary        string
	SearchableText string
	URL            string
	Keywords       []string
}

// ValidateCourseEntry validates a CourseEntry instance
func ValidateCourseEntry(e *CourseEntry) error {
	if e == nil {
		return fmt.Errorf("course entry cannot be nil")
	}

	if e.ID == "" {
		return fmt.Errorf("course entry ID is required")
	}

	if e.Title == "" {
		return fmt.Errorf("course entry Title is required")
	}

	if e.URL == "" {
		return fmt.Errorf("course entry URL is required")
	}

	if e.Module <= 0 {
		return fmt.Errorf("course entry Module must be greater than 0")
	}

	if e.Difficulty != "" && !isValidDifficulty(e.Difficulty) {
		return fmt.Errorf("course entry Difficulty is invalid: %s", e.Difficulty)
	}

	return nil
}

// ValidateForumEntry validates a ForumEntry instance
func ValidateForumEntry(e *ForumEntry) error {
	if e == nil {
		return fmt.Errorf("forum entry cannot be nil")
	}

	if e.ID == "" {
		return fmt.Errorf("forum entry ID is required")
	}

	if e.Title == "" {
		return fmt.Errorf("forum entry Title is required")
	}

	if e.URL == "" {
		return fmt.Errorf("forum entry URL is required")
	}

	if e.RepliesCount < 0 {
		return fmt.Errorf("forum entry RepliesCount cannot be negative")
	}

	return nil
}

// isValidDifficulty checks if a Difficulty is valid
func isValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}
