package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validCourseEntry() *CourseEntry {
	return &CourseEntry{
		ID:          "c-1",
		Title:       "Pandas Missing Values",
		Description: "Handling NaN values in dataframes",
		Keywords:    []string{"pandas", "missing", "nan"},
		URL:         "https://example.com/course/pandas",
		Difficulty:  DifficultyBeginner,
		Module:      3,
	}
}

func validForumEntry() *ForumEntry {
	return &ForumEntry{
		ID:        "f-1",
		Title:     "How to plot a regression line",
		Content:   "I am trying to plot a linear regression with seaborn",
		URL:       "https://example.com/t/regression/42",
		CreatedAt: time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidateCourseEntry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *CourseEntry)
		wantErr bool
	}{
		{"valid", func(e *CourseEntry) {}, false},
		{"missing id", func(e *CourseEntry) { e.ID = "" }, true},
		{"missing title", func(e *CourseEntry) { e.Title = "" }, true},
		{"missing url", func(e *CourseEntry) { e.URL = "" }, true},
		{"zero module", func(e *CourseEntry) { e.Module = 0 }, true},
		{"negative module", func(e *CourseEntry) { e.Module = -1 }, true},
		{"invalid difficulty", func(e *CourseEntry) { e.Difficulty = "expert" }, true},
		{"empty difficulty allowed", func(e *CourseEntry) { e.Difficulty = "" }, false},
		{"no keywords allowed", func(e *CourseEntry) { e.Keywords = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validCourseEntry()
			tt.mutate(e)
			err := ValidateCourseEntry(e)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCourseEntry_Nil(t *testing.T) {
	assert.Error(t, ValidateCourseEntry(nil))
}

func TestValidateForumEntry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *ForumEntry)
		wantErr bool
	}{
		{"valid", func(e *ForumEntry) {}, false},
		{"missing id", func(e *ForumEntry) { e.ID = "" }, true},
		{"missing title", func(e *ForumEntry) { e.Title = "" }, true},
		{"missing url", func(e *ForumEntry) { e.URL = "" }, true},
		{"empty content allowed", func(e *ForumEntry) { e.Content = "" }, false},
		{"negative replies", func(e *ForumEntry) { e.RepliesCount = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validForumEntry()
			tt.mutate(e)
			err := ValidateForumEntry(e)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateForumEntry_Nil(t *testing.T) {
	assert.Error(t, ValidateForumEntry(nil))
}

func TestQuery_EffectiveText(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"text only", Query{Text: "how do I merge dataframes"}, "how do I merge dataframes"},
		{"ocr only", Query{OCRText: "regression plot"}, "regression plot"},
		{"both", Query{Text: "what is this chart", OCRText: "regression plot"}, "what is this chart regression plot"},
		{"blank text with ocr", Query{Text: "   ", OCRText: "regression plot"}, "regression plot"},
		{"empty", Query{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.EffectiveText())
		})
	}
}
