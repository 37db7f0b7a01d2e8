package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/studyhall/internal/answer"
	"github.com/studyhall-ai/studyhall/internal/domain"
	"github.com/studyhall-ai/studyhall/internal/kb"
)

// MockMatcher is a mock for the Matcher interface
type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) Rank(query domain.Query, entries []domain.Entry) []domain.Match {
	args := m.Called(query, entries)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Match)
}

// MockExtractor is a mock for the ocr.TextExtractor interface
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	args := m.Called(ctx, imageBase64)
	return args.String(0), args.Error(1)
}

func testStore(t *testing.T) *kb.Store {
	t.Helper()
	course := []domain.CourseEntry{
		{ID: "c-1", Title: "Handling Missing Values", Description: "Use dropna and fillna", Keywords: []string{"pandas"}, URL: "https://example.com/c1", Module: 2},
	}
	forum := []domain.ForumEntry{
		{ID: "f-1", Title: "fillna question", Content: "How does fillna work", URL: "https://example.com/f1"},
	}
	return kb.NewStore(kb.NewSnapshot(course, forum, time.Now()))
}

func TestQAService_Answer_Success(t *testing.T) {
	store := testStore(t)
	matcher := new(MockMatcher)
	matcher.On("Rank", mock.Anything, mock.Anything).Return([]domain.Match{
		{EntryID: "c-1", Score: 0.9, MatchedKeywords: []string{"pandas"}},
		{EntryID: "f-1", Score: 0.5},
	})

	svc := NewQAService(store, matcher, nil, 0)

	result, err := svc.Answer(context.Background(), AnswerInput{Question: "how do I handle missing values in pandas?"})

	require.NoError(t, err)
	assert.Contains(t, result.Answer, "Handling Missing Values")
	require.Len(t, result.Links, 2)
	assert.Equal(t, "https://example.com/c1", result.Links[0].URL)
	matcher.AssertExpectations(t)
}

func TestQAService_Answer_NoMatchesReturnsFallback(t *testing.T) {
	store := testStore(t)
	matcher := new(MockMatcher)
	matcher.On("Rank", mock.Anything, mock.Anything).Return(nil)

	svc := NewQAService(store, matcher, nil, 0)

	result, err := svc.Answer(context.Background(), AnswerInput{Question: "quantum chromodynamics"})

	require.NoError(t, err)
	assert.Equal(t, answer.FallbackAnswer, result.Answer)
	assert.Empty(t, result.Links)
}

func TestQAService_Answer_RequiresQuestionOrImage(t *testing.T) {
	svc := NewQAService(testStore(t), new(MockMatcher), nil, 0)

	_, err := svc.Answer(context.Background(), AnswerInput{Question: "   "})

	assert.ErrorIs(t, err, domain.ErrQuestionRequired)
}

func TestQAService_Answer_RejectsInvalidBase64(t *testing.T) {
	svc := NewQAService(testStore(t), new(MockMatcher), nil, 0)

	_, err := svc.Answer(context.Background(), AnswerInput{
		Question:    "what is this?",
		ImageBase64: "not valid base64 !!!",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestQAService_Answer_OCRTextJoinsQuery(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).Return("fillna example", nil)

	matcher := new(MockMatcher)
	matcher.On("Rank", mock.MatchedBy(func(q domain.Query) bool {
		return q.Text == "what does this do?" && q.OCRText == "fillna example"
	}), mock.Anything).Return([]domain.Match{{EntryID: "f-1", Score: 0.8}})

	svc := NewQAService(store, matcher, extractor, 0)

	result, err := svc.Answer(context.Background(), AnswerInput{
		Question:    "what does this do?",
		ImageBase64: image,
	})

	require.NoError(t, err)
	assert.Contains(t, result.Answer, "fillna question")
	matcher.AssertExpectations(t)
	extractor.AssertExpectations(t)
}

func TestQAService_Answer_OCRFailureIsNotFatal(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).Return("", errors.New("vision API unavailable"))

	matcher := new(MockMatcher)
	matcher.On("Rank", mock.MatchedBy(func(q domain.Query) bool {
		return q.OCRText == ""
	}), mock.Anything).Return([]domain.Match{{EntryID: "c-1", Score: 0.7}})

	svc := NewQAService(store, matcher, extractor, 0)

	result, err := svc.Answer(context.Background(), AnswerInput{
		Question:    "missing values",
		ImageBase64: image,
	})

	require.NoError(t, err)
	assert.NotEqual(t, answer.FallbackAnswer, result.Answer)
	matcher.AssertExpectations(t)
}

func TestQAService_Answer_ImageOnlyQuestion(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).Return("pandas missing values", nil)

	matcher := new(MockMatcher)
	matcher.On("Rank", mock.Anything, mock.Anything).Return([]domain.Match{{EntryID: "c-1", Score: 0.9}})

	svc := NewQAService(store, matcher, extractor, 0)

	result, err := svc.Answer(context.Background(), AnswerInput{ImageBase64: image})

	require.NoError(t, err)
	assert.Contains(t, result.Answer, "Handling Missing Values")
}

func TestQAService_Answer_ImageOnlyWithNoExtractedText(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).Return("", nil)

	svc := NewQAService(store, new(MockMatcher), extractor, 0)

	_, err := svc.Answer(context.Background(), AnswerInput{ImageBase64: image})

	assert.ErrorIs(t, err, domain.ErrQuestionRequired)
}

func TestQAService_Answer_Timeout(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
			time.Sleep(100 * time.Millisecond)
		}).
		Return("", context.DeadlineExceeded)

	matcher := new(MockMatcher)
	matcher.On("Rank", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewQAService(store, matcher, extractor, 20*time.Millisecond)

	_, err := svc.Answer(context.Background(), AnswerInput{
		Question:    "slow one",
		ImageBase64: image,
	})

	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestQAService_Answer_CanceledParentIsNotATimeout(t *testing.T) {
	store := testStore(t)
	image := base64.StdEncoding.EncodeToString([]byte("fake-png"))

	ctx, cancel := context.WithCancel(context.Background())

	extractor := new(MockExtractor)
	extractor.On("ExtractText", mock.Anything, image).
		Run(func(args mock.Arguments) {
			cancel()
			callCtx := args.Get(0).(context.Context)
			<-callCtx.Done()
			time.Sleep(100 * time.Millisecond)
		}).
		Return("", context.Canceled)

	matcher := new(MockMatcher)
	matcher.On("Rank", mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewQAService(store, matcher, extractor, time.Minute)

	_, err := svc.Answer(ctx, AnswerInput{
		Question:    "client walks away",
		ImageBase64: image,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTimeout)
}
