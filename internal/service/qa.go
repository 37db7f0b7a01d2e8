package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/studyhall-ai/studyhall/internal/answer"
	"github.com/studyhall-ai/studyhall/internal/domain"
	"github.com/studyhall-ai/studyhall/internal/kb"
	"github.com/studyhall-ai/studyhall/internal/ocr"
	"github.com/studyhall-ai/studyhall/internal/telemetry"
)

// DefaultAnswerTimeout bounds how long a single question may take end to end.
const DefaultAnswerTimeout = 30 * time.Second

// Matcher defines the interface for ranking knowledge-base entries against a
// query
type Matcher interface {
	Rank(query domain.Query, entries []domain.Entry) []domain.Match
}

// QAService handles business logic for answering student questions
type QAService struct {
	store     *kb.Store
	matcher   Matcher
	extractor ocr.TextExtractor
	timeout   time.Duration
}

// NewQAService creates a new QAService instance. A zero timeout falls back to
// DefaultAnswerTimeout.
func NewQAService(store *kb.Store, matcher Matcher, extractor ocr.TextExtractor, timeout time.Duration) *QAService {
	if extractor == nil {
		extractor = ocr.Noop{}
	}
	if timeout <= 0 {
		timeout = DefaultAnswerTimeout
	}
	return &QAService{
		store:     store,
		matcher:   matcher,
		extractor: extractor,
		timeout:   timeout,
	}
}

// AnswerInput represents the input for answering a question
type AnswerInput struct {
	Question    string
	ImageBase64 string
}

// Answer resolves a student question against the knowledge base. The whole
// pipeline runs under the service timeout; when it expires the caller gets
// domain.ErrTimeout and the in-flight work is abandoned.
func (s *QAService) Answer(ctx context.Context, input AnswerInput) (*answer.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "QAService.Answer", telemetry.SpanAttributes{
		Operation: "answer",
	})
	defer span.End()

	question := strings.TrimSpace(input.Question)
	image := strings.TrimSpace(input.ImageBase64)

	if question == "" && image == "" {
		return nil, domain.ErrQuestionRequired
	}
	if image != "" {
		if _, err := base64.StdEncoding.DecodeString(stripDataURL(image)); err != nil {
			return nil, domain.ErrInvalidImage
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type answerResult struct {
		result *answer.Result
		err    error
	}
	done := make(chan answerResult, 1)

	go func() {
		result, err := s.answer(ctx, question, image)
		done <- answerResult{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		// Only a blown budget is a timeout; a canceled parent (client
		// disconnect, shutdown) keeps its own error.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.ErrTimeout
		}
		return nil, ctx.Err()
	case r := <-done:
		return r.result, r.err
	}
}

func (s *QAService) answer(ctx context.Context, question, image string) (*answer.Result, error) {
	ocrText := ""
	if image != "" {
		text, err := s.extractor.ExtractText(ctx, image)
		if err != nil {
			// OCR is best effort: answer from the typed question alone.
			log.Printf("ocr extraction failed, continuing without image text: %v", err)
			telemetry.CaptureError(ctx, err)
		} else {
			ocrText = text
		}
	}

	query := domain.Query{Text: question, OCRText: ocrText}
	if strings.TrimSpace(query.EffectiveText()) == "" {
		return nil, domain.ErrQuestionRequired
	}

	snap := s.store.Snapshot()
	matches := s.matcher.Rank(query, snap.Entries())
	result := answer.Synthesize(matches, snap)
	return &result, nil
}

// stripDataURL removes a data-URL prefix so the payload itself can be
// validated as base64.
func stripDataURL(image string) string {
	if !strings.HasPrefix(image, "data:") {
		return image
	}
	if i := strings.IndexByte(image, ','); i >= 0 {
		return image[i+1:]
	}
	return image
}
