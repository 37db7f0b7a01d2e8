// Package ocr extracts text from question screenshots.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultVisionModel is the OpenAI model used for reading screenshots
	DefaultVisionModel = openai.GPT4oMini
	// visionPrompt asks only for transcription, no interpretation
	visionPrompt = "Transcribe all text visible in this image. Return only the text, nothing else. If the image contains no readable text, return an empty response."
)

var (
	// ErrEmptyImage is returned when the image payload is empty
	ErrEmptyImage = errors.New("image cannot be empty")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
)

// TextExtractor reads the text content out of a base64-encoded image.
// Extraction failures must never abort question answering; callers log and
// continue with the typed question alone.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}

// VisionAPI defines the interface for image transcription
type VisionAPI interface {
	TranscribeImage(ctx context.Context, imageDataURL string) (string, error)
}

// Extractor extracts text from images via a vision-capable chat model.
type Extractor struct {
	api VisionAPI
}

type OpenAIAdapter struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey string, model string) *OpenAIAdapter {
	if model == "" {
		model = DefaultVisionModel
	}
	return &OpenAIAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// TranscribeImage calls the OpenAI chat completion API with an image part
func (a *OpenAIAdapter) TranscribeImage(ctx context.Context, imageDataURL string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: visionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

type Config struct {
	APIKey string
	Model  string
}

// NewExtractor creates an Extractor using defaults.
func NewExtractor(apiKey string) *Extractor {
	return NewExtractorWithConfig(Config{APIKey: apiKey})
}

// NewExtractorWithConfig creates an Extractor with explicit configuration.
func NewExtractorWithConfig(cfg Config) *Extractor {
	return &Extractor{api: NewOpenAIAdapter(cfg.APIKey, cfg.Model)}
}

// NewExtractorFromEnv creates an Extractor using OPENAI_API_KEY environment variable
func NewExtractorFromEnv() (*Extractor, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewExtractor(apiKey), nil
}

// ExtractText transcribes the text content of a base64-encoded image.
func (e *Extractor) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	if imageBase64 == "" {
		return "", ErrEmptyImage
	}

	dataURL := imageBase64
	if !strings.HasPrefix(imageBase64, "data:") {
		dataURL = fmt.Sprintf("data:image/png;base64,%s", imageBase64)
	}

	text, err := e.api.TranscribeImage(ctx, dataURL)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe image: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Noop is a TextExtractor that always returns empty text. It is used when no
// OCR backend is configured.
type Noop struct{}

// ExtractText implements TextExtractor.
func (Noop) ExtractText(ctx context.Context, imageBase64 string) (string, error) {
	return "", nil
}
