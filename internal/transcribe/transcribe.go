package transcribe

import (
	"context"
	"fmt"
)

// Transcriber turns an audio file into a SubRip-formatted transcript: the
// block-structured text the caption transcript parser consumes.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // Source language of the audio
	Model    string
	Prompt   string
}

// creates a transcriber based on provider; the API key is supplied by the
// caller per request, never read from the environment here
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
