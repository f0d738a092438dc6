package audio

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider over the OpenAI speech API.
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates an OpenAI TTS provider.
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// Synthesize renders text as audio bytes in the requested format.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text, format string) ([]byte, error) {
	responseFormat, err := responseFormatFor(format)
	if err != nil {
		return nil, err
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: responseFormat,
	}
	if p.config.OpenAIInstruction != "" && p.config.OpenAIModel == "gpt-4o-mini-tts" {
		req.Instructions = p.config.OpenAIInstruction
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}
	return data, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// responseFormatFor maps a destination extension to the API response format:
// mp3 stays mp3, wav is uncompressed PCM, ogg carries Opus.
func responseFormatFor(format string) (openai.SpeechResponseFormat, error) {
	switch format {
	case "mp3":
		return openai.SpeechResponseFormatMp3, nil
	case "wav":
		return openai.SpeechResponseFormatWav, nil
	case "ogg":
		return openai.SpeechResponseFormatOpus, nil
	default:
		return "", fmt.Errorf("unsupported audio format: %s", format)
	}
}
