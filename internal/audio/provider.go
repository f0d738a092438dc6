// Package audio synthesizes pronunciation clips for vocabulary terms and
// manages the sequential soundfile names the flashcard media folder expects.
package audio

import (
	"context"
	"fmt"
)

// Provider is the text-to-speech contract: text in, audio bytes out. The
// output encoding is chosen by the destination filename extension.
type Provider interface {
	// Synthesize renders text as audio in the format implied by format
	// ("mp3", "wav" or "ogg").
	Synthesize(ctx context.Context, text, format string) ([]byte, error)

	// Name returns the provider name.
	Name() string
}

// Config holds common configuration for audio providers.
type Config struct {
	Provider string // provider name: "openai"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "nova", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // voice instructions for gpt-4o-mini-tts
}

// DefaultConfig returns the default provider configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 0.9,
		OpenAIInstruction: "You are speaking Russian (русский язык). Pronounce the text " +
			"with authentic Russian phonetics. Speak slowly and clearly for language learners.",
	}
}

// NewProvider creates the audio provider selected by the configuration.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		return NewOpenAIProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
