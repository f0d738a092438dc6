package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Flags holds all command-line flag values.
type Flags struct {
	// General flags
	CfgFile   string
	DrivePath string
	CacheDir  string
	Verbose   bool

	// Anki output flags
	MediaDir        string
	ParentDeck      string
	NoteType        string
	SoundfilePrefix string
	SoundfileIndex  int // 0 selects the next free index
	SkipAudio       bool
	AudioFormat     FormatValue

	// Enrichment flags
	GeminiModel string
	BatchSize   int

	// OpenAI TTS flags
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
}

// NewFlags creates a Flags instance with default values.
func NewFlags() *Flags {
	return &Flags{
		DrivePath:       "/Russian/Anki/",
		CacheDir:        defaultCacheDir(),
		MediaDir:        defaultMediaDir(),
		ParentDeck:      "Russian",
		NoteType:        "Russian Vocab",
		SoundfilePrefix: "RUSSIAN_VOCAB",
		AudioFormat:     FormatValue("mp3"),
		GeminiModel:     "gemini-2.5-flash-lite",
		BatchSize:       20,
		OpenAIModel:     "gpt-4o-mini-tts",
		OpenAIVoice:     "alloy",
		OpenAISpeed:     0.9,
	}
}

func defaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "ankivocab", "vocab")
}

func defaultMediaDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "Anki2", "User 1", "collection.media")
}

// FormatValue is a pflag value restricted to the supported audio formats.
type FormatValue string

var _ pflag.Value = (*FormatValue)(nil)

// String returns the current format.
func (f *FormatValue) String() string {
	return string(*f)
}

// Set validates and stores a format selection.
func (f *FormatValue) Set(s string) error {
	switch s {
	case "mp3", "wav", "ogg":
		*f = FormatValue(s)
		return nil
	default:
		return fmt.Errorf("must be one of mp3, wav, ogg")
	}
}

// Type names the value for help output.
func (f *FormatValue) Type() string {
	return "format"
}
