package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/charvel/ankivocab/internal"
)

// CreateRootCommand creates and configures the root cobra command. The run
// functions are attached by the caller.
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ankivocab",
		Short: "Sync Google Drive word lists into Anki vocabulary notes",
		Long: `ankivocab mirrors vocabulary word-list documents from a Google Drive
folder, detects which words were added or removed since the last run, and
turns the additions into Anki import notes with stress marks, BGN/PCGN
transliteration, English translations, and pronunciation audio.

Examples:
  ankivocab                              # Sync the Drive folder and create notes
  ankivocab import words.rus notes.txt   # Enrich a local word list directly
  ankivocab speak words.txt lesson.mp3   # Synthesize audio from a text file`,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ankivocab.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "increase diagnostic output")

	// Sync flags
	cmd.Flags().StringVar(&flags.DrivePath, "drive-path", flags.DrivePath, "Slash-delimited Drive folder path holding the word lists")
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", flags.CacheDir, "Local mirror directory for synced word lists")

	// Output flags
	cmd.PersistentFlags().StringVarP(&flags.MediaDir, "media-folder", "m", flags.MediaDir, "Anki media folder for sound files")
	cmd.PersistentFlags().StringVarP(&flags.ParentDeck, "parent-deck", "d", flags.ParentDeck, "Parent deck for generated notes")
	cmd.PersistentFlags().StringVarP(&flags.NoteType, "note-type", "n", flags.NoteType, "Anki note type for text import")
	cmd.PersistentFlags().StringVarP(&flags.SoundfilePrefix, "soundfile-prefix", "p", flags.SoundfilePrefix, "Prefix for generated soundfile names (empty disables audio)")
	cmd.PersistentFlags().IntVarP(&flags.SoundfileIndex, "soundfile-index", "i", 0, "Starting soundfile index (default: next available)")
	cmd.PersistentFlags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip audio synthesis")
	cmd.PersistentFlags().VarP(&flags.AudioFormat, "format", "f", "Audio format: mp3, wav or ogg")

	// Enrichment flags
	cmd.PersistentFlags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for linguistic enrichment")
	cmd.PersistentFlags().IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Terms per enrichment request")

	// OpenAI TTS flags
	cmd.PersistentFlags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.PersistentFlags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice")
	cmd.PersistentFlags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.PersistentFlags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("drive.path", cmd.Flags().Lookup("drive-path"))
	viper.BindPFlag("cache.dir", cmd.Flags().Lookup("cache-dir"))
	viper.BindPFlag("anki.media_folder", cmd.PersistentFlags().Lookup("media-folder"))
	viper.BindPFlag("anki.parent_deck", cmd.PersistentFlags().Lookup("parent-deck"))
	viper.BindPFlag("anki.note_type", cmd.PersistentFlags().Lookup("note-type"))
	viper.BindPFlag("anki.soundfile_prefix", cmd.PersistentFlags().Lookup("soundfile-prefix"))
	viper.BindPFlag("audio.format", cmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("audio.openai_model", cmd.PersistentFlags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.PersistentFlags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.PersistentFlags().Lookup("openai-speed"))
	viper.BindPFlag("audio.openai_instruction", cmd.PersistentFlags().Lookup("openai-instruction"))
	viper.BindPFlag("enrich.model", cmd.PersistentFlags().Lookup("gemini-model"))
	viper.BindPFlag("enrich.batch_size", cmd.PersistentFlags().Lookup("batch-size"))
}

// InitConfig initializes viper configuration.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ankivocab")
	}

	viper.SetEnvPrefix("ANKIVOCAB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiKey retrieves the Gemini API key: environment first, then the
// config value, then a key file named in the config.
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	if key := viper.GetString("enrich.api_key"); key != "" {
		return key
	}
	if keyFile := viper.GetString("enrich.api_key_file"); keyFile != "" {
		if data, err := os.ReadFile(keyFile); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config.
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetDriveCredentials returns the OAuth2 credentials and token file paths
// from environment variables or the config file.
func GetDriveCredentials() (credsFile, tokenFile string) {
	credsFile = os.Getenv("OAUTH2_CREDS")
	if credsFile == "" {
		credsFile = viper.GetString("drive.credentials")
	}
	tokenFile = os.Getenv("OAUTH2_TOKEN")
	if tokenFile == "" {
		tokenFile = viper.GetString("drive.token")
	}
	return credsFile, tokenFile
}
