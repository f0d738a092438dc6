package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/charvel/ankivocab/internal/cli"
	"codeberg.org/charvel/ankivocab/internal/enrich"
	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// fakeSpeech is an audio provider returning fixed bytes for any text.
type fakeSpeech struct{}

func (fakeSpeech) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	return []byte("audio"), nil
}

func (fakeSpeech) Name() string { return "fake" }

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		outFile string
		want    string
		wantErr bool
	}{
		{"mp3 file", "lesson.mp3", "mp3", false},
		{"wav file", "lesson.wav", "wav", false},
		{"ogg file", "lesson.ogg", "ogg", false},
		{"uppercase extension", "lesson.MP3", "mp3", false},
		{"player destination", "-", "mp3", false},
		{"no extension", "lesson", "", true},
		{"unsupported extension", "lesson.flac", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormat(tt.outFile)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("outputFormat(%q) expected error, got %q", tt.outFile, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("outputFormat(%q) unexpected error: %v", tt.outFile, err)
			}
			if got != tt.want {
				t.Errorf("outputFormat(%q) = %q, want %q", tt.outFile, got, tt.want)
			}
		})
	}
}

func TestDeckNameFromFile(t *testing.T) {
	tests := []struct {
		outFile string
		want    string
	}{
		{"Vocabulary_Level_1.txt", "Vocabulary Level 1"},
		{"/tmp/notes/Verbs.txt", "Verbs"},
		{"Phrases", "Phrases"},
	}

	for _, tt := range tests {
		if got := deckNameFromFile(tt.outFile); got != tt.want {
			t.Errorf("deckNameFromFile(%q) = %q, want %q", tt.outFile, got, tt.want)
		}
	}
}

// A missing enrichment key must abort the run before any sync work, so the
// caches still reflect the previous run and the next run re-diffs the same
// terms instead of silently dropping them.
func TestRunSyncMissingEnrichmentKeyAbortsBeforeCacheWrites(t *testing.T) {
	flags := cli.NewFlags()
	flags.CacheDir = t.TempDir()
	flags.SkipAudio = true
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OAUTH2_CREDS", "creds.json")
	t.Setenv("OAUTH2_TOKEN", "token.json")

	err := NewProcessor(flags).RunSync(context.Background())
	var cfgErr *enrich.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("RunSync error = %v, want enrichment configuration error", err)
	}

	entries, err := os.ReadDir(flags.CacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache directory was touched despite the configuration error: %v", entries)
	}
}

// The soundfile sequence is shared across documents: an explicit start index
// must be consumed once per run, not reset per document, or a later
// document's clips overwrite an earlier one's.
func TestAssembleNotesContinuesIndexAcrossDocuments(t *testing.T) {
	flags := cli.NewFlags()
	flags.MediaDir = t.TempDir()
	flags.SoundfilePrefix = "PREFIX"
	p := NewProcessor(flags)
	pipe := &pipeline{provider: fakeSpeech{}, nextIndex: 5}

	first := []enrich.Record{
		{Term: vocab.Term{Text: "один"}, Stressed: "оди́н", Romanized: "odin", English: "one"},
		{Term: vocab.Term{Text: "два"}, Stressed: "два", Romanized: "dva", English: "two"},
	}
	second := []enrich.Record{
		{Term: vocab.Term{Text: "три"}, Stressed: "три", Romanized: "tri", English: "three"},
	}

	notesA, err := p.assembleNotes(context.Background(), pipe, "Russian::A", first)
	if err != nil {
		t.Fatal(err)
	}
	notesB, err := p.assembleNotes(context.Background(), pipe, "Russian::B", second)
	if err != nil {
		t.Fatal(err)
	}

	got := []string{notesA[0].AudioFile, notesA[1].AudioFile, notesB[0].AudioFile}
	want := []string{"PREFIX-0005.mp3", "PREFIX-0006.mp3", "PREFIX-0007.mp3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("soundfile %d = %q, want %q", i, got[i], want[i])
		}
	}

	for _, name := range want {
		if _, err := os.Stat(filepath.Join(flags.MediaDir, name)); err != nil {
			t.Errorf("soundfile %s missing: %v", name, err)
		}
	}
}
