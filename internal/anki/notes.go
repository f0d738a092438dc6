// Package anki assembles enriched vocabulary records into the semicolon
// delimited note files the flashcard application imports.
package anki

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/charvel/ankivocab/internal/enrich"
)

// Note is one flashcard record in import field order.
type Note struct {
	Deck      string
	Russian   string
	Stressed  string
	Romanized string
	AudioFile string // bare media filename, empty when audio is disabled
	English   string
	Category  string
	Notes     string
}

// DeckName joins a parent deck and a document name into the nested deck
// identifier ("Russian::Numbers").
func DeckName(parent, document string) string {
	if parent == "" {
		return document
	}
	return parent + "::" + document
}

// FromRecord builds a note from an enriched record. Translations can come
// back with HTML entities (the service escapes apostrophes and the like), so
// the English field is unescaped here.
func FromRecord(deck string, rec enrich.Record, audioFile string) Note {
	return Note{
		Deck:      deck,
		Russian:   rec.Term.Text,
		Stressed:  rec.Stressed,
		Romanized: rec.Romanized,
		AudioFile: audioFile,
		English:   html.UnescapeString(rec.English),
		Category:  rec.Term.Category,
		Notes:     rec.Notes,
	}
}

// formatAudioField renders the media reference the importer expects.
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", audioFile)
}

// line renders one record. Fields are joined with semicolons and the line is
// semicolon terminated. Known limitation: the import format has no escape
// syntax, so a semicolon inside a field shifts the columns after it — the
// format is preserved as-is for importer compatibility.
func (n Note) line() string {
	fields := []string{
		n.Deck,
		n.Russian,
		n.Stressed,
		n.Romanized,
		formatAudioField(n.AudioFile),
		n.English,
		n.Category,
		n.Notes,
	}
	return strings.Join(fields, ";") + ";"
}

// WriteNoteFile writes the import file: three directive lines (separator,
// note type, deck column) followed by one line per note. Nothing is written
// when there are no notes.
func WriteNoteFile(path, noteType string, notes []Note) error {
	if len(notes) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("#separator:Semicolon\n")
	fmt.Fprintf(&sb, "#notetype:%s\n", noteType)
	sb.WriteString("#deck column:1\n")

	lines := make([]string, len(notes))
	for i, note := range notes {
		lines[i] = note.line()
	}
	sb.WriteString(strings.Join(lines, "\n"))

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write note file: %w", err)
	}

	fmt.Printf("%s: %d Anki notes created.\n", filepath.Base(path), len(notes))
	return nil
}
