package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/charvel/ankivocab/internal/anki"
	"codeberg.org/charvel/ankivocab/internal/audio"
	"codeberg.org/charvel/ankivocab/internal/cache"
	"codeberg.org/charvel/ankivocab/internal/cli"
	"codeberg.org/charvel/ankivocab/internal/drive"
	"codeberg.org/charvel/ankivocab/internal/enrich"
	syncer "codeberg.org/charvel/ankivocab/internal/sync"
	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// ErrSpellingIssues marks a run whose output was withheld because the
// enrichment service flagged input terms. The caches stay updated so the
// next run does not re-diff the same terms; the user fixes the source text
// and re-adds the flagged words.
var ErrSpellingIssues = errors.New("input spelling errors detected, output withheld")

// Processor drives the sync and enrichment pipeline.
type Processor struct {
	flags *cli.Flags
}

// NewProcessor creates a processor for the given flag values.
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{flags: flags}
}

// documentResult pairs a synced document with its enrichment output.
type documentResult struct {
	diff    *syncer.DocumentDiff
	records []enrich.Record
}

// pipeline bundles the enrichment and audio services of one run. It is
// constructed before any sync work so that configuration errors surface
// while the caches are still untouched, and it carries the soundfile
// sequence so indices stay unique across documents.
type pipeline struct {
	dispatcher *enrich.Dispatcher
	provider   audio.Provider // nil when audio is disabled
	nextIndex  int
}

func (p *Processor) newPipeline(ctx context.Context) (*pipeline, error) {
	model, err := enrich.NewGeminiModel(ctx, cli.GetGeminiKey(), p.flags.GeminiModel)
	if err != nil {
		return nil, err
	}
	pipe := &pipeline{dispatcher: enrich.NewDispatcher(model, p.flags.BatchSize)}

	if p.audioEnabled() {
		provider, err := p.newAudioProvider()
		if err != nil {
			return nil, err
		}
		index := p.flags.SoundfileIndex
		if index <= 0 {
			index, err = audio.NextSoundfileIndex(p.flags.MediaDir, p.flags.SoundfilePrefix, p.flags.AudioFormat.String())
			if err != nil {
				return nil, err
			}
		}
		pipe.provider = provider
		pipe.nextIndex = index
	}
	return pipe, nil
}

// RunSync performs a full synchronization run against the Drive folder.
func (p *Processor) RunSync(ctx context.Context) error {
	credsFile, tokenFile := cli.GetDriveCredentials()
	if credsFile == "" || tokenFile == "" {
		return fmt.Errorf("OAUTH2_CREDS and OAUTH2_TOKEN not set (environment or drive.credentials/drive.token in the config file)")
	}

	// The enrichment and audio services are configured before any sync
	// work. A configuration failure after the caches were updated would
	// leave the next run seeing every document up to date, and the added
	// terms would never be enriched.
	pipe, err := p.newPipeline(ctx)
	if err != nil {
		return err
	}

	authOpt, err := drive.Authorize(ctx, credsFile, tokenFile)
	if err != nil {
		return err
	}
	client, err := drive.NewClient(ctx, authOpt)
	if err != nil {
		return err
	}

	folderID, err := drive.ResolvePath(ctx, client, p.flags.DrivePath)
	if err != nil {
		return err
	}
	if p.flags.Verbose {
		fmt.Printf("Resolved %s to folder id %s\n", p.flags.DrivePath, folderID)
	}

	store, err := cache.NewStore(p.flags.CacheDir)
	if err != nil {
		return err
	}

	engine := syncer.NewEngine(client, store)
	diffs, syncErr := engine.SyncFolder(ctx, folderID)
	for _, diff := range diffs {
		fmt.Printf("%s: %s\n", diff.Document.Name, diff.Decision)
	}
	if syncErr != nil {
		// Caches written for earlier documents stand; there is no rollback.
		return syncErr
	}

	return p.processDiffs(ctx, store, pipe, diffs)
}

// processDiffs enriches the added terms of every changed document, then
// synthesizes audio and writes note files, or withholds all output when the
// service flagged any input term.
func (p *Processor) processDiffs(ctx context.Context, store *cache.Store, pipe *pipeline, diffs []*syncer.DocumentDiff) error {
	var changed []*syncer.DocumentDiff
	for _, diff := range diffs {
		p.reportRemovals(diff)
		if len(diff.Added) > 0 {
			changed = append(changed, diff)
		}
	}
	if len(changed) == 0 {
		fmt.Println("Nothing to do.")
		return nil
	}

	// Dispatch is per document: that keeps the record-to-document mapping
	// trivial for note output, at the cost of a trailing partial batch per
	// document instead of one per run. All batches are sent even when
	// earlier documents produced issues; the issues are aggregated and
	// reported once at the end.
	var results []documentResult
	var issues []enrich.SpellingIssue
	for _, diff := range changed {
		fmt.Printf("Processing %s (%d new)\n", diff.Document.Name, len(diff.Added))
		result, err := pipe.dispatcher.Enrich(ctx, diff.Added)
		if err != nil {
			return err
		}
		results = append(results, documentResult{diff: diff, records: result.Records})
		issues = append(issues, result.Issues...)
	}

	if len(issues) > 0 {
		report := (&enrich.Result{Issues: issues}).IssueReport()
		fmt.Fprintf(os.Stderr, "Spelling Errors:\n%s", report)
		return ErrSpellingIssues
	}

	for _, result := range results {
		if err := p.writeDocumentNotes(ctx, store, pipe, result); err != nil {
			return err
		}
	}
	return nil
}

// RunImport enriches a local word-list file directly, bypassing the remote
// sync. The deck name is derived from the output file name under the parent
// deck.
func (p *Processor) RunImport(ctx context.Context, textFile, outFile string) error {
	data, err := os.ReadFile(textFile)
	if err != nil {
		return fmt.Errorf("failed to read word list: %w", err)
	}

	terms := vocab.Parse(string(data))
	if len(terms) == 0 {
		fmt.Printf("%s: Nothing to do.\n", filepath.Base(textFile))
		return nil
	}

	pipe, err := p.newPipeline(ctx)
	if err != nil {
		return err
	}
	result, err := pipe.dispatcher.Enrich(ctx, terms)
	if err != nil {
		return err
	}
	if len(result.Issues) > 0 {
		fmt.Fprintf(os.Stderr, "Spelling Errors:\n%s", result.IssueReport())
		return ErrSpellingIssues
	}

	deck := anki.DeckName(p.flags.ParentDeck, deckNameFromFile(outFile))
	notes, err := p.assembleNotes(ctx, pipe, deck, result.Records)
	if err != nil {
		return err
	}
	return anki.WriteNoteFile(outFile, p.flags.NoteType, notes)
}

// RunSpeak synthesizes speech for the contents of a text file. A "-"
// destination plays the audio instead of writing a file.
func (p *Processor) RunSpeak(ctx context.Context, textFile, outFile string) error {
	data, err := os.ReadFile(textFile)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	format, err := outputFormat(outFile)
	if err != nil {
		return err
	}

	provider, err := p.newAudioProvider()
	if err != nil {
		return err
	}

	clip, err := provider.Synthesize(ctx, strings.TrimSpace(string(data)), format)
	if err != nil {
		return err
	}

	if outFile == "-" {
		fmt.Print("Playing results... ")
		if err := audio.Play(clip); err != nil {
			return err
		}
		fmt.Println("done.")
		return nil
	}

	if err := os.WriteFile(outFile, clip, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	fmt.Println("Done.")
	return nil
}

// writeDocumentNotes synthesizes audio for one document's records and writes
// its note file next to the cached copy.
func (p *Processor) writeDocumentNotes(ctx context.Context, store *cache.Store, pipe *pipeline, result documentResult) error {
	deck := anki.DeckName(p.flags.ParentDeck, result.diff.Document.Name)
	notes, err := p.assembleNotes(ctx, pipe, deck, result.records)
	if err != nil {
		return err
	}

	outFile := strings.TrimSuffix(store.PathFor(result.diff.Document.Name), cache.Ext) + ".txt"
	return anki.WriteNoteFile(outFile, p.flags.NoteType, notes)
}

// assembleNotes turns enriched records into notes, generating a soundfile
// per record unless audio is disabled. The soundfile sequence lives in the
// pipeline, so every record of the run gets a unique index no matter how the
// records are split across documents.
func (p *Processor) assembleNotes(ctx context.Context, pipe *pipeline, deck string, records []enrich.Record) ([]anki.Note, error) {
	audioFiles := make([]string, len(records))

	if pipe.provider != nil {
		ext := p.flags.AudioFormat.String()
		for i, record := range records {
			clip, err := pipe.provider.Synthesize(ctx, record.Term.Text, ext)
			if err != nil {
				return nil, fmt.Errorf("audio synthesis for %q failed: %w", record.Term.Text, err)
			}
			name, err := audio.WriteSoundfile(p.flags.MediaDir, p.flags.SoundfilePrefix, pipe.nextIndex, ext, clip)
			if err != nil {
				return nil, err
			}
			audioFiles[i] = name
			pipe.nextIndex++
			if p.flags.Verbose {
				fmt.Printf("Wrote %s for %s\n", name, record.Term.Text)
			}
		}
	}

	notes := make([]anki.Note, len(records))
	for i, record := range records {
		notes[i] = anki.FromRecord(deck, record, audioFiles[i])
	}
	return notes, nil
}

func (p *Processor) reportRemovals(diff *syncer.DocumentDiff) {
	deck := anki.DeckName(p.flags.ParentDeck, diff.Document.Name)
	for _, term := range diff.Removed {
		fmt.Printf("Delete: deck:%s category:%s russian:%s\n", deck, term.Category, term.Text)
	}
}

func (p *Processor) newAudioProvider() (audio.Provider, error) {
	config := audio.DefaultConfig()
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = p.flags.OpenAIModel
	config.OpenAIVoice = p.flags.OpenAIVoice
	config.OpenAISpeed = p.flags.OpenAISpeed
	if p.flags.OpenAIInstruction != "" {
		config.OpenAIInstruction = p.flags.OpenAIInstruction
	}
	return audio.NewProvider(config)
}

func (p *Processor) audioEnabled() bool {
	return !p.flags.SkipAudio && p.flags.SoundfilePrefix != ""
}

// outputFormat selects the audio format from the destination name: the
// lowercased extension, or mp3 for the "-" player destination.
func outputFormat(outFile string) (string, error) {
	if outFile == "-" {
		return "mp3", nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outFile)), ".")
	switch ext {
	case "mp3", "wav", "ogg":
		return ext, nil
	default:
		return "", fmt.Errorf("invalid encoding format: %s", outFile)
	}
}

// deckNameFromFile derives a deck name from an output file name, undoing the
// underscore substitution of the cache naming.
func deckNameFromFile(outFile string) string {
	name := filepath.Base(outFile)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(name, "_", " ")
}
