package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/charvel/ankivocab/internal/cache"
	"codeberg.org/charvel/ankivocab/internal/drive"
	"codeberg.org/charvel/ankivocab/internal/vocab"
)

// Decision classifies the state of one remote document relative to its
// local cached copy.
type Decision int

const (
	// UpToDate means the cache is at least as new as the remote document;
	// nothing was fetched and no diff was computed.
	UpToDate Decision = iota
	// New means no cached copy existed; every parsed term counts as added.
	New
	// Updated means the remote document is strictly newer than the cache;
	// the term sets were diffed and the cache overwritten.
	Updated
)

func (d Decision) String() string {
	switch d {
	case UpToDate:
		return "up to date"
	case New:
		return "new"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// DocumentDiff is the per-document result of a sync pass. Added terms are
// forwarded for enrichment; removed terms are reported only.
type DocumentDiff struct {
	Document drive.Document
	Decision Decision
	Added    []vocab.Term
	Removed  []vocab.Term
}

// Engine compares remote documents against the local cache store. It owns
// all cache mutation: the cache is written only after a successful fetch and
// parse, so a failed export never corrupts an existing mirror file.
type Engine struct {
	svc   drive.Service
	store *cache.Store
}

// NewEngine creates a sync engine over the given remote service and cache.
func NewEngine(svc drive.Service, store *cache.Store) *Engine {
	return &Engine{svc: svc, store: store}
}

// SyncFolder lists the documents in the remote folder and syncs each in
// listing (name) order. A per-document failure aborts the run; diffs for
// documents already processed are returned alongside the error, and their
// cache writes stand.
func (e *Engine) SyncFolder(ctx context.Context, folderID string) ([]*DocumentDiff, error) {
	docs, err := e.svc.ListDocuments(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var diffs []*DocumentDiff
	for _, doc := range docs {
		diff, err := e.SyncDocument(ctx, doc)
		if err != nil {
			return diffs, fmt.Errorf("%s: %w", doc.Name, err)
		}
		diffs = append(diffs, diff)
	}
	return diffs, nil
}

// SyncDocument decides the sync state of one document and, when content has
// changed, computes the added/removed term sets and refreshes the cache.
func (e *Engine) SyncDocument(ctx context.Context, doc drive.Document) (*DocumentDiff, error) {
	diff := &DocumentDiff{Document: doc}

	localMtime, err := e.store.Mtime(doc.Name)
	if errors.Is(err, cache.ErrNotFound) {
		return diff, e.syncNew(ctx, doc, diff)
	}
	if err != nil {
		return nil, err
	}

	remoteMtime, err := parseModifiedTime(doc.ModifiedTime)
	if err != nil {
		return nil, err
	}

	// Both timestamps are UTC here. Strictly-after means changed; a remote
	// timestamp equal to the cache mtime is up to date.
	if !remoteMtime.After(localMtime) {
		diff.Decision = UpToDate
		return diff, nil
	}

	return diff, e.syncUpdated(ctx, doc, diff)
}

func (e *Engine) syncNew(ctx context.Context, doc drive.Document, diff *DocumentDiff) error {
	content, err := e.svc.ExportPlainText(ctx, doc.ID)
	if err != nil {
		return err
	}

	diff.Decision = New
	diff.Added = vocab.Parse(content)

	return e.store.Write(doc.Name, content)
}

func (e *Engine) syncUpdated(ctx context.Context, doc drive.Document, diff *DocumentDiff) error {
	remoteContent, err := e.svc.ExportPlainText(ctx, doc.ID)
	if err != nil {
		return err
	}
	localContent, err := e.store.Read(doc.Name)
	if err != nil {
		return err
	}

	diff.Decision = Updated
	diff.Added, diff.Removed = vocab.Diff(vocab.Parse(remoteContent), vocab.Parse(localContent))

	return e.store.Write(doc.Name, remoteContent)
}

// parseModifiedTime converts the remote store's RFC 3339 timestamp (UTC
// instant with fractional seconds and explicit offset) into UTC for
// comparison against the cache file mtime.
func parseModifiedTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid modifiedTime %q: %w", s, err)
	}
	return t.UTC(), nil
}
