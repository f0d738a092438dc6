package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	folderMimeType   = "application/vnd.google-apps.folder"
	documentMimeType = "application/vnd.google-apps.document"
)

// Folder identifies a Drive folder by opaque id.
type Folder struct {
	ID   string
	Name string
}

// Document describes a word-list document in the remote store. ModifiedTime
// is the raw RFC 3339 timestamp string as reported by Drive; the sync engine
// parses it.
type Document struct {
	ID           string
	Name         string
	ModifiedTime string
}

// Service is the remote store contract the resolver and sync engine consume.
type Service interface {
	// ListFolders returns the folders named name directly under parentID.
	ListFolders(ctx context.Context, name, parentID string) ([]Folder, error)

	// ListDocuments returns all Google Docs documents in the folder,
	// exhaustively across pagination, ordered by name.
	ListDocuments(ctx context.Context, folderID string) ([]Document, error)

	// ExportPlainText exports a document as UTF-8 plain text with any
	// byte-order mark stripped.
	ExportPlainText(ctx context.Context, documentID string) (string, error)
}

// Client implements Service against the Drive v3 API.
type Client struct {
	svc *gdrive.Service
}

// NewClient builds a Drive API client from the given options (typically a
// token source from Authorize).
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ListFolders returns the folders matching name under parentID.
func (c *Client) ListFolders(ctx context.Context, name, parentID string) ([]Folder, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s'",
		escapeQuery(name), parentID, folderMimeType)

	resp, err := c.svc.Files.List().
		Context(ctx).
		Q(q).
		Spaces("drive").
		Fields(googleapi.Field("files(id, name)")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("folder query failed: %w", err)
	}

	folders := make([]Folder, 0, len(resp.Files))
	for _, f := range resp.Files {
		folders = append(folders, Folder{ID: f.Id, Name: f.Name})
	}
	return folders, nil
}

// ListDocuments lists every Google Docs file in the folder, looping over
// page tokens until the listing is exhausted. Trashed files are excluded and
// results come back in name order for deterministic processing.
func (c *Client) ListDocuments(ctx context.Context, folderID string) ([]Document, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false and mimeType = '%s'",
		folderID, documentMimeType)

	var docs []Document
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Context(ctx).
			Q(q).
			Spaces("drive").
			OrderBy("name").
			Fields(googleapi.Field("nextPageToken, files(id, name, modifiedTime)"))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("document listing failed: %w", err)
		}
		for _, f := range resp.Files {
			docs = append(docs, Document{
				ID:           f.Id,
				Name:         f.Name,
				ModifiedTime: f.ModifiedTime,
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return docs, nil
}

// ExportPlainText downloads the document content as text/plain, stripping a
// UTF-8 BOM if the export carries one.
func (c *Client) ExportPlainText(ctx context.Context, documentID string) (string, error) {
	resp, err := c.svc.Files.Export(documentID, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("document export failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read export body: %w", err)
	}

	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// escapeQuery escapes single quotes and backslashes for Drive query strings.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
