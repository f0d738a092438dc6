package drive

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeService implements Service from an in-memory folder tree.
type fakeService struct {
	// folders maps parentID to the folders directly under it.
	folders map[string][]Folder
	err     error
}

func (f *fakeService) ListFolders(_ context.Context, name, parentID string) ([]Folder, error) {
	if f.err != nil {
		return nil, f.err
	}
	var matches []Folder
	for _, folder := range f.folders[parentID] {
		if folder.Name == name {
			matches = append(matches, folder)
		}
	}
	return matches, nil
}

func (f *fakeService) ListDocuments(_ context.Context, _ string) ([]Document, error) {
	return nil, nil
}

func (f *fakeService) ExportPlainText(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestResolvePath(t *testing.T) {
	svc := &fakeService{
		folders: map[string][]Folder{
			RootFolderID: {
				{ID: "f-russian", Name: "Russian"},
				{ID: "f-other", Name: "Other"},
			},
			"f-russian": {
				{ID: "f-anki", Name: "Anki"},
			},
		},
	}

	tests := []struct {
		name    string
		path    string
		wantID  string
		wantErr error
	}{
		{
			name:   "single segment",
			path:   "/Russian/",
			wantID: "f-russian",
		},
		{
			name:   "nested path",
			path:   "/Russian/Anki/",
			wantID: "f-anki",
		},
		{
			name:   "no surrounding slashes",
			path:   "Russian/Anki",
			wantID: "f-anki",
		},
		{
			name:    "missing first segment",
			path:    "/Spanish/",
			wantErr: &PathNotFoundError{Segment: "Spanish", Parent: RootFolderID},
		},
		{
			name:    "missing nested segment",
			path:    "/Russian/Vocab/",
			wantErr: &PathNotFoundError{Segment: "Vocab", Parent: "f-russian"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ResolvePath(context.Background(), svc, tt.path)
			if tt.wantErr != nil {
				if err == nil || err.Error() != tt.wantErr.Error() {
					t.Fatalf("ResolvePath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePath() unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("ResolvePath() = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestResolvePathAmbiguous(t *testing.T) {
	svc := &fakeService{
		folders: map[string][]Folder{
			RootFolderID: {
				{ID: "f-1", Name: "Russian"},
				{ID: "f-2", Name: "Russian"},
			},
		},
	}

	_, err := ResolvePath(context.Background(), svc, "/Russian/")
	var ambiguous *AmbiguousPathError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("ResolvePath() error = %v, want AmbiguousPathError", err)
	}
	if ambiguous.Segment != "Russian" || ambiguous.Parent != RootFolderID {
		t.Errorf("unexpected error detail: %+v", ambiguous)
	}
}

func TestResolvePathPropagatesServiceError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("listing failed")}

	if _, err := ResolvePath(context.Background(), svc, "/Russian/"); err == nil {
		t.Fatal("ResolvePath() expected error, got nil")
	}
}

func TestResolvePathErrorTypes(t *testing.T) {
	svc := &fakeService{folders: map[string][]Folder{}}

	_, err := ResolvePath(context.Background(), svc, "/Missing/")
	var notFound *PathNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("ResolvePath() error = %v, want PathNotFoundError", err)
	}
}
