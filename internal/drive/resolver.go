package drive

import (
	"context"
	"strings"
)

// RootFolderID is the implicit parent of top-level Drive folders.
const RootFolderID = "root"

// ResolvePath walks a slash-delimited folder path from the Drive root and
// returns the id of the terminal folder. Each segment must match exactly one
// folder under the current parent: zero matches yield PathNotFoundError,
// more than one yields AmbiguousPathError. No partial resolution is
// attempted; either error aborts the walk.
func ResolvePath(ctx context.Context, svc Service, path string) (string, error) {
	parentID := RootFolderID
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		folders, err := svc.ListFolders(ctx, segment, parentID)
		if err != nil {
			return "", err
		}
		switch len(folders) {
		case 0:
			return "", &PathNotFoundError{Segment: segment, Parent: parentID}
		case 1:
			parentID = folders[0].ID
		default:
			return "", &AmbiguousPathError{Segment: segment, Parent: parentID}
		}
	}
	return parentID, nil
}
