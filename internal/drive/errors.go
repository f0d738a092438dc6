package drive

import "fmt"

// PathNotFoundError reports a folder path segment with no match under its
// parent. Fatal for the whole sync run.
type PathNotFoundError struct {
	Segment string
	Parent  string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("folder not found: name=%q parent=%q", e.Segment, e.Parent)
}

// AmbiguousPathError reports a folder path segment with more than one match
// under its parent. Fatal for the whole sync run.
type AmbiguousPathError struct {
	Segment string
	Parent  string
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("multiple folders found: name=%q parent=%q", e.Segment, e.Parent)
}
