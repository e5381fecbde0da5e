package content

import (
	"fmt"
)

// ScanError means the destination directory itself is unreadable. Individual
// malformed files never cause it; those are skipped during the scan.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Dir, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// WriteError is a filesystem failure while writing a content file or a
// downloaded image.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// CollisionError is returned when a file with the same slug but a different
// canonical URL already exists and the collision policy is "fail".
type CollisionError struct {
	Slug        string
	ExistingURL string
	NewURL      string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("slug %q already taken by %s (new entry: %s)", e.Slug, e.ExistingURL, e.NewURL)
}
