package transform

import (
	"fmt"
)

// EntryError marks a single malformed feed entry. The importer logs it and
// moves on to the next entry; it never aborts the run.
type EntryError struct {
	Title string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Title, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func entryErr(title, format string, args ...any) *EntryError {
	return &EntryError{Title: title, Err: fmt.Errorf(format, args...)}
}
