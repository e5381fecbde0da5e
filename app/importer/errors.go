package importer

import (
	"fmt"
)

type UnknownSourceError struct {
	Kind string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source kind: %q", e.Kind)
}
