package placement

import (
	"errors"
	"fmt"
)

// Every error below aborts the whole export pass.
var (
	ErrUnresolvedLocation        = errors.New("unresolved location")
	ErrUnresolvedItem            = errors.New("unresolved item")
	ErrCompositeTemplateMissing  = errors.New("composite location template missing")
	ErrUnsupportedCostAttachment = errors.New("placement does not support costs")
)

// RecordError locates a failure in the input sequence.
type RecordError struct {
	Index int
	Name  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
