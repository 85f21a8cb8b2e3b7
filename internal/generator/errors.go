package generator

import (
	"fmt"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// WriteError reports a failed output file write
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

// ItemError attributes the failure of one entity to the pipeline stage it was in
type ItemError struct {
	Slug  string
	Stage models.Stage
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Slug, e.Stage, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}
