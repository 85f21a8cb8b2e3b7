package viewmodel

import "fmt"

// BuildError describes a row fragment that was dropped while building a view model.
// The rest of the entity is still built.
type BuildError struct {
	Field  string
	Value  string
	Reason string
}

func (e *BuildError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}
