package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Value)
}

// Errors joins validation errors into a single error, or nil when there are none
func Errors(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid row: %s", strings.Join(msgs, "; "))
}

// Validator checks rows before they are turned into pages. It remembers the slugs it
// has accepted so two rows can never claim the same output file; it is not safe for
// concurrent use.
type Validator struct {
	businessSlugs map[string]bool
	categorySlugs map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		businessSlugs: make(map[string]bool),
		categorySlugs: make(map[string]bool),
	}
}

// ValidateBusiness validates a business row and claims its slug
func (v *Validator) ValidateBusiness(b *models.Business) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(b.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	errors = append(errors, v.checkSlug(b.Slug, v.businessSlugs)...)

	if strings.TrimSpace(b.Address) == "" {
		errors = append(errors, ValidationError{Field: "address", Message: "address is required"})
	}

	if !b.IsActive() {
		errors = append(errors, ValidationError{Field: "status", Message: "business is not active", Value: string(b.Status)})
	}

	return errors
}

// ValidateCategory validates a category row and claims its slug
func (v *Validator) ValidateCategory(c *models.Category) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}

	errors = append(errors, v.checkSlug(c.Slug, v.categorySlugs)...)

	return errors
}

func (v *Validator) checkSlug(s string, seen map[string]bool) []ValidationError {
	if s == "" {
		return []ValidationError{{Field: "slug", Message: "slug is required"}}
	}
	if !slug.IsSlug(s) {
		return []ValidationError{{Field: "slug", Message: "slug must be lowercase letters, digits and hyphens", Value: s}}
	}
	if seen[s] {
		return []ValidationError{{Field: "slug", Message: "duplicate slug", Value: s}}
	}
	seen[s] = true
	return nil
}

// IsValidBuildID checks if a string is a valid build run ID
func IsValidBuildID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
