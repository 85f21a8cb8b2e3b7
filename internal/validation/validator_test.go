package validation

import (
	"strings"
	"testing"

	"github.com/sfvdirectory/sitegen/internal/models"
)

func TestValidateBusiness(t *testing.T) {
	tests := []struct {
		name       string
		business   *models.Business
		wantFields []string
	}{
		{
			name:     "valid business",
			business: &models.Business{Name: "Joe's Diner", Slug: "joes-diner", Address: "1 Main St", Status: models.StatusActive},
		},
		{
			name:       "missing name",
			business:   &models.Business{Slug: "no-name", Address: "1 Main St", Status: models.StatusActive},
			wantFields: []string{"name"},
		},
		{
			name:       "path traversal slug",
			business:   &models.Business{Name: "Evil", Slug: "../etc/passwd", Address: "1 Main St", Status: models.StatusActive},
			wantFields: []string{"slug"},
		},
		{
			name:       "uppercase slug",
			business:   &models.Business{Name: "Caps", Slug: "Joes-Diner", Address: "1 Main St", Status: models.StatusActive},
			wantFields: []string{"slug"},
		},
		{
			name:       "missing address and slug",
			business:   &models.Business{Name: "Nowhere", Status: models.StatusActive},
			wantFields: []string{"slug", "address"},
		},
		{
			name:       "inactive",
			business:   &models.Business{Name: "Gone", Slug: "gone", Address: "1 Main St", Status: "inactive"},
			wantFields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := NewValidator().ValidateBusiness(tt.business)
			if len(errors) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantFields), len(errors), errors)
			}
			for i, field := range tt.wantFields {
				if errors[i].Field != field {
					t.Errorf("Error %d: expected field %q, got %q", i, field, errors[i].Field)
				}
			}
		})
	}
}

func TestValidateBusiness_DuplicateSlug(t *testing.T) {
	v := NewValidator()
	b := &models.Business{Name: "A", Slug: "same", Address: "1 St", Status: models.StatusActive}

	if errs := v.ValidateBusiness(b); len(errs) != 0 {
		t.Fatalf("First claim should pass: %v", errs)
	}
	errs := v.ValidateBusiness(b)
	if len(errs) != 1 || errs[0].Message != "duplicate slug" {
		t.Errorf("Expected duplicate slug error, got %v", errs)
	}

	// Categories live in a separate namespace
	if errs := v.ValidateCategory(&models.Category{Name: "Same", Slug: "same"}); len(errs) != 0 {
		t.Errorf("Category slug should not collide with business slug: %v", errs)
	}
}

func TestErrors(t *testing.T) {
	if err := Errors(nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	err := Errors([]ValidationError{
		{Field: "name", Message: "name is required"},
		{Field: "slug", Message: "duplicate slug", Value: "x"},
	})
	if err == nil || !strings.Contains(err.Error(), "name: name is required; slug: duplicate slug (x)") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestIsValidBuildID(t *testing.T) {
	if !IsValidBuildID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("Expected valid UUID")
	}
	if IsValidBuildID("not-a-uuid") {
		t.Error("Expected invalid UUID")
	}
}
