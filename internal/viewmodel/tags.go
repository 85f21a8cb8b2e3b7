package viewmodel

import (
	"strings"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// CategorizedTags groups tag names by tag type
type CategorizedTags map[models.TagType][]string

// CategorizeTagsByType buckets tag names by type, keeping association order.
// Associations without a tag row, or whose type is missing or unrecognized, are dropped.
// A recognized tag without a name is dropped and reported.
func CategorizeTagsByType(assocs []models.BusinessTag) (CategorizedTags, []*BuildError) {
	categorized := make(CategorizedTags, len(models.TagTypes))
	var errs []*BuildError

	for _, bt := range assocs {
		if bt.Tag == nil || !bt.Tag.Type.Valid() {
			continue
		}
		name := strings.TrimSpace(bt.Tag.Name)
		if name == "" {
			errs = append(errs, &BuildError{
				Field:  "tag",
				Value:  bt.Tag.Slug,
				Reason: "tag has no name",
			})
			continue
		}
		categorized[bt.Tag.Type] = append(categorized[bt.Tag.Type], name)
	}

	return categorized, errs
}

// FirstLocation returns the name of the first location tag, if any
func FirstLocation(assocs []models.BusinessTag) (string, bool) {
	for _, bt := range assocs {
		if bt.Tag != nil && bt.Tag.Type == models.TagTypeLocation {
			if name := strings.TrimSpace(bt.Tag.Name); name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// LocationTag returns the first location tag name, or fallback when there is none
func LocationTag(assocs []models.BusinessTag, fallback string) string {
	if name, ok := FirstLocation(assocs); ok {
		return name
	}
	return fallback
}

// TagNames returns every non-empty tag name in association order
func TagNames(assocs []models.BusinessTag) []string {
	names := make([]string, 0, len(assocs))
	for _, bt := range assocs {
		if bt.Tag == nil {
			continue
		}
		if name := strings.TrimSpace(bt.Tag.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
