package models

// TagType buckets a tag for display
type TagType string

const (
	TagTypePayment        TagType = "payment"
	TagTypeAmenity        TagType = "amenity"
	TagTypeLocation       TagType = "location"
	TagTypeSpecialization TagType = "specialization"
	TagTypePricing        TagType = "pricing"
	TagTypeService        TagType = "service"
	TagTypeUrgency        TagType = "urgency"
)

// TagTypes lists every recognized tag type
var TagTypes = []TagType{
	TagTypePayment,
	TagTypeAmenity,
	TagTypeLocation,
	TagTypeSpecialization,
	TagTypePricing,
	TagTypeService,
	TagTypeUrgency,
}

// Valid reports whether t is one of the recognized tag types
func (t TagType) Valid() bool {
	for _, known := range TagTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Tag represents a row of the tags table
type Tag struct {
	ID   int64   `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Slug string  `json:"slug" db:"slug"`
	Type TagType `json:"tag_type" db:"tag_type"`
}

// BusinessTag is one business ↔ tag association.
// Tag is nil when the association references no tag row.
type BusinessTag struct {
	BusinessID int64 `json:"business_id" db:"business_id"`
	Tag        *Tag  `json:"tag,omitempty"`
}
