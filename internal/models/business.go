package models

import (
	"time"
)

// BusinessStatus is the publication status of a business listing
type BusinessStatus string

// StatusActive is the only status eligible for page generation and sitemap inclusion
const StatusActive BusinessStatus = "active"

// Business represents a row of the businesses table joined with its category
type Business struct {
	ID           int64          `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Slug         string         `json:"slug" db:"slug"`
	Description  string         `json:"description,omitempty" db:"description"`
	Address      string         `json:"address" db:"address"`
	Phone        string         `json:"phone,omitempty" db:"phone"`
	Website      string         `json:"website,omitempty" db:"website"`
	Status       BusinessStatus `json:"status" db:"status"`
	CategoryID   *int64         `json:"category_id,omitempty" db:"category_id"`
	HeroImageURL string         `json:"hero_image_url,omitempty" db:"hero_image_url"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty" db:"updated_at"`

	// Joined from categories; empty when the business has no category
	CategoryName string `json:"category_name,omitempty" db:"-"`
	CategorySlug string `json:"category_slug,omitempty" db:"-"`

	// Loaded separately by the tag repository
	Tags []BusinessTag `json:"tags,omitempty" db:"-"`
}

// IsActive reports whether the business may be published
func (b *Business) IsActive() bool {
	return b.Status == StatusActive
}
