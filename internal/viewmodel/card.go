package viewmodel

import (
	"strings"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// BusinessCard is the projection of a business shipped to category pages for client-side filtering
type BusinessCard struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
}

// DeriveBusinessCard projects a business and its tag associations into a card.
// Missing descriptions and categories get generated fallbacks; the location falls back to region.
func DeriveBusinessCard(b *models.Business, region string) BusinessCard {
	description := strings.TrimSpace(b.Description)
	if description == "" {
		description = "Find " + b.Name + " in the " + region + "."
	}

	category := strings.TrimSpace(b.CategoryName)
	if category == "" {
		category = "Business"
	}

	return BusinessCard{
		Name:        b.Name,
		Slug:        b.Slug,
		Description: description,
		Category:    category,
		Location:    LocationTag(b.Tags, region),
		Tags:        TagNames(b.Tags),
	}
}

// Matches applies the category page filter: a case-insensitive exact tag match
// and a case-insensitive substring match on location. Empty criteria match everything.
func (c BusinessCard) Matches(tag, neighborhood string) bool {
	if tag = strings.ToLower(tag); tag != "" {
		found := false
		for _, t := range c.Tags {
			if strings.ToLower(t) == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if neighborhood = strings.ToLower(neighborhood); neighborhood != "" {
		if !strings.Contains(strings.ToLower(c.Location), neighborhood) {
			return false
		}
	}

	return true
}

// FilterCards returns the cards matching the selected tag and neighborhood, in order
func FilterCards(cards []BusinessCard, tag, neighborhood string) []BusinessCard {
	matched := make([]BusinessCard, 0, len(cards))
	for _, c := range cards {
		if c.Matches(tag, neighborhood) {
			matched = append(matched, c)
		}
	}
	return matched
}
