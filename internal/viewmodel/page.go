package viewmodel

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// FeatureGroup is one visual bucket of the features section
type FeatureGroup struct {
	Type  models.TagType
	Label string
	Tags  []string
}

// featureBuckets fixes which tag types appear as features, and in what order
var featureBuckets = []struct {
	Type  models.TagType
	Label string
}{
	{models.TagTypeSpecialization, "Specializations"},
	{models.TagTypeAmenity, "Amenities"},
	{models.TagTypePayment, "Payment Methods"},
	{models.TagTypeService, "Services"},
}

// RelatedItem links to another business in the same category
type RelatedItem struct {
	Name     string
	Slug     string
	Location string
}

// Site carries the per-site values every page repeats
type Site struct {
	URL    string
	Name   string
	Region string
}

// BusinessPage is the render-ready view of one business
type BusinessPage struct {
	Site            Site
	Name            string
	Slug            string
	Title           string
	Description     string
	MetaDescription string
	CanonicalURL    string
	CategoryName    string
	CategoryLabel   string
	LocationTag     string
	Chips           []string
	Address         string
	MapsURL         string
	Phone           string
	Website         string
	HeroImageURL    string
	Hours           []HoursRow
	Features        []FeatureGroup
	Related         []RelatedItem
	RelatedHeading  string
	SchemaType      string
}

// FilterOption is one <option> of a category page filter
type FilterOption struct {
	Value string
	Label string
	Count int
}

// CategoryPage is the render-ready view of one category
type CategoryPage struct {
	Site                Site
	Name                string
	Slug                string
	Title               string
	Description         string
	MetaDescription     string
	CanonicalURL        string
	Count               int
	TagOptions          []FilterOption
	NeighborhoodOptions []FilterOption
	Cards               []BusinessCard
}

// Builder turns fetched rows into page view models
type Builder struct {
	site Site
}

// NewBuilder creates a builder for the configured site
func NewBuilder(cfg config.SiteConfig) *Builder {
	return &Builder{site: Site{
		URL:    strings.TrimRight(cfg.BaseURL, "/"),
		Name:   cfg.Name,
		Region: cfg.Region,
	}}
}

// BusinessURL returns the canonical URL of a business page
func (b *Builder) BusinessURL(slug string) string {
	return b.site.URL + "/business/" + slug
}

// CategoryURL returns the canonical URL of a category page
func (b *Builder) CategoryURL(slug string) string {
	return b.site.URL + "/" + slug
}

// BusinessPage builds a business view model. biz.Tags must already hold the business's
// tag associations, and each related business its own. Dropped fragments are reported
// alongside the page.
func (b *Builder) BusinessPage(biz *models.Business, hours []models.BusinessHours, related []*models.Business, todayIndex int) (*BusinessPage, []*BuildError) {
	categorized, errs := CategorizeTagsByType(biz.Tags)

	formattedHours, hourErrs := FormatBusinessHours(hours, todayIndex)
	errs = append(errs, hourErrs...)

	categoryName := strings.TrimSpace(biz.CategoryName)
	categoryLabel := categoryName
	if categoryLabel == "" {
		categoryLabel = "Business"
	}

	page := &BusinessPage{
		Site:          b.site,
		Name:          biz.Name,
		Slug:          biz.Slug,
		Title:         biz.Name + " | " + b.site.Name,
		Description:   strings.TrimSpace(biz.Description),
		CanonicalURL:  b.BusinessURL(biz.Slug),
		CategoryName:  categoryName,
		CategoryLabel: categoryLabel,
		Address:       biz.Address,
		MapsURL:       MapsURL(biz.Address),
		Phone:         strings.TrimSpace(biz.Phone),
		Hours:         formattedHours,
		SchemaType:    "LocalBusiness",
	}

	page.MetaDescription = page.Description
	if page.MetaDescription == "" {
		label := categoryName
		if label == "" {
			label = "Local business"
		}
		page.MetaDescription = "Find " + biz.Name + " in the " + b.site.Region + ". " +
			label + " with contact information, hours, and more."
	}

	if categoryName == "Restaurants" {
		page.SchemaType = "Restaurant"
	}

	locations := categorized[models.TagTypeLocation]
	if len(locations) > 0 {
		page.LocationTag = locations[0]
	}
	page.Chips = append([]string{categoryLabel}, locations...)

	if website, ok := NormalizeWebsite(biz.Website); ok {
		page.Website = website
	} else {
		errs = append(errs, &BuildError{Field: "website", Value: biz.Website, Reason: "not an http(s) URL"})
	}

	if hero, ok := normalizeAbsoluteURL(biz.HeroImageURL); ok {
		page.HeroImageURL = hero
	} else {
		errs = append(errs, &BuildError{Field: "hero_image_url", Value: biz.HeroImageURL, Reason: "not an http(s) URL"})
	}

	for _, bucket := range featureBuckets {
		if tags := categorized[bucket.Type]; len(tags) > 0 {
			page.Features = append(page.Features, FeatureGroup{Type: bucket.Type, Label: bucket.Label, Tags: tags})
		}
	}

	for _, r := range related {
		if r == nil || r.ID == biz.ID {
			continue
		}
		location, _ := FirstLocation(r.Tags)
		page.Related = append(page.Related, RelatedItem{Name: r.Name, Slug: r.Slug, Location: location})
	}
	page.RelatedHeading = "More " + categoryLabel

	return page, errs
}

// CategoryPage builds a category view model from its active businesses, each holding
// its tag associations, and the site's location tag names.
func (b *Builder) CategoryPage(cat *models.Category, businesses []*models.Business, locations []string) *CategoryPage {
	page := &CategoryPage{
		Site:         b.site,
		Name:         cat.Name,
		Slug:         cat.Slug,
		Title:        cat.Name + " in the " + b.site.Region,
		Description:  strings.TrimSpace(cat.Description),
		CanonicalURL: b.CategoryURL(cat.Slug),
		Count:        len(businesses),
		Cards:        make([]BusinessCard, 0, len(businesses)),
	}

	page.MetaDescription = page.Description
	if page.MetaDescription == "" {
		page.MetaDescription = "Browse " + cat.Name + " in the " + b.site.Region + "."
	}

	for _, biz := range businesses {
		page.Cards = append(page.Cards, DeriveBusinessCard(biz, b.site.Region))
	}

	for _, name := range categoryTagNames(businesses) {
		page.TagOptions = append(page.TagOptions, FilterOption{
			Value: strings.ToLower(name),
			Label: name,
			Count: len(FilterCards(page.Cards, name, "")),
		})
	}

	for _, name := range locations {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		page.NeighborhoodOptions = append(page.NeighborhoodOptions, FilterOption{
			Value: strings.ToLower(name),
			Label: name,
			Count: len(FilterCards(page.Cards, "", name)),
		})
	}

	return page
}

// categoryTagNames returns the sorted distinct non-location tag names used by businesses
func categoryTagNames(businesses []*models.Business) []string {
	seen := make(map[string]bool)
	var names []string
	for _, biz := range businesses {
		for _, bt := range biz.Tags {
			if bt.Tag == nil || bt.Tag.Type == models.TagTypeLocation {
				continue
			}
			name := strings.TrimSpace(bt.Tag.Name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MapsURL returns a Google Maps search link for an address
func MapsURL(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}

// NormalizeWebsite prefixes scheme-less values with https:// and rejects anything
// that is not an absolute http(s) URL. An empty value is valid and stays empty.
func NormalizeWebsite(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return normalizeAbsoluteURL(raw)
}

func normalizeAbsoluteURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.User != nil {
		return "", false
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return "", false
	}
	return raw, true
}
