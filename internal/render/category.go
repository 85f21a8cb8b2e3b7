package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sfvdirectory/sitegen/internal/viewmodel"
)

// CategorySlots lists the placeholders a category template may use
var CategorySlots = []string{
	"SITE_NAME", "SITE_URL", "REGION", "PAGE_TITLE", "PAGE_DESCRIPTION", "CANONICAL_URL",
	"STRUCTURED_DATA", "CATEGORY_NAME", "TAG_OPTIONS", "NEIGHBORHOOD_OPTIONS",
	"BUSINESS_COUNT", "BUSINESS_CARDS", "BUSINESSES_JSON",
}

// CategoryRenderer renders category pages from one template
type CategoryRenderer struct {
	tmpl *Template
}

// NewCategoryRenderer checks that every placeholder of tmpl can be filled
func NewCategoryRenderer(tmpl *Template) (*CategoryRenderer, error) {
	if err := tmpl.Check(CategorySlots); err != nil {
		return nil, err
	}
	return &CategoryRenderer{tmpl: tmpl}, nil
}

// Render produces the complete HTML document for a category
func (r *CategoryRenderer) Render(page *viewmodel.CategoryPage) (string, error) {
	values, err := CategoryValues(page)
	if err != nil {
		return "", err
	}
	return r.tmpl.Render(values)
}

// CategoryValues computes every category slot for a page
func CategoryValues(page *viewmodel.CategoryPage) (Values, error) {
	structured, err := categoryStructuredData(page)
	if err != nil {
		return nil, fmt.Errorf("structured data: %w", err)
	}

	cards, err := JSON(page.Cards)
	if err != nil {
		return nil, fmt.Errorf("business cards: %w", err)
	}

	return Values{
		"SITE_NAME":            Text(page.Site.Name),
		"SITE_URL":             Text(page.Site.URL),
		"REGION":               Text(page.Site.Region),
		"PAGE_TITLE":           Text(page.Title),
		"PAGE_DESCRIPTION":     Text(page.MetaDescription),
		"CANONICAL_URL":        Text(page.CanonicalURL),
		"STRUCTURED_DATA":      structured,
		"CATEGORY_NAME":        Text(page.Name),
		"TAG_OPTIONS":          filterOptions(page.TagOptions, "No filters available yet", true),
		"NEIGHBORHOOD_OPTIONS": filterOptions(page.NeighborhoodOptions, "No neighborhoods available yet", false),
		"BUSINESS_COUNT":       HTML(strconv.Itoa(page.Count)),
		"BUSINESS_CARDS":       businessCards(page.Cards),
		"BUSINESSES_JSON":      cards,
	}, nil
}

func filterOptions(options []viewmodel.FilterOption, placeholder string, withCount bool) HTML {
	if len(options) == 0 {
		return HTML(`<option value="">` + placeholder + `</option>`)
	}

	var sb strings.Builder
	for _, o := range options {
		label := o.Label
		if withCount {
			label = fmt.Sprintf("%s (%d)", o.Label, o.Count)
		}
		fmt.Fprintf(&sb, `<option value="%s">%s</option>`, Text(o.Value), Text(label))
	}
	return HTML(sb.String())
}

func businessCards(cards []viewmodel.BusinessCard) HTML {
	var sb strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&sb, `
                <a href="/business/%s" class="business-card">
                    <div class="business-card-header">
                        <div class="business-card-category">%s</div>
                        <h3 class="business-card-title">%s</h3>
                        <p class="business-card-description">%s</p>
                        <div class="business-card-tags">`,
			Text(c.Slug), Text(c.Category), Text(c.Name), Text(c.Description))
		for _, tag := range c.Tags {
			fmt.Fprintf(&sb, `<span class="business-card-tag">%s</span>`, Text(tag))
		}
		fmt.Fprintf(&sb, `</div>
                    </div>
                    <div class="business-card-footer">
                        <div class="business-card-location">%s %s</div>
                        <div class="business-card-actions"><span class="action-btn action-btn-primary">View Details</span></div>
                    </div>
                </a>`,
			svg(16, "", iconPin), Text(c.Location))
	}
	return HTML(sb.String())
}
