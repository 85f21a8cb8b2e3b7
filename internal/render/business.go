package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sfvdirectory/sitegen/internal/viewmodel"
)

// BusinessSlots lists the placeholders a business template may use
var BusinessSlots = []string{
	"SITE_NAME", "SITE_URL", "REGION", "PAGE_TITLE", "BUSINESS_NAME", "BUSINESS_DESCRIPTION",
	"CANONICAL_URL", "IMAGE_META", "STRUCTURED_DATA", "CATEGORY_NAME", "LOCATION_TAG",
	"BUSINESS_TAGS", "HERO_BANNER", "ACTION_BUTTONS", "ABOUT_SECTION", "CONTACT_INFO",
	"FEATURES_SECTION", "HOURS_SECTION", "RELATED_SECTION",
}

// BusinessRenderer renders business pages from one template
type BusinessRenderer struct {
	tmpl *Template
}

// NewBusinessRenderer checks that every placeholder of tmpl can be filled
func NewBusinessRenderer(tmpl *Template) (*BusinessRenderer, error) {
	if err := tmpl.Check(BusinessSlots); err != nil {
		return nil, err
	}
	return &BusinessRenderer{tmpl: tmpl}, nil
}

// Render produces the complete HTML document for a business
func (r *BusinessRenderer) Render(page *viewmodel.BusinessPage) (string, error) {
	values, err := BusinessValues(page)
	if err != nil {
		return "", err
	}
	return r.tmpl.Render(values)
}

// BusinessValues computes every business slot for a page
func BusinessValues(page *viewmodel.BusinessPage) (Values, error) {
	structured, err := businessStructuredData(page)
	if err != nil {
		return nil, fmt.Errorf("structured data: %w", err)
	}

	location := HTML("")
	if page.LocationTag != "" {
		location = " • " + Text(page.LocationTag)
	}

	return Values{
		"SITE_NAME":            Text(page.Site.Name),
		"SITE_URL":             Text(page.Site.URL),
		"REGION":               Text(page.Site.Region),
		"PAGE_TITLE":           Text(page.Title),
		"BUSINESS_NAME":        Text(page.Name),
		"BUSINESS_DESCRIPTION": Text(page.MetaDescription),
		"CANONICAL_URL":        Text(page.CanonicalURL),
		"IMAGE_META":           imageMeta(page.HeroImageURL),
		"STRUCTURED_DATA":      structured,
		"CATEGORY_NAME":        Text(page.CategoryLabel),
		"LOCATION_TAG":         location,
		"BUSINESS_TAGS":        businessChips(page.Chips),
		"HERO_BANNER":          heroBanner(page),
		"ACTION_BUTTONS":       actionButtons(page),
		"ABOUT_SECTION":        aboutSection(page.Description),
		"CONTACT_INFO":         contactInfo(page),
		"FEATURES_SECTION":     featuresSection(page.Features),
		"HOURS_SECTION":        hoursSection(page.Hours),
		"RELATED_SECTION":      relatedSection(page.RelatedHeading, page.Related),
	}, nil
}

func imageMeta(url string) HTML {
	if url == "" {
		return ""
	}
	u := Text(url)
	return HTML(`<meta property="og:image" content="` + u + `">
    <meta property="twitter:image" content="` + u + `">`)
}

func heroBanner(page *viewmodel.BusinessPage) HTML {
	if page.HeroImageURL == "" {
		return ""
	}
	return HTML(`<div class="business-hero-image"><img src="` + Text(page.HeroImageURL) + `" alt="` + Text(page.Name) + `" loading="lazy"></div>`)
}

func businessChips(chips []string) HTML {
	var sb strings.Builder
	for _, chip := range chips {
		sb.WriteString(`<span class="business-tag">`)
		sb.WriteString(string(Text(chip)))
		sb.WriteString(`</span>`)
	}
	return HTML(sb.String())
}

func actionButtons(page *viewmodel.BusinessPage) HTML {
	var sb strings.Builder
	if page.Phone != "" {
		fmt.Fprintf(&sb, `
            <a href="tel:%s" class="action-btn action-btn-primary">%s Call Now</a>`,
			Text(telNumber(page.Phone)), svg(16, "", iconPhone))
	}
	fmt.Fprintf(&sb, `
            <a href="%s" target="_blank" rel="noopener noreferrer" class="action-btn action-btn-secondary">%s Get Directions</a>`,
		Text(page.MapsURL), svg(16, "", iconPin))
	if page.Website != "" {
		fmt.Fprintf(&sb, `
            <a href="%s" target="_blank" rel="noopener noreferrer" class="action-btn action-btn-secondary">%s Visit Website</a>`,
			Text(page.Website), svg(16, "", iconGlobe))
	}
	return HTML(sb.String())
}

func aboutSection(description string) HTML {
	if description == "" {
		return ""
	}
	return card(iconInfo, "About", `<p>`+Text(description)+`</p>`)
}

func contactInfo(page *viewmodel.BusinessPage) HTML {
	var sb strings.Builder
	fmt.Fprintf(&sb, `
                        <div class="contact-item contact-address">
                            %s
                            <div class="contact-details">
                                <h3>Address</h3>
                                <p>%s</p>
                                <a href="%s" target="_blank" rel="noopener noreferrer">View on Google Maps</a>
                            </div>
                        </div>`,
		svg(20, "contact-icon", iconPin), Text(page.Address), Text(page.MapsURL))

	if page.Phone != "" {
		fmt.Fprintf(&sb, `
                        <div class="contact-item contact-phone">
                            %s
                            <div class="contact-details">
                                <h3>Phone</h3>
                                <p><a href="tel:%s">%s</a></p>
                            </div>
                        </div>`,
			svg(20, "contact-icon", iconPhone), Text(telNumber(page.Phone)), Text(page.Phone))
	}

	if page.Website != "" {
		fmt.Fprintf(&sb, `
                        <div class="contact-item contact-website">
                            %s
                            <div class="contact-details">
                                <h3>Website</h3>
                                <p><a href="%s" target="_blank" rel="noopener noreferrer">Visit Website</a></p>
                            </div>
                        </div>`,
			svg(20, "contact-icon", iconGlobe), Text(page.Website))
	}
	return HTML(sb.String())
}

func featuresSection(groups []viewmodel.FeatureGroup) HTML {
	if len(groups) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="features-grid">`)
	for _, g := range groups {
		fmt.Fprintf(&sb, `<div class="feature-category"><h3>%s</h3><div class="feature-tags">`, Text(g.Label))
		for _, tag := range g.Tags {
			fmt.Fprintf(&sb, `<span class="feature-tag feature-tag-%s">%s</span>`, g.Type, Text(tag))
		}
		sb.WriteString(`</div></div>`)
	}
	sb.WriteString(`</div>`)
	return card(iconCheck, "Features &amp; Amenities", HTML(sb.String()))
}

func hoursSection(rows []viewmodel.HoursRow) HTML {
	if len(rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="hours-grid">`)
	for _, row := range rows {
		class, current := "hours-row", ""
		if row.IsToday {
			class, current = "hours-row hours-today", ` aria-current="date"`
		}
		fmt.Fprintf(&sb, `<div class="%s" aria-label="%s"%s><span class="hours-day">%s</span><span class="hours-time">%s</span></div>`,
			class, Text(row.Label()), current, Text(row.Day), Text(row.Display))
	}
	sb.WriteString(`</div>`)
	return card(iconClock, "Hours", HTML(sb.String()))
}

func relatedSection(heading string, related []viewmodel.RelatedItem) HTML {
	if len(related) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="related-list">`)
	for _, r := range related {
		fmt.Fprintf(&sb, `<a href="/business/%s" class="related-business"><h3>%s</h3>`, Text(r.Slug), Text(r.Name))
		if r.Location != "" {
			fmt.Fprintf(&sb, `<p>%s</p>`, Text(r.Location))
		}
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div>`)
	return card(iconBuilding, string(Text(heading)), HTML(sb.String()))
}

// card wraps body in a titled content card; title must already be escaped
func card(icon, title string, body HTML) HTML {
	return HTML(`<div class="content-card">
                        <h2>` + svg(20, "", icon) + ` ` + title + `</h2>
                        ` + string(body) + `
                    </div>`)
}

// telNumber keeps the characters a tel: link can dial
func telNumber(phone string) string {
	var sb strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
