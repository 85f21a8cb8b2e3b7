package sitemap

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// Namespace is the standard sitemap protocol namespace
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const (
	dateLayout       = "2006-01-02"
	changeFreq       = "weekly"
	homePriority     = "1.0"
	businessPriority = "0.8"
	categoryPriority = "0.6"
)

// URL is one <url> entry
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// URLSet is the sitemap document root
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Builder lays out sitemap entries for one site
type Builder struct {
	baseURL string
}

// New creates a sitemap builder for the site at baseURL
func New(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// Build lists the homepage, then every business, then every category.
// Dates are UTC calendar days; businesses without an updated timestamp use now.
func (b *Builder) Build(now time.Time, businesses []*models.Business, categories []*models.Category) *URLSet {
	today := now.UTC().Format(dateLayout)

	set := &URLSet{
		Xmlns: Namespace,
		URLs:  make([]URL, 0, 1+len(businesses)+len(categories)),
	}

	set.URLs = append(set.URLs, URL{
		Loc:        b.baseURL,
		LastMod:    today,
		ChangeFreq: changeFreq,
		Priority:   homePriority,
	})

	for _, biz := range businesses {
		lastMod := today
		if biz.UpdatedAt != nil {
			lastMod = biz.UpdatedAt.UTC().Format(dateLayout)
		}
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + "/business/" + biz.Slug,
			LastMod:    lastMod,
			ChangeFreq: changeFreq,
			Priority:   businessPriority,
		})
	}

	for _, cat := range categories {
		set.URLs = append(set.URLs, URL{
			Loc:        b.baseURL + "/" + cat.Slug,
			LastMod:    today,
			ChangeFreq: changeFreq,
			Priority:   categoryPriority,
		})
	}

	return set
}

// Marshal encodes the set as a complete XML document
func (s *URLSet) Marshal() ([]byte, error) {
	output, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(output, '\n')...), nil
}
