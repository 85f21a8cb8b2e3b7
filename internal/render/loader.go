package render

import (
	"embed"
	"fmt"
	"os"

	"github.com/sfvdirectory/sitegen/internal/config"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// DefaultTemplate returns one of the embedded templates: "business.html" or "category.html"
func DefaultTemplate(name string) (*Template, error) {
	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("default template %s: %w", name, err)
	}
	return Parse(name, string(data)), nil
}

// LoadTemplate reads the template at path, or the embedded default when path is empty
func LoadTemplate(path, defaultName string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(defaultName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return Parse(path, string(data)), nil
}

// NewRenderers builds both page renderers from the site configuration
func NewRenderers(site config.SiteConfig) (*BusinessRenderer, *CategoryRenderer, error) {
	businessTmpl, err := LoadTemplate(site.BusinessTemplatePath, "business.html")
	if err != nil {
		return nil, nil, err
	}
	categoryTmpl, err := LoadTemplate(site.CategoryTemplatePath, "category.html")
	if err != nil {
		return nil, nil, err
	}

	businessRenderer, err := NewBusinessRenderer(businessTmpl)
	if err != nil {
		return nil, nil, err
	}
	categoryRenderer, err := NewCategoryRenderer(categoryTmpl)
	if err != nil {
		return nil, nil, err
	}
	return businessRenderer, categoryRenderer, nil
}
