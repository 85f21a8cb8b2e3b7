package images

import (
	"context"
	"errors"
	"strings"

	"github.com/gosimple/slug"
	"github.com/sfvdirectory/sitegen/internal/config"
)

// Lookup finds an image URL for a free-text query. ok is false when nothing matched.
type Lookup interface {
	Lookup(ctx context.Context, query string) (url string, ok bool, err error)
}

// KeywordImage maps a keyword to an image URL
type KeywordImage struct {
	Keyword string
	URL     string
}

// DefaultPlaceholderImage is used when no keyword matches
const DefaultPlaceholderImage = "https://images.unsplash.com/photo-1441986300917-64674bd600d8?w=800&h=600&fit=crop&q=80"

// DefaultKeywordImages is checked in order; the first matching keyword wins
var DefaultKeywordImages = []KeywordImage{
	{"gym", "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=800&h=600&fit=crop&q=80"},
	{"fitness", "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=800&h=600&fit=crop&q=80"},
	{"restaurant", "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800&h=600&fit=crop&q=80"},
	{"pizza", "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800&h=600&fit=crop&q=80"},
	{"auto", "https://images.unsplash.com/photo-1486754735734-325b5831c3ad?w=800&h=600&fit=crop&q=80"},
	{"repair", "https://images.unsplash.com/photo-1486754735734-325b5831c3ad?w=800&h=600&fit=crop&q=80"},
	{"beauty", "https://images.unsplash.com/photo-1560066984-138dadb4c035?w=800&h=600&fit=crop&q=80"},
	{"salon", "https://images.unsplash.com/photo-1560066984-138dadb4c035?w=800&h=600&fit=crop&q=80"},
	{"hair", "https://images.unsplash.com/photo-1560066984-138dadb4c035?w=800&h=600&fit=crop&q=80"},
	{"home", "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=800&h=600&fit=crop&q=80"},
	{"services", "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=800&h=600&fit=crop&q=80"},
	{"plumbing", "https://images.unsplash.com/photo-1581578731548-c6a0c3f2f2c0?w=800&h=600&fit=crop&q=80"},
}

// PlaceholderLookup picks a stock image by keyword. It always returns a URL.
type PlaceholderLookup struct {
	Images  []KeywordImage
	Default string
}

// NewPlaceholderLookup creates a lookup over the built-in keyword table
func NewPlaceholderLookup() *PlaceholderLookup {
	return &PlaceholderLookup{Images: DefaultKeywordImages, Default: DefaultPlaceholderImage}
}

// Lookup matches keywords against the words of the slugified query. A word matches when it
// starts with the keyword, so "restaurants" matches "restaurant".
func (p *PlaceholderLookup) Lookup(ctx context.Context, query string) (string, bool, error) {
	words := strings.Split(slug.Make(query), "-")
	for _, img := range p.Images {
		for _, w := range words {
			if strings.HasPrefix(w, img.Keyword) {
				return img.URL, true, nil
			}
		}
	}
	if p.Default == "" {
		return "", false, nil
	}
	return p.Default, true, nil
}

// Chain tries each lookup in order and returns the first URL found.
// A failing lookup does not stop the chain.
type Chain []Lookup

func (c Chain) Lookup(ctx context.Context, query string) (string, bool, error) {
	var errs []error
	for _, l := range c {
		url, ok, err := l.Lookup(ctx, query)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return url, true, nil
		}
	}
	return "", false, errors.Join(errs...)
}

// NewLookup returns the Unsplash search backed by placeholders when an access key is
// configured, and the placeholders alone otherwise.
func NewLookup(cfg config.ImagesConfig) Lookup {
	if cfg.UnsplashAccessKey == "" {
		return NewPlaceholderLookup()
	}
	return Chain{NewUnsplashLookup(cfg), NewPlaceholderLookup()}
}
