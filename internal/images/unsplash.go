package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sfvdirectory/sitegen/internal/config"
)

// UnsplashLookup searches the Unsplash photo API
type UnsplashLookup struct {
	baseURL   string
	accessKey string
	client    *http.Client
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// NewUnsplashLookup creates a lookup against cfg.UnsplashBaseURL
func NewUnsplashLookup(cfg config.ImagesConfig) *UnsplashLookup {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UnsplashLookup{
		baseURL:   strings.TrimRight(cfg.UnsplashBaseURL, "/"),
		accessKey: cfg.UnsplashAccessKey,
		client:    &http.Client{Timeout: timeout},
	}
}

// Lookup returns the first landscape photo for query
func (u *UnsplashLookup) Lookup(ctx context.Context, query string) (string, bool, error) {
	if u.accessKey == "" {
		return "", false, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("unsplash search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", false, fmt.Errorf("unsplash search: http status %d", resp.StatusCode)
	}

	var body unsplashSearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", false, fmt.Errorf("unsplash search payload: %w", err)
	}
	for _, r := range body.Results {
		if r.URLs.Regular != "" {
			return r.URLs.Regular, true, nil
		}
	}
	return "", false, nil
}
