package images

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/repository"
)

// BackfillSummary reports the outcome of one backfill run
type BackfillSummary struct {
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	NotFound int           `json:"not_found"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Backfiller stores a hero image URL on every active business that lacks one.
// It runs before generation and is never called while pages are rendered.
type Backfiller struct {
	businesses repository.BusinessRepository
	lookup     Lookup
	region     string
	delay      time.Duration
	log        zerolog.Logger
}

// NewBackfiller creates a backfiller that waits delay between businesses
func NewBackfiller(businesses repository.BusinessRepository, lookup Lookup, region string, delay time.Duration, log zerolog.Logger) *Backfiller {
	return &Backfiller{
		businesses: businesses,
		lookup:     lookup,
		region:     region,
		delay:      delay,
		log:        log.With().Str("component", "image_backfill").Logger(),
	}
}

// Query builds the image search text for a business
func (b *Backfiller) Query(biz *models.Business) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{biz.Name, biz.CategoryName, b.region} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Run processes businesses one at a time. A failure for one business is logged and skipped;
// only the initial list fetch or cancellation ends the run early.
func (b *Backfiller) Run(ctx context.Context) (*BackfillSummary, error) {
	start := time.Now()

	businesses, err := b.businesses.ListMissingHeroImage(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("Failed to fetch businesses without hero image")
		return nil, fmt.Errorf("fetch businesses: %w", err)
	}

	summary := &BackfillSummary{Total: len(businesses)}
	b.log.Info().Int("count", len(businesses)).Msg("Starting hero image backfill")

	for i, biz := range businesses {
		if i > 0 && b.delay > 0 {
			select {
			case <-ctx.Done():
				summary.Duration = time.Since(start)
				return summary, ctx.Err()
			case <-time.After(b.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		log := b.log.With().Int("index", i+1).Int("total", len(businesses)).Str("slug", biz.Slug).Logger()
		query := b.Query(biz)

		url, ok, err := b.lookup.Lookup(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("Image lookup failed")
			summary.Failed++
			continue
		}
		if !ok {
			log.Info().Str("query", query).Msg("No image found")
			summary.NotFound++
			continue
		}

		if err := b.businesses.SetHeroImage(ctx, biz.ID, url); err != nil {
			log.Error().Err(err).Msg("Failed to store hero image")
			summary.Failed++
			continue
		}
		summary.Updated++
		log.Info().Str("url", url).Msg("Hero image stored")
	}

	summary.Duration = time.Since(start)
	b.log.Info().
		Int("total", summary.Total).
		Int("updated", summary.Updated).
		Int("not_found", summary.NotFound).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("Hero image backfill finished")

	return summary, nil
}
