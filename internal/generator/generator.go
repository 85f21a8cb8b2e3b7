package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/render"
	"github.com/sfvdirectory/sitegen/internal/repository"
	"github.com/sfvdirectory/sitegen/internal/sitemap"
	"github.com/sfvdirectory/sitegen/internal/validation"
	"github.com/sfvdirectory/sitegen/internal/viewmodel"
)

// Generator runs fetch, build, render and write for every entity of a run.
// One entity failing never stops the others; only a failed bulk fetch fails the run.
type Generator struct {
	repos            *repository.Repositories
	writer           Writer
	builder          *viewmodel.Builder
	businessRenderer *render.BusinessRenderer
	categoryRenderer *render.CategoryRenderer
	sitemap          *sitemap.Builder
	concurrency      int
	relatedLimit     int
	location         *time.Location
	now              func() time.Time
	log              zerolog.Logger
}

// New creates a generator from explicit configuration
func New(cfg *config.Config, repos *repository.Repositories, writer Writer, log zerolog.Logger) (*Generator, error) {
	businessRenderer, categoryRenderer, err := render.NewRenderers(cfg.Site)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	concurrency := cfg.Build.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Generator{
		repos:            repos,
		writer:           writer,
		builder:          viewmodel.NewBuilder(cfg.Site),
		businessRenderer: businessRenderer,
		categoryRenderer: categoryRenderer,
		sitemap:          sitemap.New(cfg.Site.BaseURL),
		concurrency:      concurrency,
		relatedLimit:     cfg.Build.RelatedLimit,
		location:         cfg.Site.Location(),
		now:              time.Now,
		log:              log.With().Str("component", "generator").Logger(),
	}, nil
}

// SetClock replaces the clock used for "today" and sitemap dates
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// IsBulkFetchError reports whether err came from the data store rather than cancellation
func IsBulkFetchError(err error) bool {
	var dae *repository.DataAccessError
	return errors.As(err, &dae)
}

// Run generates the artifacts of one build kind. For BuildKindAll every kind is attempted
// even when an earlier bulk fetch failed; the errors are joined.
func (g *Generator) Run(ctx context.Context, kind models.BuildKind) ([]*models.BuildSummary, error) {
	var summaries []*models.BuildSummary
	collect := func(s *models.BuildSummary, err error) error {
		if s != nil {
			summaries = append(summaries, s)
		}
		return err
	}

	switch kind {
	case models.BuildKindBusinesses:
		return summaries, collect(g.GenerateBusinesses(ctx))
	case models.BuildKindCategories:
		return summaries, collect(g.GenerateCategories(ctx))
	case models.BuildKindSitemap:
		return summaries, collect(g.GenerateSitemap(ctx, false))
	case models.BuildKindAll:
		var errs []error
		if err := collect(g.GenerateBusinesses(ctx)); err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() == nil {
			if err := collect(g.GenerateCategories(ctx)); err != nil {
				errs = append(errs, err)
			}
		}
		if ctx.Err() == nil {
			if err := collect(g.GenerateSitemap(ctx, true)); err != nil {
				errs = append(errs, err)
			}
		}
		return summaries, errors.Join(errs...)
	default:
		return nil, fmt.Errorf("unknown build kind %q", kind)
	}
}

// GenerateBusinesses writes one page per active business
func (g *Generator) GenerateBusinesses(ctx context.Context) (*models.BuildSummary, error) {
	start := time.Now()
	log := g.log.With().Str("kind", string(models.BuildKindBusinesses)).Logger()

	businesses, err := g.repos.Business.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch businesses")
		return nil, fmt.Errorf("fetch businesses: %w", err)
	}
	log.Info().Int("count", len(businesses)).Msg("Fetched businesses")

	today := viewmodel.TodayIndex(g.now(), g.location)
	validator := validation.NewValidator()

	tasks := make([]task, 0, len(businesses))
	for _, biz := range businesses {
		biz := biz
		invalid := validation.Errors(validator.ValidateBusiness(biz))
		tasks = append(tasks, task{
			slug: biz.Slug,
			name: biz.Name,
			run: func(ctx context.Context, stage *models.Stage) error {
				if invalid != nil {
					*stage = models.StageBuild
					return invalid
				}
				return g.generateBusiness(ctx, biz, today, stage)
			},
		})
	}

	summary := &models.BuildSummary{Kind: models.BuildKindBusinesses, Total: len(businesses)}
	g.runTasks(ctx, log, tasks, summary)
	summary.Duration = time.Since(start)
	logSummary(log, summary)

	return summary, ctx.Err()
}

func (g *Generator) generateBusiness(ctx context.Context, biz *models.Business, today int, stage *models.Stage) error {
	*stage = models.StageFetch
	tags, err := g.repos.Tag.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return err
	}
	hours, err := g.repos.Hours.ListByBusiness(ctx, biz.ID)
	if err != nil {
		return err
	}
	related, err := g.repos.Business.ListRelated(ctx, biz, g.relatedLimit)
	if err != nil {
		return err
	}
	related, err = g.attachTags(ctx, related)
	if err != nil {
		// Related items still render, just without their location line
		g.log.Warn().Err(err).Str("slug", biz.Slug).Msg("Failed to fetch related business tags")
	}

	*stage = models.StageBuild
	current := *biz
	current.Tags = tags
	page, buildErrs := g.builder.BusinessPage(&current, hours, related, today)
	g.logBuildErrors(biz.Slug, buildErrs)

	*stage = models.StageRender
	doc, err := g.businessRenderer.Render(page)
	if err != nil {
		return err
	}

	*stage = models.StageWrite
	return g.writer.WriteFile(BusinessPath(biz.Slug), []byte(doc))
}

// GenerateCategories writes one page per category
func (g *Generator) GenerateCategories(ctx context.Context) (*models.BuildSummary, error) {
	start := time.Now()
	log := g.log.With().Str("kind", string(models.BuildKindCategories)).Logger()

	categories, err := g.repos.Category.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch categories")
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	log.Info().Int("count", len(categories)).Msg("Fetched categories")

	locations := g.locationTags(ctx, log)
	validator := validation.NewValidator()

	tasks := make([]task, 0, len(categories))
	for _, cat := range categories {
		cat := cat
		invalid := validation.Errors(validator.ValidateCategory(cat))
		tasks = append(tasks, task{
			slug: cat.Slug,
			name: cat.Name,
			run: func(ctx context.Context, stage *models.Stage) error {
				if invalid != nil {
					*stage = models.StageBuild
					return invalid
				}
				return g.generateCategory(ctx, cat, locations, stage)
			},
		})
	}

	summary := &models.BuildSummary{Kind: models.BuildKindCategories, Total: len(categories)}
	g.runTasks(ctx, log, tasks, summary)
	summary.Duration = time.Since(start)
	logSummary(log, summary)

	return summary, ctx.Err()
}

func (g *Generator) generateCategory(ctx context.Context, cat *models.Category, locations []string, stage *models.Stage) error {
	*stage = models.StageFetch
	businesses, err := g.repos.Business.ListActiveByCategory(ctx, cat.ID)
	if err != nil {
		return err
	}
	businesses, err = g.attachTags(ctx, businesses)
	if err != nil {
		return err
	}

	*stage = models.StageBuild
	page := g.builder.CategoryPage(cat, businesses, locations)

	*stage = models.StageRender
	doc, err := g.categoryRenderer.Render(page)
	if err != nil {
		return err
	}

	*stage = models.StageWrite
	return g.writer.WriteFile(CategoryPath(cat.Slug), []byte(doc))
}

// locationTags returns every location tag name; a failed fetch only drops the neighborhood filter
func (g *Generator) locationTags(ctx context.Context, log zerolog.Logger) []string {
	tags, err := g.repos.Tag.ListAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not fetch tags, neighborhood filter will be empty")
		return nil
	}

	var names []string
	for _, t := range tags {
		if t.Type == models.TagTypeLocation && t.Name != "" {
			names = append(names, t.Name)
		}
	}
	log.Info().Int("tags", len(tags)).Int("location_tags", len(names)).Msg("Fetched tags")
	return names
}

// attachTags returns copies of businesses carrying their tag associations.
// On error the untagged copies are still returned.
func (g *Generator) attachTags(ctx context.Context, businesses []*models.Business) ([]*models.Business, error) {
	if len(businesses) == 0 {
		return businesses, nil
	}

	ids := make([]int64, len(businesses))
	copies := make([]*models.Business, len(businesses))
	for i, b := range businesses {
		ids[i] = b.ID
		c := *b
		copies[i] = &c
	}

	tagsByBusiness, err := g.repos.Tag.ListByBusinesses(ctx, ids)
	if err != nil {
		return copies, err
	}
	for _, c := range copies {
		c.Tags = tagsByBusiness[c.ID]
	}
	return copies, nil
}

// GenerateSitemap writes sitemap.xml listing the homepage and every active business,
// plus every category when includeCategories is set. Rows whose slug cannot be a page
// are left out and reported as failed.
func (g *Generator) GenerateSitemap(ctx context.Context, includeCategories bool) (*models.BuildSummary, error) {
	start := time.Now()
	log := g.log.With().Str("kind", string(models.BuildKindSitemap)).Logger()

	businesses, err := g.repos.Business.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch businesses")
		return nil, fmt.Errorf("fetch businesses: %w", err)
	}

	var categories []*models.Category
	if includeCategories {
		categories, err = g.repos.Category.ListAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Could not fetch categories, sitemap will list businesses only")
			categories = nil
		}
	}

	summary := &models.BuildSummary{Kind: models.BuildKindSitemap, Total: len(businesses) + len(categories)}
	validator := validation.NewValidator()

	listed := make([]*models.Business, 0, len(businesses))
	for _, b := range businesses {
		if err := validation.Errors(validator.ValidateBusiness(b)); err != nil {
			summary.Failed = append(summary.Failed, failedItem(b.Slug, b.Name, models.StageBuild, err))
			continue
		}
		listed = append(listed, b)
	}
	listedCategories := make([]*models.Category, 0, len(categories))
	for _, c := range categories {
		if err := validation.Errors(validator.ValidateCategory(c)); err != nil {
			summary.Failed = append(summary.Failed, failedItem(c.Slug, c.Name, models.StageBuild, err))
			continue
		}
		listedCategories = append(listedCategories, c)
	}

	data, err := g.sitemap.Build(g.now(), listed, listedCategories).Marshal()
	if err != nil {
		summary.Failed = append(summary.Failed, failedItem(SitemapPath, SitemapPath, models.StageRender, err))
	} else if err := g.writer.WriteFile(SitemapPath, data); err != nil {
		log.Error().Err(err).Str("stage", string(models.StageWrite)).Msg("Failed to write sitemap")
		summary.Failed = append(summary.Failed, failedItem(SitemapPath, SitemapPath, models.StageWrite, err))
	} else {
		summary.Generated = len(listed) + len(listedCategories)
	}

	summary.Duration = time.Since(start)
	logSummary(log, summary)
	return summary, nil
}

// task is one entity's pipeline. run updates stage as it progresses so a failure,
// including a panic, is attributed to the step it happened in.
type task struct {
	slug string
	name string
	run  func(ctx context.Context, stage *models.Stage) error
}

// runTasks runs tasks with at most g.concurrency in flight. Once ctx is cancelled no new
// task starts; tasks already running finish on a context that ignores the cancellation.
func (g *Generator) runTasks(ctx context.Context, log zerolog.Logger, tasks []task, summary *models.BuildSummary) {
	sem := make(chan struct{}, g.concurrency)
	inFlight := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	failures := make([]*models.FailedItem, len(tasks))
	succeeded := make([]bool, len(tasks))
	started := 0

dispatch:
	for i := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		started++

		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()
			defer func() { <-sem }()

			log.Info().Int("index", i+1).Int("total", len(tasks)).Str("slug", t.slug).Msg("Generating page")

			stage := models.StageFetch
			if err := runTask(inFlight, t, &stage); err != nil {
				log.Error().Err(err).
					Int("index", i+1).
					Int("total", len(tasks)).
					Str("slug", t.slug).
					Str("stage", string(stage)).
					Msg("Page generation failed")
				item := failedItem(t.slug, t.name, stage, &ItemError{Slug: t.slug, Stage: stage, Err: err})
				failures[i] = &item
				return
			}
			succeeded[i] = true
		}(i, tasks[i])
	}
	wg.Wait()

	for i := range tasks {
		if succeeded[i] {
			summary.Generated++
		}
		if failures[i] != nil {
			summary.Failed = append(summary.Failed, *failures[i])
		}
	}
	summary.Skipped = len(tasks) - started
	if summary.Skipped > 0 {
		log.Warn().Int("skipped", summary.Skipped).Msg("Run cancelled before every page was generated")
	}
}

func runTask(ctx context.Context, t task, stage *models.Stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.run(ctx, stage)
}

func failedItem(slug, name string, stage models.Stage, err error) models.FailedItem {
	var itemErr *ItemError
	if errors.As(err, &itemErr) {
		err = itemErr.Err
	}
	return models.FailedItem{Slug: slug, Name: name, Stage: stage, Error: err.Error()}
}

func (g *Generator) logBuildErrors(slug string, errs []*viewmodel.BuildError) {
	for _, e := range errs {
		g.log.Warn().
			Str("slug", slug).
			Str("field", e.Field).
			Str("value", e.Value).
			Msg("Dropped row fragment: " + e.Reason)
	}
}

func logSummary(log zerolog.Logger, s *models.BuildSummary) {
	failed := make([]string, len(s.Failed))
	for i, f := range s.Failed {
		failed[i] = f.Slug
	}

	log.Info().
		Int("total", s.Total).
		Int("generated", s.Generated).
		Int("failed", s.FailedCount()).
		Int("skipped", s.Skipped).
		Strs("failed_slugs", failed).
		Dur("duration", s.Duration).
		Msg("Generation finished")
}
