package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/repository"
)

// ErrInvalidKind is returned when a build is requested for an unknown artifact kind
var ErrInvalidKind = errors.New("kind must be one of: businesses, categories, sitemap, all")

// Runner generates the artifacts of one build kind
type Runner interface {
	Run(ctx context.Context, kind models.BuildKind) ([]*models.BuildSummary, error)
}

// BuildService defines the interface for build run management
type BuildService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	CreateBuild(ctx context.Context, kind models.BuildKind) (*models.BuildRun, error)
	GetBuild(ctx context.Context, id string) (*models.BuildRun, error)
	GetBuildFailures(ctx context.Context, id string) ([]models.FailedItem, error)
}

// CatalogService defines the interface for directory statistics
type CatalogService interface {
	GetCount(ctx context.Context, resource string) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Build   BuildService
	Catalog CatalogService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, runner Runner, pollInterval time.Duration, log zerolog.Logger) *Services {
	return &Services{
		Build:   newBuildService(repos.Build, runner, pollInterval, log),
		Catalog: newCatalogService(repos, log),
	}
}
