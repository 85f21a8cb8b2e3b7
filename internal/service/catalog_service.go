package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/repository"
)

// catalogService is the concrete implementation of CatalogService
type catalogService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newCatalogService(repos *repository.Repositories, log zerolog.Logger) *catalogService {
	return &catalogService{
		repos: repos,
		log:   log.With().Str("service", "catalog").Logger(),
	}
}

// GetCount returns the number of publishable rows of a resource
func (s *catalogService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "businesses":
		return s.repos.Business.CountActive(ctx)
	case "categories":
		return s.repos.Category.Count(ctx)
	default:
		return 0, fmt.Errorf("unknown resource: %s", resource)
	}
}
