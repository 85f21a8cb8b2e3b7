package mocks

import (
	"context"

	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/service"
)

// MockBuildService is a mock implementation of BuildService
type MockBuildService struct {
	CreateFunc func(ctx context.Context, kind models.BuildKind) (*models.BuildRun, error)
	GetError   error
	Builds     map[string]*models.BuildRun
	Failures   map[string][]models.FailedItem
	Created    []*models.BuildRun
}

// Verify interface compliance
var _ service.BuildService = (*MockBuildService)(nil)

func NewMockBuildService() *MockBuildService {
	return &MockBuildService{
		Builds:   make(map[string]*models.BuildRun),
		Failures: make(map[string][]models.FailedItem),
	}
}

func (m *MockBuildService) StartProcessor(ctx context.Context) {}

func (m *MockBuildService) StopProcessor() {}

func (m *MockBuildService) CreateBuild(ctx context.Context, kind models.BuildKind) (*models.BuildRun, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, kind)
	}
	if !models.ValidBuildKinds[kind] {
		return nil, service.ErrInvalidKind
	}
	run := &models.BuildRun{
		ID:     "3f1c9f5e-8a9b-4c1d-9e2f-7a6b5c4d3e2f",
		Kind:   kind,
		Status: models.BuildStatusPending,
	}
	m.Created = append(m.Created, run)
	return run, nil
}

func (m *MockBuildService) GetBuild(ctx context.Context, id string) (*models.BuildRun, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Builds[id], nil
}

func (m *MockBuildService) GetBuildFailures(ctx context.Context, id string) ([]models.FailedItem, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Failures[id], nil
}

// MockCatalogService is a mock implementation of CatalogService
type MockCatalogService struct {
	Counts map[string]int
}

// Verify interface compliance
var _ service.CatalogService = (*MockCatalogService)(nil)

func NewMockCatalogService() *MockCatalogService {
	return &MockCatalogService{
		Counts: map[string]int{
			"businesses": 0,
			"categories": 0,
		},
	}
}

func (m *MockCatalogService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}
