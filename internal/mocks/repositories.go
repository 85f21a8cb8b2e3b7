package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/repository"
)

// Verify interface compliance
var (
	_ repository.BusinessRepository = (*MockBusinessRepository)(nil)
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.TagRepository      = (*MockTagRepository)(nil)
	_ repository.HoursRepository    = (*MockHoursRepository)(nil)
	_ repository.BuildRepository    = (*MockBuildRepository)(nil)
)

// MockBusinessRepository is a mock implementation of BusinessRepository
type MockBusinessRepository struct {
	mu            sync.Mutex
	Businesses    []*models.Business
	ListError     error
	RelatedErrors map[int64]error
	SetImageError error
	RelatedCalls  int
}

func NewMockBusinessRepository(businesses ...*models.Business) *MockBusinessRepository {
	return &MockBusinessRepository{
		Businesses:    businesses,
		RelatedErrors: make(map[int64]error),
	}
}

func (m *MockBusinessRepository) ListActive(ctx context.Context) ([]*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.filter(func(b *models.Business) bool { return true }), nil
}

func (m *MockBusinessRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	matches := m.filter(func(b *models.Business) bool {
		return b.CategoryID != nil && *b.CategoryID == categoryID
	})
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

func (m *MockBusinessRepository) ListRelated(ctx context.Context, business *models.Business, limit int) ([]*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelatedCalls++
	if err := m.RelatedErrors[business.ID]; err != nil {
		return nil, err
	}
	if business.CategoryID == nil || limit <= 0 {
		return nil, nil
	}
	related := m.filter(func(b *models.Business) bool {
		return b.ID != business.ID && b.CategoryID != nil && *b.CategoryID == *business.CategoryID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (m *MockBusinessRepository) ListMissingHeroImage(ctx context.Context) ([]*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.filter(func(b *models.Business) bool { return strings.TrimSpace(b.HeroImageURL) == "" }), nil
}

func (m *MockBusinessRepository) SetHeroImage(ctx context.Context, id int64, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetImageError != nil {
		return m.SetImageError
	}
	for _, b := range m.Businesses {
		if b.ID == id {
			b.HeroImageURL = url
		}
	}
	return nil
}

func (m *MockBusinessRepository) CountActive(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filter(func(b *models.Business) bool { return true })), nil
}

// filter returns active businesses matching keep; callers hold the lock
func (m *MockBusinessRepository) filter(keep func(*models.Business) bool) []*models.Business {
	var out []*models.Business
	for _, b := range m.Businesses {
		if b.IsActive() && keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories []*models.Category
	ListError  error
}

func NewMockCategoryRepository(categories ...*models.Category) *MockCategoryRepository {
	return &MockCategoryRepository{Categories: categories}
}

func (m *MockCategoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Categories, nil
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int, error) {
	return len(m.Categories), nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	mu             sync.Mutex
	Tags           []models.Tag
	Assocs         map[int64][]models.BusinessTag
	ListAllError   error
	ListError      error
	BusinessErrors map[int64]error
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		Assocs:         make(map[int64][]models.BusinessTag),
		BusinessErrors: make(map[int64]error),
	}
}

// Tag associates tags with a business
func (m *MockTagRepository) Tag(businessID int64, tags ...models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range tags {
		tag := tags[i]
		m.Assocs[businessID] = append(m.Assocs[businessID], models.BusinessTag{BusinessID: businessID, Tag: &tag})
	}
}

func (m *MockTagRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	if m.ListAllError != nil {
		return nil, m.ListAllError
	}
	return m.Tags, nil
}

func (m *MockTagRepository) ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.BusinessErrors[businessID]; err != nil {
		return nil, err
	}
	return m.Assocs[businessID], nil
}

func (m *MockTagRepository) ListByBusinesses(ctx context.Context, businessIDs []int64) (map[int64][]models.BusinessTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	result := make(map[int64][]models.BusinessTag, len(businessIDs))
	for _, id := range businessIDs {
		if assocs, ok := m.Assocs[id]; ok {
			result[id] = assocs
		}
	}
	return result, nil
}

// MockHoursRepository is a mock implementation of HoursRepository
type MockHoursRepository struct {
	mu     sync.Mutex
	Hours  map[int64][]models.BusinessHours
	Errors map[int64]error
}

func NewMockHoursRepository() *MockHoursRepository {
	return &MockHoursRepository{
		Hours:  make(map[int64][]models.BusinessHours),
		Errors: make(map[int64]error),
	}
}

func (m *MockHoursRepository) ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessHours, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.Errors[businessID]; err != nil {
		return nil, err
	}
	return m.Hours[businessID], nil
}

// MockBuildRepository is a mock implementation of BuildRepository
type MockBuildRepository struct {
	mu          sync.Mutex
	Runs        map[string]*models.BuildRun
	Failures    map[string][]models.FailedItem
	CreateError error
	UpdateError error
}

func NewMockBuildRepository() *MockBuildRepository {
	return &MockBuildRepository{
		Runs:     make(map[string]*models.BuildRun),
		Failures: make(map[string][]models.FailedItem),
	}
}

func (m *MockBuildRepository) Create(ctx context.Context, run *models.BuildRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Runs[run.ID] = run
	return nil
}

func (m *MockBuildRepository) Update(ctx context.Context, run *models.BuildRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Runs[run.ID] = run
	return nil
}

func (m *MockBuildRepository) GetByID(ctx context.Context, id string) (*models.BuildRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Runs[id], nil
}

func (m *MockBuildRepository) GetPending(ctx context.Context) ([]*models.BuildRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*models.BuildRun
	for _, run := range m.Runs {
		if run.Status == models.BuildStatusPending {
			pending = append(pending, run)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

func (m *MockBuildRepository) MarkProcessing(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, exists := m.Runs[id]
	if !exists || run.Status != models.BuildStatusPending {
		return false, nil
	}
	run.Status = models.BuildStatusProcessing
	return true, nil
}

func (m *MockBuildRepository) AddFailures(ctx context.Context, id string, failures []models.FailedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[id] = append(m.Failures[id], failures...)
	return nil
}

func (m *MockBuildRepository) GetFailures(ctx context.Context, id string, limit int) ([]models.FailedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	failures := m.Failures[id]
	if limit > 0 && len(failures) > limit {
		return failures[:limit], nil
	}
	return failures, nil
}

// Snapshot returns a copy of a stored run, safe to read while a processor updates it
func (m *MockBuildRepository) Snapshot(id string) (models.BuildRun, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.Runs[id]
	if !ok {
		return models.BuildRun{}, false
	}
	return *run, true
}
