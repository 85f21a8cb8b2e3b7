package repository

import (
	"context"
	"fmt"

	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// DataAccessError reports that the data store was unreachable or rejected a query
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func dataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// BusinessRepository defines the interface for business data operations.
// Every list method returns only businesses whose status is active.
type BusinessRepository interface {
	ListActive(ctx context.Context) ([]*models.Business, error)
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]*models.Business, error)
	ListRelated(ctx context.Context, business *models.Business, limit int) ([]*models.Business, error)
	ListMissingHeroImage(ctx context.Context) ([]*models.Business, error)
	SetHeroImage(ctx context.Context, id int64, url string) error
	CountActive(ctx context.Context) (int, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	ListAll(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	ListAll(ctx context.Context) ([]models.Tag, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessTag, error)
	ListByBusinesses(ctx context.Context, businessIDs []int64) (map[int64][]models.BusinessTag, error)
}

// HoursRepository defines the interface for business hours data operations
type HoursRepository interface {
	ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessHours, error)
}

// BuildRepository defines the interface for build run persistence
type BuildRepository interface {
	Create(ctx context.Context, run *models.BuildRun) error
	Update(ctx context.Context, run *models.BuildRun) error
	GetByID(ctx context.Context, id string) (*models.BuildRun, error)
	GetPending(ctx context.Context) ([]*models.BuildRun, error)
	MarkProcessing(ctx context.Context, id string) (bool, error)
	AddFailures(ctx context.Context, id string, failures []models.FailedItem) error
	GetFailures(ctx context.Context, id string, limit int) ([]models.FailedItem, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Business BusinessRepository
	Category CategoryRepository
	Tag      TagRepository
	Hours    HoursRepository
	Build    BuildRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Business: NewBusinessRepo(db),
		Category: NewCategoryRepo(db),
		Tag:      NewTagRepo(db),
		Hours:    NewHoursRepo(db),
		Build:    NewBuildRepo(db),
	}
}
