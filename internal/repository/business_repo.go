package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

const businessColumns = `
	b.id, b.name, b.slug, b.description, b.address, b.phone, b.website, b.status,
	b.category_id, b.hero_image_url, b.updated_at, c.name, c.slug
`

// businessRepo is the concrete implementation of BusinessRepository
type businessRepo struct {
	db *database.DB
}

// NewBusinessRepo creates a new business repository
func NewBusinessRepo(db *database.DB) BusinessRepository {
	return &businessRepo{db: db}
}

// ListActive retrieves every active business with its category
func (r *businessRepo) ListActive(ctx context.Context) ([]*models.Business, error) {
	query := `SELECT ` + businessColumns + `
		FROM businesses b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.status = $1
		ORDER BY b.id
	`
	businesses, err := r.query(ctx, query, models.StatusActive)
	return businesses, dataAccessError("list active businesses", err)
}

// ListActiveByCategory retrieves the active businesses of one category
func (r *businessRepo) ListActiveByCategory(ctx context.Context, categoryID int64) ([]*models.Business, error) {
	query := `SELECT ` + businessColumns + `
		FROM businesses b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.status = $1 AND b.category_id = $2
		ORDER BY b.name, b.id
	`
	businesses, err := r.query(ctx, query, models.StatusActive, categoryID)
	return businesses, dataAccessError("list businesses by category", err)
}

// ListRelated retrieves up to limit active businesses sharing the category, excluding the business itself
func (r *businessRepo) ListRelated(ctx context.Context, business *models.Business, limit int) ([]*models.Business, error) {
	if business.CategoryID == nil || limit <= 0 {
		return nil, nil
	}

	query := `SELECT ` + businessColumns + `
		FROM businesses b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.category_id = $1 AND b.id <> $2 AND b.status = $3
		ORDER BY b.id
		LIMIT $4
	`
	businesses, err := r.query(ctx, query, *business.CategoryID, business.ID, models.StatusActive, limit)
	return businesses, dataAccessError("list related businesses", err)
}

// ListMissingHeroImage retrieves active businesses that have no hero image yet
func (r *businessRepo) ListMissingHeroImage(ctx context.Context) ([]*models.Business, error) {
	query := `SELECT ` + businessColumns + `
		FROM businesses b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.status = $1 AND (b.hero_image_url IS NULL OR b.hero_image_url = '')
		ORDER BY b.id
	`
	businesses, err := r.query(ctx, query, models.StatusActive)
	return businesses, dataAccessError("list businesses without hero image", err)
}

// SetHeroImage stores the hero image URL of a business.
// Only the image backfill calls this; page generation never writes.
func (r *businessRepo) SetHeroImage(ctx context.Context, id int64, url string) error {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE businesses SET hero_image_url = $1, updated_at = $2 WHERE id = $3`,
		url, time.Now().UTC(), id,
	)
	return dataAccessError("set hero image", err)
}

// CountActive returns the number of active businesses
func (r *businessRepo) CountActive(ctx context.Context) (int, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM businesses WHERE status = $1", models.StatusActive).Scan(&count)
	return count, dataAccessError("count businesses", err)
}

func (r *businessRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Business, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var businesses []*models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}
	return businesses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBusiness(row rowScanner) (*models.Business, error) {
	var b models.Business
	var description, phone, website, heroImage, categoryName, categorySlug sql.NullString
	var categoryID sql.NullInt64
	var updatedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.Name, &b.Slug, &description, &b.Address, &phone, &website, &b.Status,
		&categoryID, &heroImage, &updatedAt, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	b.Description = description.String
	b.Phone = phone.String
	b.Website = website.String
	b.HeroImageURL = heroImage.String
	b.CategoryName = categoryName.String
	b.CategorySlug = categorySlug.String
	if categoryID.Valid {
		id := categoryID.Int64
		b.CategoryID = &id
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		b.UpdatedAt = &t
	}

	return &b, nil
}
