package repository

import (
	"context"
	"database/sql"

	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// ListAll retrieves every category ordered by name
func (r *categoryRepo) ListAll(ctx context.Context) ([]*models.Category, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, description FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, dataAccessError("list categories", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &description); err != nil {
			return nil, dataAccessError("scan category", err)
		}
		c.Description = description.String
		categories = append(categories, &c)
	}
	return categories, dataAccessError("list categories", rows.Err())
}

// Count returns the number of categories
func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count)
	return count, dataAccessError("count categories", err)
}
