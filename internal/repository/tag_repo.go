package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

// ListAll retrieves every tag ordered by name
func (r *tagRepo) ListAll(ctx context.Context) ([]models.Tag, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, tag_type FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, dataAccessError("list tags", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		var tagType sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &tagType); err != nil {
			return nil, dataAccessError("scan tag", err)
		}
		t.Type = models.TagType(tagType.String)
		tags = append(tags, t)
	}
	return tags, dataAccessError("list tags", rows.Err())
}

// ListByBusiness retrieves the tag associations of one business
func (r *tagRepo) ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessTag, error) {
	byBusiness, err := r.ListByBusinesses(ctx, []int64{businessID})
	if err != nil {
		return nil, err
	}
	return byBusiness[businessID], nil
}

// ListByBusinesses retrieves the tag associations of many businesses in one query.
// Associations whose tag row is missing come back with a nil Tag.
func (r *tagRepo) ListByBusinesses(ctx context.Context, businessIDs []int64) (map[int64][]models.BusinessTag, error) {
	result := make(map[int64][]models.BusinessTag, len(businessIDs))
	if len(businessIDs) == 0 {
		return result, nil
	}

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT bt.business_id, t.id, t.name, t.slug, t.tag_type
		FROM business_tags bt
		LEFT JOIN tags t ON t.id = bt.tag_id
		WHERE bt.business_id = ANY($1)
		ORDER BY bt.business_id, t.id NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(businessIDs))
	if err != nil {
		return nil, dataAccessError("list business tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var businessID int64
		var tagID sql.NullInt64
		var name, slug, tagType sql.NullString
		if err := rows.Scan(&businessID, &tagID, &name, &slug, &tagType); err != nil {
			return nil, dataAccessError("scan business tag", err)
		}

		assoc := models.BusinessTag{BusinessID: businessID}
		if tagID.Valid {
			assoc.Tag = &models.Tag{
				ID:   tagID.Int64,
				Name: name.String,
				Slug: slug.String,
				Type: models.TagType(tagType.String),
			}
		}
		result[businessID] = append(result[businessID], assoc)
	}
	return result, dataAccessError("list business tags", rows.Err())
}
