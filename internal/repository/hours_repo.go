package repository

import (
	"context"
	"database/sql"

	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// hoursRepo is the concrete implementation of HoursRepository
type hoursRepo struct {
	db *database.DB
}

// NewHoursRepo creates a new business hours repository
func NewHoursRepo(db *database.DB) HoursRepository {
	return &hoursRepo{db: db}
}

// ListByBusiness retrieves a business's weekly schedule ordered by day of week
func (r *hoursRepo) ListByBusiness(ctx context.Context, businessID int64) ([]models.BusinessHours, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT business_id, day_of_week, open_time::text, close_time::text, is_closed, is_24_hour
		FROM business_hours
		WHERE business_id = $1
		ORDER BY day_of_week
	`
	rows, err := r.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, dataAccessError("list business hours", err)
	}
	defer rows.Close()

	var hours []models.BusinessHours
	for rows.Next() {
		var h models.BusinessHours
		var openTime, closeTime sql.NullString
		if err := rows.Scan(&h.BusinessID, &h.DayOfWeek, &openTime, &closeTime, &h.IsClosed, &h.Is24Hour); err != nil {
			return nil, dataAccessError("scan business hours", err)
		}
		h.OpenTime = openTime.String
		h.CloseTime = closeTime.String
		hours = append(hours, h)
	}
	return hours, dataAccessError("list business hours", rows.Err())
}
