package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/sfvdirectory/sitegen/internal/models"
)

// fakeRow feeds fixed values into Scan destinations, like a single sql.Row
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = r.values[i].(int64)
		case *string:
			*p = r.values[i].(string)
		case *models.BusinessStatus:
			*p = r.values[i].(models.BusinessStatus)
		case *models.BuildKind:
			*p = r.values[i].(models.BuildKind)
		case *models.Stage:
			*p = r.values[i].(models.Stage)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *sql.NullString:
			if v, ok := r.values[i].(string); ok {
				*p = sql.NullString{String: v, Valid: true}
			} else {
				*p = sql.NullString{}
			}
		case *sql.NullInt64:
			if v, ok := r.values[i].(int64); ok {
				*p = sql.NullInt64{Int64: v, Valid: true}
			} else {
				*p = sql.NullInt64{}
			}
		case *sql.NullTime:
			if v, ok := r.values[i].(time.Time); ok {
				*p = sql.NullTime{Time: v, Valid: true}
			} else {
				*p = sql.NullTime{}
			}
		}
	}
	return nil
}

// fakeRows walks a fixed list of rows, like *sql.Rows
type fakeRows struct {
	rows []fakeRow
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	return r.rows[r.pos-1].Scan(dest...)
}

func (r *fakeRows) Err() error {
	return r.err
}

func TestScanBusiness_AllColumns(t *testing.T) {
	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	row := fakeRow{values: []interface{}{
		int64(7), "Joe's Diner", "joes-diner", "Best pancakes", "123 Main St", "818-555-0100",
		"joesdiner.com", models.StatusActive, int64(3), "https://img.test/hero.jpg", updated,
		"Restaurants", "restaurants",
	}}

	b, err := scanBusiness(row)
	if err != nil {
		t.Fatalf("scanBusiness failed: %v", err)
	}

	if b.ID != 7 || b.Slug != "joes-diner" {
		t.Errorf("Unexpected identity: %d %q", b.ID, b.Slug)
	}
	if b.CategoryID == nil || *b.CategoryID != 3 {
		t.Errorf("Expected category id 3, got %v", b.CategoryID)
	}
	if b.UpdatedAt == nil || !b.UpdatedAt.Equal(updated) {
		t.Errorf("Expected updated_at %v, got %v", updated, b.UpdatedAt)
	}
	if b.CategoryName != "Restaurants" {
		t.Errorf("Expected joined category name, got %q", b.CategoryName)
	}
}

func TestScanBusiness_NullColumns(t *testing.T) {
	row := fakeRow{values: []interface{}{
		int64(8), "Plain Shop", "plain-shop", nil, "1 Side St", nil,
		nil, models.StatusActive, nil, nil, nil,
		nil, nil,
	}}

	b, err := scanBusiness(row)
	if err != nil {
		t.Fatalf("scanBusiness failed: %v", err)
	}

	if b.Description != "" || b.Phone != "" || b.Website != "" || b.HeroImageURL != "" {
		t.Errorf("NULL text columns should scan as empty strings: %+v", b)
	}
	if b.CategoryID != nil {
		t.Errorf("Expected nil category id, got %v", *b.CategoryID)
	}
	if b.UpdatedAt != nil {
		t.Errorf("Expected nil updated_at, got %v", b.UpdatedAt)
	}
}

func TestScanBusiness_Error(t *testing.T) {
	_, err := scanBusiness(fakeRow{err: sql.ErrConnDone})
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("Expected scan error to pass through, got %v", err)
	}
}

func TestDataAccessError(t *testing.T) {
	if err := dataAccessError("list tags", nil); err != nil {
		t.Errorf("nil cause should produce nil error, got %v", err)
	}

	err := dataAccessError("list tags", sql.ErrConnDone)
	var dae *DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("Expected *DataAccessError, got %T", err)
	}
	if dae.Op != "list tags" {
		t.Errorf("Expected op 'list tags', got %q", dae.Op)
	}
	if !errors.Is(err, sql.ErrConnDone) {
		t.Error("DataAccessError should unwrap to its cause")
	}
	if err.Error() != "data access: list tags: sql: connection is already closed" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}

func TestNullString(t *testing.T) {
	if ns := nullString(""); ns.Valid {
		t.Error("Empty string should be NULL")
	}
	if ns := nullString("boom"); !ns.Valid || ns.String != "boom" {
		t.Errorf("Unexpected value: %+v", ns)
	}
}

func TestScanPendingRuns(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	good := fakeRow{values: []interface{}{"run-1", models.BuildKindAll, created}}

	tests := []struct {
		name    string
		rows    *fakeRows
		want    int
		wantErr error
	}{
		{name: "all rows", rows: &fakeRows{rows: []fakeRow{good, good}}, want: 2},
		{name: "scan failure", rows: &fakeRows{rows: []fakeRow{good, {err: sql.ErrConnDone}}}, wantErr: sql.ErrConnDone},
		{name: "iteration failure", rows: &fakeRows{rows: []fakeRow{good}, err: sql.ErrTxDone}, wantErr: sql.ErrTxDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := scanPendingRuns(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("scanPendingRuns failed: %v", err)
			}
			if len(runs) != tt.want {
				t.Fatalf("Expected %d runs, got %d", tt.want, len(runs))
			}
			if runs[0].Status != models.BuildStatusPending || runs[0].Kind != models.BuildKindAll {
				t.Errorf("Unexpected run: %+v", runs[0])
			}
		})
	}
}

func TestScanFailures_ScanErrorIsReturned(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{values: []interface{}{"joes-diner", "Joe's Diner", models.StageFetch, "timeout"}},
		{err: sql.ErrConnDone},
	}}

	failures, err := scanFailures(rows)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("Expected the scan error, got %v", err)
	}
	if failures != nil {
		t.Errorf("Expected no partial result, got %+v", failures)
	}

	rows = &fakeRows{rows: []fakeRow{
		{values: []interface{}{"joes-diner", "Joe's Diner", models.StageFetch, "timeout"}},
	}}
	failures, err = scanFailures(rows)
	if err != nil {
		t.Fatalf("scanFailures failed: %v", err)
	}
	if len(failures) != 1 || failures[0].Stage != models.StageFetch {
		t.Errorf("Unexpected failures: %+v", failures)
	}
}
