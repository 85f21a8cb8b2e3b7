package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/sfvdirectory/sitegen/internal/mocks"
	"github.com/sfvdirectory/sitegen/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMockBusinessRepository_ActiveOnly(t *testing.T) {
	repo := mocks.NewMockBusinessRepository(
		&models.Business{ID: 1, Name: "Open", Slug: "open", Status: models.StatusActive},
		&models.Business{ID: 2, Name: "Closed", Slug: "closed", Status: "inactive"},
	)

	businesses, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(businesses) != 1 || businesses[0].Slug != "open" {
		t.Errorf("Expected only the active business, got %d", len(businesses))
	}
}

func TestMockBusinessRepository_ListRelated(t *testing.T) {
	cat := int64Ptr(1)
	repo := mocks.NewMockBusinessRepository(
		&models.Business{ID: 1, Name: "A", Slug: "a", Status: models.StatusActive, CategoryID: cat},
		&models.Business{ID: 2, Name: "B", Slug: "b", Status: models.StatusActive, CategoryID: cat},
		&models.Business{ID: 3, Name: "C", Slug: "c", Status: models.StatusActive, CategoryID: cat},
		&models.Business{ID: 4, Name: "D", Slug: "d", Status: "inactive", CategoryID: cat},
		&models.Business{ID: 5, Name: "E", Slug: "e", Status: models.StatusActive, CategoryID: int64Ptr(2)},
	)
	ctx := context.Background()

	related, err := repo.ListRelated(ctx, repo.Businesses[0], 5)
	if err != nil {
		t.Fatalf("ListRelated failed: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("Expected 2 related businesses, got %d", len(related))
	}
	for _, r := range related {
		if r.ID == 1 {
			t.Error("A business must never be related to itself")
		}
	}

	limited, _ := repo.ListRelated(ctx, repo.Businesses[0], 1)
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(limited))
	}

	uncategorized := &models.Business{ID: 9, Status: models.StatusActive}
	none, _ := repo.ListRelated(ctx, uncategorized, 5)
	if len(none) != 0 {
		t.Errorf("Uncategorized business should have no related businesses, got %d", len(none))
	}
}

func TestMockTagRepository_ListByBusinesses(t *testing.T) {
	repo := mocks.NewMockTagRepository()
	repo.Tag(1, models.Tag{ID: 10, Name: "Encino", Type: models.TagTypeLocation})
	repo.Tag(2, models.Tag{ID: 11, Name: "Cash", Type: models.TagTypePayment})

	result, err := repo.ListByBusinesses(context.Background(), []int64{1, 3})
	if err != nil {
		t.Fatalf("ListByBusinesses failed: %v", err)
	}
	if len(result[1]) != 1 || result[1][0].Tag.Name != "Encino" {
		t.Errorf("Unexpected tags for business 1: %+v", result[1])
	}
	if _, ok := result[2]; ok {
		t.Error("Business 2 was not requested")
	}
	if len(result[3]) != 0 {
		t.Error("Business 3 has no tags")
	}
}

func TestMockBuildRepository_MarkProcessing(t *testing.T) {
	repo := mocks.NewMockBuildRepository()
	ctx := context.Background()

	run := &models.BuildRun{ID: "run-1", Kind: models.BuildKindAll, Status: models.BuildStatusPending, CreatedAt: time.Now()}
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err := repo.MarkProcessing(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("Expected first claim to succeed, got %v %v", ok, err)
	}

	ok, _ = repo.MarkProcessing(ctx, "run-1")
	if ok {
		t.Error("A run can only be claimed once")
	}

	pending, _ := repo.GetPending(ctx)
	if len(pending) != 0 {
		t.Errorf("Expected no pending runs, got %d", len(pending))
	}
}

func TestMockBuildRepository_Failures(t *testing.T) {
	repo := mocks.NewMockBuildRepository()
	ctx := context.Background()

	failures := []models.FailedItem{
		{Slug: "a", Stage: models.StageRender, Error: "boom"},
		{Slug: "b", Stage: models.StageWrite, Error: "disk full"},
	}
	if err := repo.AddFailures(ctx, "run-1", failures); err != nil {
		t.Fatalf("AddFailures failed: %v", err)
	}

	limited, _ := repo.GetFailures(ctx, "run-1", 1)
	if len(limited) != 1 {
		t.Errorf("Expected 1 failure with limit, got %d", len(limited))
	}
	all, _ := repo.GetFailures(ctx, "run-1", 0)
	if len(all) != 2 {
		t.Errorf("Expected 2 failures, got %d", len(all))
	}
}
