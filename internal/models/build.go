package models

import (
	"time"
)

// BuildKind selects which artifacts a generation run produces
type BuildKind string

const (
	BuildKindBusinesses BuildKind = "businesses"
	BuildKindCategories BuildKind = "categories"
	BuildKindSitemap    BuildKind = "sitemap"
	BuildKindAll        BuildKind = "all"
)

// ValidBuildKinds defines the kinds accepted by the CLI and the API
var ValidBuildKinds = map[BuildKind]bool{
	BuildKindBusinesses: true,
	BuildKindCategories: true,
	BuildKindSitemap:    true,
	BuildKindAll:        true,
}

// BuildStatus represents the status of a persisted build run
type BuildStatus string

const (
	BuildStatusPending    BuildStatus = "pending"
	BuildStatusProcessing BuildStatus = "processing"
	BuildStatusCompleted  BuildStatus = "completed"
	BuildStatusFailed     BuildStatus = "failed"
)

// Stage is the pipeline step an entity was in when it failed
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageBuild  Stage = "build"
	StageRender Stage = "render"
	StageWrite  Stage = "write"
)

// FailedItem names one entity that could not be generated
type FailedItem struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Stage Stage  `json:"stage"`
	Error string `json:"error"`
}

// BuildSummary reports the outcome of generating one artifact kind
type BuildSummary struct {
	Kind      BuildKind     `json:"kind"`
	Total     int           `json:"total"`
	Generated int           `json:"generated"`
	Failed    []FailedItem  `json:"failed,omitempty"`
	Skipped   int           `json:"skipped,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// FailedCount returns the number of entities that were not generated
func (s *BuildSummary) FailedCount() int {
	return len(s.Failed)
}

// BuildRun represents a generation run requested through the API
type BuildRun struct {
	ID          string       `json:"build_id" db:"id"`
	Kind        BuildKind    `json:"kind" db:"kind"`
	Status      BuildStatus  `json:"status" db:"status"`
	Total       int          `json:"total" db:"total"`
	Generated   int          `json:"generated" db:"generated"`
	FailedCount int          `json:"failed" db:"failed_count"`
	DurationMs  int64        `json:"duration_ms,omitempty" db:"duration_ms"`
	Error       string       `json:"error,omitempty" db:"error"`
	Failures    []FailedItem `json:"failures,omitempty" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
}

// BuildRequest is the API request body for a new build run
type BuildRequest struct {
	Kind BuildKind `json:"kind" form:"kind"`
}
