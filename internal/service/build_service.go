package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/repository"
)

// maxConcurrentBuilds bounds how many runs generate pages at once.
// Each run already fans out over entities on its own.
const maxConcurrentBuilds = 2

// failureLimit caps the failures returned with a build run
const failureLimit = 100

// buildService is the concrete implementation of BuildService
type buildService struct {
	builds       repository.BuildRepository
	runner       Runner
	pollInterval time.Duration
	log          zerolog.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	running      bool
	done         chan struct{}
	mu           sync.Mutex
	sem          chan struct{}
}

func newBuildService(builds repository.BuildRepository, runner Runner, pollInterval time.Duration, log zerolog.Logger) *buildService {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &buildService{
		builds:       builds,
		runner:       runner,
		pollInterval: pollInterval,
		log:          log.With().Str("service", "build").Logger(),
		sem:          make(chan struct{}, maxConcurrentBuilds),
	}
}

// CreateBuild queues a build run for the background processor
func (s *buildService) CreateBuild(ctx context.Context, kind models.BuildKind) (*models.BuildRun, error) {
	if !models.ValidBuildKinds[kind] {
		return nil, ErrInvalidKind
	}

	run := &models.BuildRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    models.BuildStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.builds.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create build run: %w", err)
	}

	s.log.Info().Str("build_id", run.ID).Str("kind", string(kind)).Msg("Build run queued")
	return run, nil
}

// GetBuild retrieves a build run with its first failures, or nil when it does not exist
func (s *buildService) GetBuild(ctx context.Context, id string) (*models.BuildRun, error) {
	run, err := s.builds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}

	failures, err := s.builds.GetFailures(ctx, id, failureLimit)
	if err != nil {
		s.log.Error().Err(err).Str("build_id", id).Msg("Failed to get build failures")
	}

	result := *run
	result.Failures = failures
	return &result, nil
}

// GetBuildFailures retrieves every failure recorded for a build run
func (s *buildService) GetBuildFailures(ctx context.Context, id string) ([]models.FailedItem, error) {
	return s.builds.GetFailures(ctx, id, 0)
}

// StartProcessor polls for pending runs until ctx is cancelled or StopProcessor is called
func (s *buildService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	defer close(done)

	s.log.Info().Dur("poll_interval", s.pollInterval).Int("max_builds", cap(s.sem)).Msg("Build processor started")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Build processor stopping")
			return
		case <-ticker.C:
			s.processPending()
		}
	}
}

// StopProcessor cancels running builds and waits for them to record their outcome
func (s *buildService) StopProcessor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	// The polling loop may still be dispatching a run it just marked
	<-s.done
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Build processor stopped")
}

func (s *buildService) processPending() {
	runs, err := s.builds.GetPending(s.ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get pending builds")
		return
	}

	for _, run := range runs {
		// Blocks while every slot is busy
		select {
		case s.sem <- struct{}{}:
		case <-s.ctx.Done():
			return
		}

		marked, err := s.builds.MarkProcessing(s.ctx, run.ID)
		if err != nil || !marked {
			<-s.sem
			continue
		}

		s.wg.Add(1)
		go func(r models.BuildRun) {
			defer s.wg.Done()
			defer func() { <-s.sem }()

			defer func() {
				if p := recover(); p != nil {
					s.log.Error().
						Interface("panic", p).
						Str("build_id", r.ID).
						Msg("Build processing panicked - recovered")
					r.Status = models.BuildStatusFailed
					r.Error = fmt.Sprintf("panic: %v", p)
					s.save(&r)
				}
			}()
			s.processBuild(&r)
		}(*run)
	}
}

// processBuild runs the generator for one build and stores the outcome
func (s *buildService) processBuild(run *models.BuildRun) {
	started := time.Now().UTC()
	run.Status = models.BuildStatusProcessing
	run.StartedAt = &started
	s.save(run)

	log := s.log.With().Str("build_id", run.ID).Str("kind", string(run.Kind)).Logger()
	log.Info().Msg("Processing build")

	summaries, err := s.runner.Run(s.ctx, run.Kind)

	var failures []models.FailedItem
	run.Total, run.Generated = 0, 0
	for _, summary := range summaries {
		run.Total += summary.Total
		run.Generated += summary.Generated
		failures = append(failures, summary.Failed...)
	}
	run.FailedCount = len(failures)

	completed := time.Now().UTC()
	run.CompletedAt = &completed
	run.DurationMs = completed.Sub(started).Milliseconds()

	if err != nil {
		run.Status = models.BuildStatusFailed
		run.Error = err.Error()
		log.Error().Err(err).Msg("Build failed")
	} else {
		run.Status = models.BuildStatusCompleted
	}

	if len(failures) > 0 {
		if err := s.builds.AddFailures(context.WithoutCancel(s.ctx), run.ID, failures); err != nil {
			log.Error().Err(err).Msg("Failed to store build failures")
		}
	}
	s.save(run)

	log.Info().
		Str("status", string(run.Status)).
		Int("total", run.Total).
		Int("generated", run.Generated).
		Int("failed", run.FailedCount).
		Int64("duration_ms", run.DurationMs).
		Msg("Build finished")
}

// save stores a copy of run. It ignores processor shutdown so a cancelled build
// still records its final status.
func (s *buildService) save(run *models.BuildRun) {
	snapshot := *run
	if err := s.builds.Update(context.WithoutCancel(s.ctx), &snapshot); err != nil {
		s.log.Error().Err(err).Str("build_id", run.ID).Msg("Failed to update build run")
	}
}
