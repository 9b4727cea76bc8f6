// Package insights schedules analysis runs and caches their results. The
// store is the cache: each run is persisted as a batch and the latest
// batch is what readers get until it goes stale.
package insights

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/lunahealth/backend/internal/aggregator"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/repository"
)

// MaxCacheAge is the hard freshness ceiling. However long the configured
// frequency, a batch older than this is always recomputed.
const MaxCacheAge = 24 * time.Hour

// ShouldRefresh reports whether the last run is stale for the given
// refresh frequency.
func ShouldRefresh(lastRunAt time.Time, frequency time.Duration, now time.Time) bool {
	if lastRunAt.IsZero() {
		return true
	}
	age := now.Sub(lastRunAt)
	return age >= frequency || age >= MaxCacheAge
}

// contextBuilder assembles the per-user analysis context.
type contextBuilder interface {
	Build(ctx context.Context, userID string, window models.Window) (*models.AnalysisContext, error)
}

// analyzer derives insights from a context.
type analyzer interface {
	Analyze(actx *models.AnalysisContext) []models.Insight
}

// Service is the insight cache and scheduler.
type Service struct {
	builder   contextBuilder
	engine    analyzer
	repo      repository.InsightRepository
	states    RunStateStore
	frequency time.Duration
	group     singleflight.Group
	log       logger.Logger
	now       func() time.Time
}

// NewService creates the insights service.
func NewService(builder contextBuilder, engine analyzer, repo repository.InsightRepository, states RunStateStore, frequency time.Duration, log logger.Logger) *Service {
	return &Service{
		builder:   builder,
		engine:    engine,
		repo:      repo,
		states:    states,
		frequency: frequency,
		log:       log,
		now:       time.Now,
	}
}

// GetOrRefresh returns the user's current insight batch, recomputing it
// first when stale or when force is set. Concurrent callers for the same
// user share a single run.
func (s *Service) GetOrRefresh(ctx context.Context, userID string, force bool) (*models.InsightsResponse, error) {
	now := s.now()

	state, err := s.states.Get(ctx, userID)
	if err != nil {
		s.log.Warn("failed to read run state, recomputing",
			logger.String("user_id", userID), logger.Err(err))
	}

	if !force && state != nil && !ShouldRefresh(state.LastRunAt, s.frequency, now) {
		batch, err := s.repo.GetByBatchID(ctx, userID, state.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			batch = []models.Insight{}
		}
		return &models.InsightsResponse{
			Insights:   batch,
			ComputedAt: state.LastRunAt,
			Refreshed:  false,
		}, nil
	}

	// Concurrent requests for one user collapse into a single run
	result, err, _ := s.group.Do(userID, func() (interface{}, error) {
		return s.refresh(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.InsightsResponse), nil
}

// refresh runs aggregate, analyze, persist. An empty result is still a
// completed run: the batch and run state are recorded so the scheduler
// does not retry until the next interval.
func (s *Service) refresh(ctx context.Context, userID string) (*models.InsightsResponse, error) {
	now := s.now()
	window := aggregator.DefaultWindow(now)

	actx, err := s.builder.Build(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	found := s.engine.Analyze(actx)

	batchID := uuid.New().String()
	for i := range found {
		found[i].BatchID = &batchID
		found[i].ComputedAt = now
	}

	if err := s.repo.CreateBatch(ctx, found); err != nil {
		return nil, err
	}

	if err := s.states.Set(ctx, userID, RunState{LastRunAt: now, BatchID: batchID}); err != nil {
		s.log.Warn("failed to persist run state",
			logger.String("user_id", userID), logger.Err(err))
	}

	s.log.Info("analysis run completed",
		logger.String("user_id", userID),
		logger.String("batch_id", batchID),
		logger.Int("insights", len(found)))

	return &models.InsightsResponse{
		Insights:   found,
		ComputedAt: now,
		Refreshed:  true,
	}, nil
}
