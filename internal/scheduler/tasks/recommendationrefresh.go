// Package tasks wires scheduled jobs into the scheduler.
package tasks

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/recommend"
	"github.com/HansKDev/sagarr/internal/scheduler"
)

// RecommendationRefreshTask regenerates cached recommendations for all
// mapped users on a schedule, so morning requests hit a fresh cache.
type RecommendationRefreshTask struct {
	recommendService *recommend.Service
	logger           zerolog.Logger
}

// NewRecommendationRefreshTask creates a new recommendation refresh task.
func NewRecommendationRefreshTask(rs *recommend.Service, logger zerolog.Logger) *RecommendationRefreshTask {
	return &RecommendationRefreshTask{
		recommendService: rs,
		logger:           logger.With().Str("task", "recommendation-refresh").Logger(),
	}
}

// Run executes the refresh sweep. Per-user failures are handled inside
// the sweep; only listing users can fail the task outright.
func (t *RecommendationRefreshTask) Run(ctx context.Context) error {
	t.logger.Info().Msg("Starting scheduled recommendation refresh")
	return t.recommendService.RefreshAll(ctx)
}

// RegisterRecommendationRefreshTask registers the refresh task with the scheduler.
func RegisterRecommendationRefreshTask(sched *scheduler.Scheduler, rs *recommend.Service, logger zerolog.Logger) error {
	task := NewRecommendationRefreshTask(rs, logger)

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          "recommendation-refresh",
		Name:        "Recommendation Refresh",
		Description: "Regenerates AI recommendations for all mapped users",
		Cron:        "0 4 * * *", // 4:00 AM daily
		RunOnStart:  false,
		Func:        task.Run,
	})
}
