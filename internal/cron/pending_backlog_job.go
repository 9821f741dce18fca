package cron

import (
	"context"
	"fmt"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
)

type backlogRefresher interface {
	RefreshBacklog(ctx context.Context) (moderation.Counts, error)
}

// NewPendingBacklogJob recounts the pending queues, which refreshes the
// backlog gauges and warms the admin counts cache.
func NewPendingBacklogJob(refresher backlogRefresher, logg *logger.Logger) (Job, error) {
	if refresher == nil {
		return nil, fmt.Errorf("backlog refresher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &pendingBacklogJob{refresher: refresher, logg: logg}, nil
}

type pendingBacklogJob struct {
	refresher backlogRefresher
	logg      *logger.Logger
}

func (j *pendingBacklogJob) Name() string { return "pending-backlog" }

func (j *pendingBacklogJob) Run(ctx context.Context) error {
	counts, err := j.refresher.RefreshBacklog(ctx)
	if err != nil {
		return fmt.Errorf("refresh backlog: %w", err)
	}
	fields := make(map[string]any, len(counts.ByType)+1)
	for t, n := range counts.ByType {
		fields["pending_"+string(t)] = n
	}
	fields["pending_total"] = counts.Total
	j.logg.Info(j.logg.WithFields(ctx, fields), "moderation.backlog")
	return nil
}
