package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/logger"
)

const (
	defaultRetentionDays = 30
	// rows that failed this many times are treated as dead and purged too
	defaultDeadAttempts = 10
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPurger interface {
	DeletePublishedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time, minAttemptCount int) (int64, error)
}

type OutboxRetentionJobParams struct {
	Logger        *logger.Logger
	DB            txRunner
	Repository    outboxPurger
	RetentionDays int
	DeadAttempts  int
}

// NewOutboxRetentionJob purges moderation events that were relayed more than
// RetentionDays ago.
func NewOutboxRetentionJob(params OutboxRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("outbox repository required")
	}
	days := params.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	dead := params.DeadAttempts
	if dead <= 0 {
		dead = defaultDeadAttempts
	}
	return &outboxRetentionJob{
		logg:  params.Logger,
		db:    params.DB,
		repo:  params.Repository,
		days:  days,
		dead:  dead,
		clock: time.Now,
	}, nil
}

type outboxRetentionJob struct {
	logg  *logger.Logger
	db    txRunner
	repo  outboxPurger
	days  int
	dead  int
	clock func() time.Time
}

func (j *outboxRetentionJob) Name() string { return "outbox-retention" }

func (j *outboxRetentionJob) Run(ctx context.Context) error {
	cutoff := j.clock().UTC().AddDate(0, 0, -j.days)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := j.repo.DeletePublishedBefore(ctx, tx, cutoff, j.dead)
		deleted = n
		return err
	})
	if err != nil {
		return fmt.Errorf("purge outbox: %w", err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.days,
		"rows_deleted":   deleted,
	}), "outbox.retention_complete")
	return nil
}
