package moderation

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/metrics"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

// PendingItem is one row of the admin worklist.
type PendingItem struct {
	EntityType  enums.EntityType       `json:"entity_type"`
	EntityID    uuid.UUID              `json:"entity_id"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	Summary     string                 `json:"summary"`
	Status      enums.ModerationStatus `json:"status"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Version     int64                  `json:"version"`
}

// Counts is the pending backlog per type.
type Counts struct {
	ByType map[enums.EntityType]int64 `json:"by_type"`
	Total  int64                      `json:"total"`
}

type AggregatorParams struct {
	Registry  *Registry
	Counts    CountCache
	MaxWindow int
	Metrics   *metrics.ModerationMetrics
	Logger    *logger.Logger
}

// Aggregator builds the cross-type pending worklist. Each type is queried on
// its own table; nothing joins across types.
type Aggregator struct {
	registry  *Registry
	counts    CountCache
	maxWindow int
	metrics   *metrics.ModerationMetrics
	logg      *logger.Logger
}

func NewAggregator(params AggregatorParams) *Aggregator {
	maxWindow := params.MaxWindow
	if maxWindow <= 0 {
		maxWindow = pagination.DefaultMaxWindow
	}
	return &Aggregator{
		registry:  params.Registry,
		counts:    params.Counts,
		maxWindow: maxWindow,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}
}

// ListPending returns pending rows newest-first. A nil filter merges every type.
func (a *Aggregator) ListPending(ctx context.Context, admin Actor, filter *enums.EntityType, params pagination.Params) ([]PendingItem, pagination.Meta, error) {
	if err := AssertAdmin(admin); err != nil {
		return nil, pagination.Meta{}, err
	}
	params = params.Normalize()
	if !params.WithinWindow(a.maxWindow) {
		return nil, pagination.Meta{}, pkgerrors.New(pkgerrors.CodeValidation, "page is beyond the listable window").
			WithDetails(map[string]any{"max_window": a.maxWindow})
	}

	if filter != nil {
		q, err := a.registry.Lookup(*filter)
		if err != nil {
			return nil, pagination.Meta{}, err
		}
		total, err := q.CountPending(ctx)
		if err != nil {
			return nil, pagination.Meta{}, err
		}
		rows, err := q.ListPending(ctx, params.PageSize, params.Offset())
		if err != nil {
			return nil, pagination.Meta{}, err
		}
		return toPendingItems(rows), pagination.NewMeta(params, total), nil
	}

	window := params.Window()
	types := a.registry.Types()
	lists := make([][]models.Moderatable, len(types))
	totals := make([]int64, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		q, _ := a.registry.Lookup(t)
		g.Go(func() error {
			total, err := q.CountPending(gctx)
			if err != nil {
				return err
			}
			rows, err := q.ListPending(gctx, window, 0)
			if err != nil {
				return err
			}
			totals[i] = total
			lists[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pagination.Meta{}, err
	}

	var total int64
	merged := make([]models.Moderatable, 0, window)
	for i := range types {
		total += totals[i]
		merged = append(merged, lists[i]...)
	}
	sortNewestFirst(merged)

	start := params.Offset()
	if start > len(merged) {
		start = len(merged)
	}
	end := start + params.PageSize
	if end > len(merged) {
		end = len(merged)
	}
	return toPendingItems(merged[start:end]), pagination.NewMeta(params, total), nil
}

// Counts returns the pending backlog per type. Values may be a few seconds
// stale when served from the cache.
func (a *Aggregator) Counts(ctx context.Context, admin Actor) (Counts, error) {
	if err := AssertAdmin(admin); err != nil {
		return Counts{}, err
	}
	if a.counts != nil {
		if cached, ok := a.counts.Get(ctx); ok {
			return newCounts(cached), nil
		}
	}

	byType, err := a.countAll(ctx)
	if err != nil {
		return Counts{}, err
	}
	if a.counts != nil {
		a.counts.Set(ctx, byType)
	}
	return newCounts(byType), nil
}

// RefreshBacklog recomputes the counts and publishes them as gauges. It is
// used by the cron worker and needs no actor.
func (a *Aggregator) RefreshBacklog(ctx context.Context) (Counts, error) {
	byType, err := a.countAll(ctx)
	if err != nil {
		return Counts{}, err
	}
	for t, n := range byType {
		a.metrics.SetBacklog(string(t), n)
	}
	if a.counts != nil {
		a.counts.Set(ctx, byType)
	}
	return newCounts(byType), nil
}

func (a *Aggregator) countAll(ctx context.Context) (map[enums.EntityType]int64, error) {
	var mu sync.Mutex
	byType := make(map[enums.EntityType]int64)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range a.registry.Types() {
		q, _ := a.registry.Lookup(t)
		g.Go(func() error {
			n, err := q.CountPending(gctx)
			if err != nil {
				return err
			}
			mu.Lock()
			byType[t] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if a.logg != nil {
			a.logg.Error(ctx, "moderation.counts_failed", err)
		}
		return nil, err
	}
	return byType, nil
}

func newCounts(byType map[enums.EntityType]int64) Counts {
	out := Counts{ByType: make(map[enums.EntityType]int64, len(byType))}
	for t, n := range byType {
		out.ByType[t] = n
		out.Total += n
	}
	return out
}

func sortNewestFirst(rows []models.Moderatable) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti := rows[i].ModerationLedger().SubmittedAt
		tj := rows[j].ModerationLedger().SubmittedAt
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].EntityID().String() > rows[j].EntityID().String()
	})
}

func toPendingItems(rows []models.Moderatable) []PendingItem {
	out := make([]PendingItem, 0, len(rows))
	for _, row := range rows {
		ledger := row.ModerationLedger()
		out = append(out, PendingItem{
			EntityType:  row.EntityType(),
			EntityID:    row.EntityID(),
			OwnerID:     row.EntityOwnerID(),
			Summary:     row.Summary(),
			Status:      ledger.Status,
			SubmittedAt: ledger.SubmittedAt,
			Version:     ledger.Version,
		})
	}
	return out
}

// ParsePendingFilter reads the optional entity_type query value.
func ParsePendingFilter(raw string) (*enums.EntityType, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := enums.ParseEntityType(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity_type "+strconv.Quote(raw))
	}
	return &t, nil
}
