package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/metrics"
	"github.com/kai890707/my-profile-sub000/pkg/outbox"
	"github.com/kai890707/my-profile-sub000/pkg/outbox/payloads"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
	"github.com/kai890707/my-profile-sub000/pkg/visibility"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Store is the persistence surface a workflow needs. *Repository satisfies it.
type Store[T any, P Record[T]] interface {
	CreateWithTx(tx *gorm.DB, entity P) error
	FindByID(ctx context.Context, id uuid.UUID) (P, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (P, error)
	FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (P, error)
	FindLatestByOwnerWithTx(tx *gorm.DB, ownerID uuid.UUID) (P, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]P, int64, error)
	ListApproved(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]P, int64, error)
	CountPending(ctx context.Context) (int64, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Moderatable, error)
	CompareAndSwapWithTx(tx *gorm.DB, entity P, expectedVersion int64) error
	DeleteWithTx(tx *gorm.DB, id uuid.UUID) error
}

// DecisionHook runs inside the decision transaction after the ledger write.
type DecisionHook[P any] func(ctx context.Context, tx *gorm.DB, entity P, admin Actor, kind DecisionKind) error

// Decision is an admin verdict on one record. ExpectedVersion is the ledger
// version the admin looked at; zero skips the check. The check only guards
// writes: approving a record that is already approved returns it unchanged
// even when ExpectedVersion is stale.
type Decision struct {
	Kind            DecisionKind
	Reason          string
	ExpectedVersion int64
}

type WorkflowParams[T any, P Record[T]] struct {
	DB            txRunner
	Store         Store[T, P]
	Policy        Policy
	Engine        *Engine
	Outbox        eventEmitter
	Metrics       *metrics.ModerationMetrics
	Counts        CountCache
	Logger        *logger.Logger
	AfterDecision DecisionHook[P]
}

// Workflow runs submit, edit, delete and decisions for one entity type.
// Each write is one transaction: load, guard, engine, versioned write, outbox.
type Workflow[T any, P Record[T]] struct {
	db            txRunner
	store         Store[T, P]
	policy        Policy
	engine        *Engine
	outbox        eventEmitter
	metrics       *metrics.ModerationMetrics
	counts        CountCache
	logg          *logger.Logger
	afterDecision DecisionHook[P]
}

func NewWorkflow[T any, P Record[T]](params WorkflowParams[T, P]) (*Workflow[T, P], error) {
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if !params.Policy.Type.IsValid() {
		return nil, fmt.Errorf("policy entity type %q invalid", params.Policy.Type)
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	engine := params.Engine
	if engine == nil {
		engine = NewEngine(nil)
	}
	return &Workflow[T, P]{
		db:            params.DB,
		store:         params.Store,
		policy:        params.Policy,
		engine:        engine,
		outbox:        params.Outbox,
		metrics:       params.Metrics,
		counts:        params.Counts,
		logg:          params.Logger,
		afterDecision: params.AfterDecision,
	}, nil
}

func (w *Workflow[T, P]) EntityType() enums.EntityType { return w.policy.Type }
func (w *Workflow[T, P]) Policy() Policy                { return w.policy }

// CanReapply reports whether the owner may resubmit entity right now.
func (w *Workflow[T, P]) CanReapply(entity P) bool {
	return w.engine.CanReapply(entity)
}

// Submit creates entity for actor. The caller fills the payload and owner.
func (w *Workflow[T, P]) Submit(ctx context.Context, actor Actor, entity P) (P, error) {
	if err := AssertCanSubmit(w.policy, actor); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payload is required")
	}
	if entity.EntityOwnerID() != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "records can only be submitted for yourself")
	}

	err := w.db.WithTx(ctx, func(tx *gorm.DB) error {
		var prior models.Moderatable
		if w.policy.Singleton || w.policy.SingleOpen {
			found, err := w.store.FindLatestByOwnerWithTx(tx, actor.ID)
			if err != nil {
				return mapStoreError(w.policy.Type, err, "load existing submission")
			}
			if found != nil {
				prior = found
			}
		}
		if err := w.engine.Submit(w.policy, entity, prior); err != nil {
			return err
		}
		if err := w.store.CreateWithTx(tx, entity); err != nil {
			return mapStoreError(w.policy.Type, err, "create "+string(w.policy.Type))
		}
		return w.emit(ctx, tx, enums.EventModerationSubmitted, entity, "", actor)
	})
	if err != nil {
		w.recordFailure(ctx, "submit", err)
		return nil, err
	}

	if entity.ModerationLedger().Status == enums.ModerationPending {
		w.invalidateCounts(ctx)
	}
	w.metrics.IncSubmission(string(w.policy.Type), "submitted")
	w.logg.Info(w.logCtx(ctx, entity, actor), "moderation.submitted")
	return entity, nil
}

// Edit applies patch for the owner and sends the record back to review.
func (w *Workflow[T, P]) Edit(ctx context.Context, actor Actor, id uuid.UUID, patch func(P) error) (P, error) {
	var entity P
	err := w.db.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := w.store.FindByIDWithTx(tx, id)
		if err != nil {
			return mapStoreError(w.policy.Type, err, "load "+string(w.policy.Type))
		}
		if err := AssertOwner(found, actor); err != nil {
			return err
		}
		if err := w.ensureCurrent(tx, found); err != nil {
			return err
		}
		readVersion := found.ModerationLedger().Version
		previous, err := w.engine.Edit(w.policy, found, func() error {
			if patch == nil {
				return nil
			}
			return patch(found)
		})
		if err != nil {
			return err
		}
		if err := w.store.CompareAndSwapWithTx(tx, found, readVersion); err != nil {
			return mapStoreError(w.policy.Type, err, "update "+string(w.policy.Type))
		}
		entity = found
		if w.policy.AutoApproved {
			return nil
		}
		return w.emit(ctx, tx, enums.EventModerationResubmitted, found, previous, actor)
	})
	if err != nil {
		w.recordFailure(ctx, "edit", err)
		return nil, err
	}

	if !w.policy.AutoApproved {
		w.invalidateCounts(ctx)
		w.metrics.IncSubmission(string(w.policy.Type), "resubmitted")
	}
	w.logg.Info(w.logCtx(ctx, entity, actor), "moderation.edited")
	return entity, nil
}

// Delete hard-deletes the owner's record.
func (w *Workflow[T, P]) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	var removed P
	err := w.db.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := w.store.FindByIDWithTx(tx, id)
		if err != nil {
			return mapStoreError(w.policy.Type, err, "load "+string(w.policy.Type))
		}
		if err := AssertOwner(found, actor); err != nil {
			return err
		}
		// The rejected row carries the cooldown.
		if w.policy.HasCooldown() && !w.engine.CanReapply(found) {
			return cooldownError(*found.ModerationLedger().ReapplyNotBefore)
		}
		if err := w.store.DeleteWithTx(tx, id); err != nil {
			return mapStoreError(w.policy.Type, err, "delete "+string(w.policy.Type))
		}
		removed = found
		return w.emit(ctx, tx, enums.EventModerationWithdrawn, found, found.ModerationLedger().Status, actor)
	})
	if err != nil {
		w.recordFailure(ctx, "delete", err)
		return err
	}

	if removed.ModerationLedger().Status == enums.ModerationPending {
		w.invalidateCounts(ctx)
	}
	w.logg.Info(w.logCtx(ctx, removed, actor), "moderation.withdrawn")
	return nil
}

// Get loads one record, hiding unpublished records from everyone except the
// owner and admins.
func (w *Workflow[T, P]) Get(ctx context.Context, viewer Actor, id uuid.UUID) (P, error) {
	found, err := w.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(w.policy.Type, err, "load "+string(w.policy.Type))
	}
	if err := visibility.EnsureVisible(found, viewer.Viewer()); err != nil {
		return nil, err
	}
	return found, nil
}

// LatestForOwner returns the actor's newest record, or NotFound.
func (w *Workflow[T, P]) LatestForOwner(ctx context.Context, actor Actor) (P, error) {
	if err := assertAuthenticated(actor); err != nil {
		return nil, err
	}
	found, err := w.store.FindLatestByOwner(ctx, actor.ID)
	if err != nil {
		return nil, mapStoreError(w.policy.Type, err, "load "+string(w.policy.Type))
	}
	if found == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, string(w.policy.Type)+" not found")
	}
	return found, nil
}

// ListMine returns the actor's own records in every status.
func (w *Workflow[T, P]) ListMine(ctx context.Context, actor Actor, params pagination.Params) ([]P, pagination.Meta, error) {
	if err := assertAuthenticated(actor); err != nil {
		return nil, pagination.Meta{}, err
	}
	params = params.Normalize()
	rows, total, err := w.store.ListByOwner(ctx, actor.ID, params)
	if err != nil {
		return nil, pagination.Meta{}, mapStoreError(w.policy.Type, err, "list "+string(w.policy.Type))
	}
	return rows, pagination.NewMeta(params, total), nil
}

// ListPublic returns approved records, optionally for one owner.
func (w *Workflow[T, P]) ListPublic(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]P, pagination.Meta, error) {
	params = params.Normalize()
	rows, total, err := w.store.ListApproved(ctx, ownerID, params)
	if err != nil {
		return nil, pagination.Meta{}, mapStoreError(w.policy.Type, err, "list "+string(w.policy.Type))
	}
	return rows, pagination.NewMeta(params, total), nil
}

func (w *Workflow[T, P]) Approve(ctx context.Context, admin Actor, id uuid.UUID, expectedVersion int64) (P, error) {
	return w.decide(ctx, admin, id, Decision{Kind: DecisionApprove, ExpectedVersion: expectedVersion})
}

func (w *Workflow[T, P]) Reject(ctx context.Context, admin Actor, id uuid.UUID, reason string, expectedVersion int64) (P, error) {
	return w.decide(ctx, admin, id, Decision{Kind: DecisionReject, Reason: reason, ExpectedVersion: expectedVersion})
}

// Decide is the type-erased form used by the admin queue registry.
func (w *Workflow[T, P]) Decide(ctx context.Context, admin Actor, id uuid.UUID, d Decision) (models.Moderatable, error) {
	entity, err := w.decide(ctx, admin, id, d)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (w *Workflow[T, P]) CountPending(ctx context.Context) (int64, error) {
	total, err := w.store.CountPending(ctx)
	if err != nil {
		return 0, mapStoreError(w.policy.Type, err, "count pending "+string(w.policy.Type))
	}
	return total, nil
}

func (w *Workflow[T, P]) ListPending(ctx context.Context, limit, offset int) ([]models.Moderatable, error) {
	rows, err := w.store.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreError(w.policy.Type, err, "list pending "+string(w.policy.Type))
	}
	return rows, nil
}

func (w *Workflow[T, P]) decide(ctx context.Context, admin Actor, id uuid.UUID, d Decision) (P, error) {
	if err := AssertAdmin(admin); err != nil {
		return nil, err
	}
	if err := validateDecision(d); err != nil {
		return nil, err
	}

	var (
		entity   P
		changed  bool
		previous enums.ModerationStatus
	)
	err := w.db.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := w.store.FindByIDWithTx(tx, id)
		if err != nil {
			return mapStoreError(w.policy.Type, err, "load "+string(w.policy.Type))
		}
		if err := w.ensureCurrent(tx, found); err != nil {
			return err
		}
		ledger := found.ModerationLedger()
		readVersion := ledger.Version
		previous = ledger.Status

		switch d.Kind {
		case DecisionApprove:
			changed, err = w.engine.Approve(w.policy, found, admin.ID)
		case DecisionReject:
			err = w.engine.Reject(w.policy, found, admin.ID, d.Reason)
			changed = err == nil
		}
		if err != nil {
			return err
		}
		entity = found
		if !changed {
			return nil
		}
		if d.ExpectedVersion > 0 && d.ExpectedVersion != readVersion {
			return staleError(w.policy.Type)
		}
		if err := w.store.CompareAndSwapWithTx(tx, found, readVersion); err != nil {
			return mapStoreError(w.policy.Type, err, "record decision")
		}
		if w.afterDecision != nil {
			if err := w.afterDecision(ctx, tx, found, admin, d.Kind); err != nil {
				return err
			}
		}
		return w.emit(ctx, tx, decisionEvent(d.Kind), found, previous, admin)
	})
	if err != nil {
		w.recordFailure(ctx, string(d.Kind), err)
		return nil, err
	}

	logCtx := w.logCtx(ctx, entity, admin)
	if !changed {
		w.logg.Info(w.logg.WithField(logCtx, "decision", d.Kind), "moderation.decision_noop")
		return entity, nil
	}
	w.invalidateCounts(ctx)
	w.metrics.IncDecision(string(w.policy.Type), string(entity.ModerationLedger().Status))
	logCtx = w.logg.WithFields(logCtx, map[string]any{
		"decision":        d.Kind,
		"previous_status": previous,
		"version":         entity.ModerationLedger().Version,
	})
	w.logg.Info(logCtx, "moderation.decided")
	return entity, nil
}

// ensureCurrent refuses writes to a single-open row once the owner has filed
// a newer one. Only the latest row may change status.
func (w *Workflow[T, P]) ensureCurrent(tx *gorm.DB, found P) error {
	if !w.policy.SingleOpen {
		return nil
	}
	latest, err := w.store.FindLatestByOwnerWithTx(tx, found.EntityOwnerID())
	if err != nil {
		return mapStoreError(w.policy.Type, err, "load latest "+string(w.policy.Type))
	}
	if latest != nil && latest.EntityID() != found.EntityID() {
		return supersededError(w.policy.Type, latest)
	}
	return nil
}

func validateDecision(d Decision) error {
	switch d.Kind {
	case DecisionApprove:
	case DecisionReject:
		if strings.TrimSpace(d.Reason) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required").
				WithDetails(map[string]string{"reason": "required"})
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown decision "+string(d.Kind))
	}
	if d.ExpectedVersion < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "version must be positive").
			WithDetails(map[string]string{"version": "min"})
	}
	return nil
}

func decisionEvent(kind DecisionKind) enums.OutboxEventType {
	if kind == DecisionReject {
		return enums.EventModerationRejected
	}
	return enums.EventModerationApproved
}

func (w *Workflow[T, P]) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, entity P, previous enums.ModerationStatus, actor Actor) error {
	if w.outbox == nil {
		return nil
	}
	ledger := entity.ModerationLedger()
	err := w.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateFor(w.policy.Type),
		AggregateID:   entity.EntityID(),
		Actor:         &outbox.ActorRef{UserID: actor.ID, Role: string(actor.Role)},
		Data: payloads.ModerationEvent{
			EntityType:       w.policy.Type,
			EntityID:         entity.EntityID(),
			OwnerID:          entity.EntityOwnerID(),
			Status:           ledger.Status,
			PreviousStatus:   previous,
			Version:          ledger.Version,
			DecidedBy:        ledger.DecidedBy,
			DecidedAt:        ledger.DecidedAt,
			RejectionReason:  ledger.RejectionReason,
			ReapplyNotBefore: ledger.ReapplyNotBefore,
		},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue moderation event")
	}
	return nil
}

func (w *Workflow[T, P]) invalidateCounts(ctx context.Context) {
	if w.counts != nil {
		w.counts.Invalidate(ctx)
	}
}

func (w *Workflow[T, P]) recordFailure(ctx context.Context, op string, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		return
	}
	switch typed.Code() {
	case pkgerrors.CodeConflict, pkgerrors.CodeDuplicate, pkgerrors.CodeCooldown, pkgerrors.CodeStateConflict:
		w.metrics.IncConflict(string(w.policy.Type), string(typed.Code()))
		logCtx := w.logg.WithFields(ctx, map[string]any{
			"entity_type": w.policy.Type,
			"operation":   op,
			"code":        typed.Code(),
		})
		w.logg.Warn(logCtx, "moderation.refused")
	case pkgerrors.CodeDependency, pkgerrors.CodeInternal:
		logCtx := w.logg.WithFields(ctx, map[string]any{
			"entity_type": w.policy.Type,
			"operation":   op,
		})
		w.logg.Error(logCtx, "moderation.storage_failed", err)
	}
}

func (w *Workflow[T, P]) logCtx(ctx context.Context, entity P, actor Actor) context.Context {
	ctx = w.logg.WithEntity(ctx, string(w.policy.Type), entity.EntityID().String())
	return w.logg.WithFields(ctx, map[string]any{
		"actor_id": actor.ID.String(),
		"status":   entity.ModerationLedger().Status,
	})
}
