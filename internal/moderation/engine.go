package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

// DecisionKind is an admin verdict.
type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionReject  DecisionKind = "reject"
)

// Engine holds the pure transition rules. It never touches storage; callers
// load the record, run guards, call the engine and persist the result.
type Engine struct {
	now func() time.Time
}

// NewEngine builds an engine with the given clock. A nil clock uses time.Now.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{now: clock}
}

// Now returns the engine clock in UTC at storage precision.
func (e *Engine) Now() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

// Submit initializes the ledger of a new record. prior is the owner's latest
// existing row for singleton or single-open types, nil otherwise.
func (e *Engine) Submit(policy Policy, entity, prior models.Moderatable) error {
	if entity == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "entity is required")
	}
	if prior != nil {
		switch {
		case policy.Singleton:
			return duplicateError(policy.Type, prior)
		case policy.SingleOpen:
			ledger := prior.ModerationLedger()
			if ledger.Status != enums.ModerationRejected {
				return duplicateError(policy.Type, prior)
			}
			if !e.CanReapply(prior) {
				return cooldownError(*ledger.ReapplyNotBefore)
			}
		}
	}

	ledger := entity.ModerationLedger()
	ledger.ClearDecision()
	ledger.Status = enums.ModerationPending
	if policy.AutoApproved {
		ledger.Status = enums.ModerationApproved
	}
	ledger.SubmittedAt = e.Now()
	ledger.Version = 1
	return nil
}

// ResetIfNeeded sends an edited record back to review. Auto-approved types
// are left untouched. It returns the status held before the reset.
func (e *Engine) ResetIfNeeded(policy Policy, entity models.Moderatable) enums.ModerationStatus {
	ledger := entity.ModerationLedger()
	previous := ledger.Status
	if policy.AutoApproved {
		return previous
	}
	ledger.Status = enums.ModerationPending
	ledger.ClearDecision()
	ledger.SubmittedAt = e.Now()
	return previous
}

// Edit applies patch and then resets the ledger. A rejected record whose
// cooldown is still running may not be edited, since editing resubmits it.
func (e *Engine) Edit(policy Policy, entity models.Moderatable, patch func() error) (enums.ModerationStatus, error) {
	if policy.HasCooldown() && !e.CanReapply(entity) {
		return "", cooldownError(*entity.ModerationLedger().ReapplyNotBefore)
	}
	if patch != nil {
		if err := patch(); err != nil {
			return "", err
		}
	}
	return e.ResetIfNeeded(policy, entity), nil
}

// Approve stamps an approval. Re-approving an approved record is a no-op that
// keeps the original stamps; the returned bool reports whether anything changed.
func (e *Engine) Approve(policy Policy, entity models.Moderatable, admin uuid.UUID) (bool, error) {
	if admin == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "decider is required")
	}
	ledger := entity.ModerationLedger()
	if policy.AutoApproved || ledger.Status == enums.ModerationApproved {
		return false, nil
	}
	now := e.Now()
	ledger.Status = enums.ModerationApproved
	ledger.DecidedBy = &admin
	ledger.DecidedAt = &now
	ledger.RejectionReason = nil
	ledger.ReapplyNotBefore = nil
	return true, nil
}

// Reject stamps a rejection with a reason, and a reapply date for types with
// a cooldown. Any earlier decision is overwritten.
func (e *Engine) Reject(policy Policy, entity models.Moderatable, admin uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "rejection reason is required").
			WithDetails(map[string]string{"reason": "required"})
	}
	if admin == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "decider is required")
	}
	if policy.AutoApproved {
		return pkgerrors.New(pkgerrors.CodeStateConflict, string(policy.Type)+" is published without review and cannot be rejected")
	}
	now := e.Now()
	ledger := entity.ModerationLedger()
	ledger.Status = enums.ModerationRejected
	ledger.DecidedBy = &admin
	ledger.DecidedAt = &now
	ledger.RejectionReason = &reason
	ledger.ReapplyNotBefore = nil
	if policy.HasCooldown() {
		until := now.Add(policy.Cooldown)
		ledger.ReapplyNotBefore = &until
	}
	return nil
}

// CanReapply reports whether the owner may resubmit the record now.
func (e *Engine) CanReapply(entity models.Moderatable) bool {
	ledger := entity.ModerationLedger()
	if ledger.Status != enums.ModerationRejected || ledger.ReapplyNotBefore == nil {
		return true
	}
	return !ledger.ReapplyNotBefore.After(e.Now())
}

// CheckInvariants validates a ledger against the workflow rules.
func CheckInvariants(policy Policy, entity models.Moderatable) error {
	ledger := entity.ModerationLedger()
	decided := ledger.DecidedBy != nil && ledger.DecidedAt != nil
	hasReason := ledger.RejectionReason != nil && strings.TrimSpace(*ledger.RejectionReason) != ""

	if policy.AutoApproved {
		if ledger.Status != enums.ModerationApproved || ledger.DecidedBy != nil || ledger.DecidedAt != nil || ledger.RejectionReason != nil {
			return fmt.Errorf("%s must stay approved without a decision, got %s", policy.Type, ledger.Status)
		}
		return nil
	}

	switch ledger.Status {
	case enums.ModerationPending:
		if ledger.DecidedBy != nil || ledger.DecidedAt != nil || ledger.RejectionReason != nil || ledger.ReapplyNotBefore != nil {
			return fmt.Errorf("pending %s carries decision fields", policy.Type)
		}
	case enums.ModerationApproved:
		if !decided || ledger.RejectionReason != nil {
			return fmt.Errorf("approved %s must be stamped and have no reason", policy.Type)
		}
	case enums.ModerationRejected:
		if !decided || !hasReason {
			return fmt.Errorf("rejected %s must be stamped and carry a reason", policy.Type)
		}
		if policy.HasCooldown() != (ledger.ReapplyNotBefore != nil) {
			return fmt.Errorf("rejected %s has inconsistent reapply_not_before", policy.Type)
		}
	default:
		return fmt.Errorf("unknown status %q", ledger.Status)
	}
	return nil
}
