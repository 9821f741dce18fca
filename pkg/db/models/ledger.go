package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// Ledger holds the moderation columns shared by every reviewable record.
// It is embedded into each model so a decision is one row update.
type Ledger struct {
	Status           enums.ModerationStatus `gorm:"column:status;type:moderation_status;not null;default:'pending'"`
	DecidedBy        *uuid.UUID             `gorm:"column:decided_by;type:uuid"`
	DecidedAt        *time.Time             `gorm:"column:decided_at"`
	RejectionReason  *string                `gorm:"column:rejection_reason"`
	ReapplyNotBefore *time.Time             `gorm:"column:reapply_not_before"`
	SubmittedAt      time.Time              `gorm:"column:submitted_at;not null"`
	Version          int64                  `gorm:"column:version;not null;default:1"`
}

// ModerationLedger exposes the embedded ledger to generic moderation code.
func (l *Ledger) ModerationLedger() *Ledger {
	return l
}

// ClearDecision drops decision stamps, reason and cooldown.
func (l *Ledger) ClearDecision() {
	l.DecidedBy = nil
	l.DecidedAt = nil
	l.RejectionReason = nil
	l.ReapplyNotBefore = nil
}

// Moderatable is implemented by every record that passes through review.
type Moderatable interface {
	EntityType() enums.EntityType
	EntityID() uuid.UUID
	EntityOwnerID() uuid.UUID
	ModerationLedger() *Ledger
	// Summary is a short human label for the admin worklist.
	Summary() string
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
