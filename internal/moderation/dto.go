package moderation

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// LedgerDTO is the review state embedded in every record response.
type LedgerDTO struct {
	Status           enums.ModerationStatus `json:"status"`
	DecidedBy        *uuid.UUID             `json:"decided_by,omitempty"`
	DecidedAt        *time.Time             `json:"decided_at,omitempty"`
	RejectionReason  *string                `json:"rejection_reason,omitempty"`
	ReapplyNotBefore *time.Time             `json:"reapply_not_before,omitempty"`
	SubmittedAt      time.Time              `json:"submitted_at"`
	Version          int64                  `json:"version"`
}

func LedgerFromModel(l *models.Ledger) LedgerDTO {
	if l == nil {
		return LedgerDTO{}
	}
	return LedgerDTO{
		Status:           l.Status,
		DecidedBy:        l.DecidedBy,
		DecidedAt:        l.DecidedAt,
		RejectionReason:  l.RejectionReason,
		ReapplyNotBefore: l.ReapplyNotBefore,
		SubmittedAt:      l.SubmittedAt,
		Version:          l.Version,
	}
}

// DecisionResultDTO is returned to the admin after approve or reject.
type DecisionResultDTO struct {
	EntityType enums.EntityType `json:"entity_type"`
	EntityID   uuid.UUID        `json:"entity_id"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	Summary    string           `json:"summary"`
	LedgerDTO
}

func DecisionResultFromModel(m models.Moderatable) DecisionResultDTO {
	return DecisionResultDTO{
		EntityType: m.EntityType(),
		EntityID:   m.EntityID(),
		OwnerID:    m.EntityOwnerID(),
		Summary:    m.Summary(),
		LedgerDTO:  LedgerFromModel(m.ModerationLedger()),
	}
}
