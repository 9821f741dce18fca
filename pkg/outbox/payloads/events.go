package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// ModerationEvent describes one ledger transition of a reviewable record.
type ModerationEvent struct {
	EntityType       enums.EntityType       `json:"entity_type"`
	EntityID         uuid.UUID              `json:"entity_id"`
	OwnerID          uuid.UUID              `json:"owner_id"`
	Status           enums.ModerationStatus `json:"status"`
	PreviousStatus   enums.ModerationStatus `json:"previous_status,omitempty"`
	Version          int64                  `json:"version"`
	DecidedBy        *uuid.UUID             `json:"decided_by,omitempty"`
	DecidedAt        *time.Time             `json:"decided_at,omitempty"`
	RejectionReason  *string                `json:"rejection_reason,omitempty"`
	ReapplyNotBefore *time.Time             `json:"reapply_not_before,omitempty"`
}

// UserRoleChangedEvent is emitted when an application decision moves a user
// between the user and salesperson roles.
type UserRoleChangedEvent struct {
	UserID        uuid.UUID      `json:"user_id"`
	From          enums.UserRole `json:"from"`
	To            enums.UserRole `json:"to"`
	ApplicationID uuid.UUID      `json:"application_id"`
}
