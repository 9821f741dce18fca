package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

type ApplicationDTO struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone,omitempty"`
	Motivation *string   `json:"motivation,omitempty"`
	moderation.LedgerDTO
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusDTO is the applicant's view of their upgrade request.
type StatusDTO struct {
	Application      *ApplicationDTO `json:"application"`
	CanReapply       bool            `json:"can_reapply"`
	ReapplyNotBefore *time.Time      `json:"reapply_not_before,omitempty"`
	Role             enums.UserRole  `json:"role,omitempty"`
}

type CreateApplicationInput struct {
	FullName   string  `json:"full_name" validate:"required,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Motivation *string `json:"motivation,omitempty" validate:"omitempty,max=2000"`
}

type UpdateApplicationInput struct {
	FullName   *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Motivation *string `json:"motivation,omitempty" validate:"omitempty,max=2000"`
}

func (in UpdateApplicationInput) IsEmpty() bool {
	return in.FullName == nil && in.Phone == nil && in.Motivation == nil
}

func (in CreateApplicationInput) ToModel(ownerID uuid.UUID) *models.SalespersonApplication {
	return &models.SalespersonApplication{
		OwnerID:    ownerID,
		FullName:   in.FullName,
		Phone:      in.Phone,
		Motivation: in.Motivation,
	}
}

func (in UpdateApplicationInput) Apply(a *models.SalespersonApplication) {
	if in.FullName != nil {
		a.FullName = *in.FullName
	}
	if in.Phone != nil {
		a.Phone = in.Phone
	}
	if in.Motivation != nil {
		a.Motivation = in.Motivation
	}
}

func FromModel(m *models.SalespersonApplication) *ApplicationDTO {
	if m == nil {
		return nil
	}
	return &ApplicationDTO{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		FullName:   m.FullName,
		Phone:      m.Phone,
		Motivation: m.Motivation,
		LedgerDTO:  moderation.LedgerFromModel(&m.Ledger),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func fromModels(rows []*models.SalespersonApplication) []ApplicationDTO {
	out := make([]ApplicationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *FromModel(row))
	}
	return out
}
