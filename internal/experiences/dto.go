package experiences

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
)

type ExperienceDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CompanyName string     `json:"company_name"`
	Title       string     `json:"title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description *string    `json:"description,omitempty"`
	moderation.LedgerDTO
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateExperienceInput struct {
	CompanyName string     `json:"company_name" validate:"required,min=1,max=200"`
	Title       string     `json:"title" validate:"required,min=1,max=100"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type UpdateExperienceInput struct {
	CompanyName *string    `json:"company_name,omitempty" validate:"omitempty,min=1,max=200"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
}

func (in UpdateExperienceInput) IsEmpty() bool {
	return in.CompanyName == nil && in.Title == nil && in.StartDate == nil && in.EndDate == nil && in.Description == nil
}

func (in CreateExperienceInput) ToModel(ownerID uuid.UUID) *models.Experience {
	return &models.Experience{
		OwnerID:     ownerID,
		CompanyName: in.CompanyName,
		Title:       in.Title,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
}

func (in UpdateExperienceInput) Apply(e *models.Experience) {
	if in.CompanyName != nil {
		e.CompanyName = *in.CompanyName
	}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.StartDate != nil {
		e.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		e.EndDate = in.EndDate
	}
	if in.Description != nil {
		e.Description = in.Description
	}
}

func FromModel(m *models.Experience) *ExperienceDTO {
	if m == nil {
		return nil
	}
	return &ExperienceDTO{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		CompanyName: m.CompanyName,
		Title:       m.Title,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Description: m.Description,
		LedgerDTO:   moderation.LedgerFromModel(&m.Ledger),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromModels(rows []*models.Experience) []ExperienceDTO {
	out := make([]ExperienceDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *FromModel(row))
	}
	return out
}
