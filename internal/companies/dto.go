package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
)

// CompanyDTO is the API shape of a company, ledger included.
type CompanyDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	Industry    *string   `json:"industry,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Description *string   `json:"description,omitempty"`
	moderation.LedgerDTO
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCompanyInput is the create payload. tax_id is the 8 digit unified
// business number.
type CreateCompanyInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	TaxID       string  `json:"tax_id" validate:"required,len=8,numeric"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=300"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateCompanyInput patches only the fields that are set.
type UpdateCompanyInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	TaxID       *string `json:"tax_id,omitempty" validate:"omitempty,len=8,numeric"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=300"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

func (in UpdateCompanyInput) IsEmpty() bool {
	return in.Name == nil && in.TaxID == nil && in.Industry == nil && in.Phone == nil &&
		in.Address == nil && in.Website == nil && in.Description == nil
}

func (in CreateCompanyInput) ToModel(ownerID uuid.UUID) *models.Company {
	return &models.Company{
		OwnerID:     ownerID,
		Name:        in.Name,
		TaxID:       in.TaxID,
		Industry:    in.Industry,
		Phone:       in.Phone,
		Address:     in.Address,
		Website:     in.Website,
		Description: in.Description,
	}
}

func (in UpdateCompanyInput) Apply(c *models.Company) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.TaxID != nil {
		c.TaxID = *in.TaxID
	}
	if in.Industry != nil {
		c.Industry = in.Industry
	}
	if in.Phone != nil {
		c.Phone = in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.Website != nil {
		c.Website = in.Website
	}
	if in.Description != nil {
		c.Description = in.Description
	}
}

// FromModel maps the persisted company into a DTO.
func FromModel(m *models.Company) *CompanyDTO {
	if m == nil {
		return nil
	}
	return &CompanyDTO{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		TaxID:       m.TaxID,
		Industry:    m.Industry,
		Phone:       m.Phone,
		Address:     m.Address,
		Website:     m.Website,
		Description: m.Description,
		LedgerDTO:   moderation.LedgerFromModel(&m.Ledger),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromModels(rows []*models.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *FromModel(row))
	}
	return out
}
