package certifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
)

// MaxDocumentBytes caps the decoded certificate scan.
const MaxDocumentBytes = 5 << 20

type CertificationDTO struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Name         string     `json:"name"`
	Issuer       string     `json:"issuer"`
	IssuedOn     *time.Time `json:"issued_on,omitempty"`
	ExpiresOn    *time.Time `json:"expires_on,omitempty"`
	CredentialID *string    `json:"credential_id,omitempty"`
	Document     []byte     `json:"document,omitempty"`
	DocumentMime *string    `json:"document_mime,omitempty"`
	moderation.LedgerDTO
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCertificationInput struct {
	Name         string     `json:"name" validate:"required,min=1,max=200"`
	Issuer       string     `json:"issuer" validate:"required,min=1,max=200"`
	IssuedOn     *time.Time `json:"issued_on,omitempty"`
	ExpiresOn    *time.Time `json:"expires_on,omitempty"`
	CredentialID *string    `json:"credential_id,omitempty" validate:"omitempty,max=100"`
	Document     []byte     `json:"document,omitempty" validate:"omitempty,max=5242880"`
	DocumentMime *string    `json:"document_mime,omitempty" validate:"omitempty,oneof=application/pdf image/jpeg image/png"`
}

type UpdateCertificationInput struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Issuer       *string    `json:"issuer,omitempty" validate:"omitempty,min=1,max=200"`
	IssuedOn     *time.Time `json:"issued_on,omitempty"`
	ExpiresOn    *time.Time `json:"expires_on,omitempty"`
	CredentialID *string    `json:"credential_id,omitempty" validate:"omitempty,max=100"`
	Document     []byte     `json:"document,omitempty" validate:"omitempty,max=5242880"`
	DocumentMime *string    `json:"document_mime,omitempty" validate:"omitempty,oneof=application/pdf image/jpeg image/png"`
}

func (in UpdateCertificationInput) IsEmpty() bool {
	return in.Name == nil && in.Issuer == nil && in.IssuedOn == nil && in.ExpiresOn == nil &&
		in.CredentialID == nil && in.Document == nil && in.DocumentMime == nil
}

func (in CreateCertificationInput) ToModel(ownerID uuid.UUID) *models.Certification {
	return &models.Certification{
		OwnerID:      ownerID,
		Name:         in.Name,
		Issuer:       in.Issuer,
		IssuedOn:     in.IssuedOn,
		ExpiresOn:    in.ExpiresOn,
		CredentialID: in.CredentialID,
		Document:     in.Document,
		DocumentMime: in.DocumentMime,
	}
}

func (in UpdateCertificationInput) Apply(c *models.Certification) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Issuer != nil {
		c.Issuer = *in.Issuer
	}
	if in.IssuedOn != nil {
		c.IssuedOn = in.IssuedOn
	}
	if in.ExpiresOn != nil {
		c.ExpiresOn = in.ExpiresOn
	}
	if in.CredentialID != nil {
		c.CredentialID = in.CredentialID
	}
	if in.Document != nil {
		c.Document = in.Document
		c.DocumentMime = in.DocumentMime
	}
}

func FromModel(m *models.Certification) *CertificationDTO {
	if m == nil {
		return nil
	}
	return &CertificationDTO{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Issuer:       m.Issuer,
		IssuedOn:     m.IssuedOn,
		ExpiresOn:    m.ExpiresOn,
		CredentialID: m.CredentialID,
		Document:     m.Document,
		DocumentMime: m.DocumentMime,
		LedgerDTO:    moderation.LedgerFromModel(&m.Ledger),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromModels(rows []*models.Certification) []CertificationDTO {
	out := make([]CertificationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *FromModel(row))
	}
	return out
}
