package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
)

// MaxAvatarBytes caps the decoded avatar size.
const MaxAvatarBytes = 2 << 20

// ProfileDTO is the API shape of a salesperson profile. Avatar travels as
// base64.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	FullName    string     `json:"full_name"`
	Title       *string    `json:"title,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Bio         *string    `json:"bio,omitempty"`
	Specialties *string    `json:"specialties,omitempty"`
	Avatar      []byte     `json:"avatar,omitempty"`
	AvatarMime  *string    `json:"avatar_mime,omitempty"`
	moderation.LedgerDTO
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProfileInput struct {
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	FullName    string     `json:"full_name" validate:"required,min=1,max=100"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=100"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Bio         *string    `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Specialties *string    `json:"specialties,omitempty" validate:"omitempty,max=500"`
	Avatar      []byte     `json:"avatar,omitempty" validate:"omitempty,max=2097152"`
	AvatarMime  *string    `json:"avatar_mime,omitempty" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

type UpdateProfileInput struct {
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	FullName    *string    `json:"full_name,omitempty" validate:"omitempty,min=1,max=100"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=100"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Bio         *string    `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Specialties *string    `json:"specialties,omitempty" validate:"omitempty,max=500"`
	Avatar      []byte     `json:"avatar,omitempty" validate:"omitempty,max=2097152"`
	AvatarMime  *string    `json:"avatar_mime,omitempty" validate:"omitempty,oneof=image/jpeg image/png image/webp"`
}

func (in UpdateProfileInput) IsEmpty() bool {
	return in.CompanyID == nil && in.FullName == nil && in.Title == nil && in.Phone == nil &&
		in.Email == nil && in.Bio == nil && in.Specialties == nil && in.Avatar == nil && in.AvatarMime == nil
}

func (in CreateProfileInput) ToModel(ownerID uuid.UUID) *models.SalespersonProfile {
	return &models.SalespersonProfile{
		OwnerID:     ownerID,
		CompanyID:   in.CompanyID,
		FullName:    in.FullName,
		Title:       in.Title,
		Phone:       in.Phone,
		Email:       in.Email,
		Bio:         in.Bio,
		Specialties: in.Specialties,
		Avatar:      in.Avatar,
		AvatarMime:  in.AvatarMime,
	}
}

func (in UpdateProfileInput) Apply(p *models.SalespersonProfile) {
	if in.CompanyID != nil {
		p.CompanyID = in.CompanyID
	}
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Title != nil {
		p.Title = in.Title
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.Email != nil {
		p.Email = in.Email
	}
	if in.Bio != nil {
		p.Bio = in.Bio
	}
	if in.Specialties != nil {
		p.Specialties = in.Specialties
	}
	if in.Avatar != nil {
		p.Avatar = in.Avatar
		p.AvatarMime = in.AvatarMime
	}
}

func FromModel(m *models.SalespersonProfile) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		CompanyID:   m.CompanyID,
		FullName:    m.FullName,
		Title:       m.Title,
		Phone:       m.Phone,
		Email:       m.Email,
		Bio:         m.Bio,
		Specialties: m.Specialties,
		Avatar:      m.Avatar,
		AvatarMime:  m.AvatarMime,
		LedgerDTO:   moderation.LedgerFromModel(&m.Ledger),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromModels(rows []*models.SalespersonProfile) []ProfileDTO {
	out := make([]ProfileDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, *FromModel(row))
	}
	return out
}
