package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type workflow interface {
	Submit(ctx context.Context, actor moderation.Actor, entity *models.SalespersonProfile) (*models.SalespersonProfile, error)
	Edit(ctx context.Context, actor moderation.Actor, id uuid.UUID, patch func(*models.SalespersonProfile) error) (*models.SalespersonProfile, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.SalespersonProfile, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]*models.SalespersonProfile, pagination.Meta, error)
	ListPublic(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]*models.SalespersonProfile, pagination.Meta, error)
}

// companyReader resolves the company a profile links to, under the same
// visibility rules as any other read.
type companyReader interface {
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.Company, error)
}

// Service manages the salesperson's public profile card.
type Service interface {
	Create(ctx context.Context, actor moderation.Actor, input CreateProfileInput) (*ProfileDTO, error)
	Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ProfileDTO, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ProfileDTO, pagination.Meta, error)
	ListPublic(ctx context.Context, params pagination.Params) ([]ProfileDTO, pagination.Meta, error)
}

type service struct {
	wf        workflow
	companies companyReader
}

func NewService(wf workflow, companies companyReader) (Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("profile workflow required")
	}
	if companies == nil {
		return nil, fmt.Errorf("company reader required")
	}
	return &service{wf: wf, companies: companies}, nil
}

func (s *service) Create(ctx context.Context, actor moderation.Actor, input CreateProfileInput) (*ProfileDTO, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	if err := validateAvatar(input.Avatar, input.AvatarMime); err != nil {
		return nil, err
	}
	if err := s.checkCompany(ctx, actor, input.CompanyID); err != nil {
		return nil, err
	}
	profile, err := s.wf.Submit(ctx, actor, input.ToModel(actor.ID))
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name cannot be blank")
		}
		input.FullName = &name
	}
	if input.Avatar != nil {
		if err := validateAvatar(input.Avatar, input.AvatarMime); err != nil {
			return nil, err
		}
	}
	if err := s.checkCompany(ctx, actor, input.CompanyID); err != nil {
		return nil, err
	}
	profile, err := s.wf.Edit(ctx, actor, id, func(p *models.SalespersonProfile) error {
		input.Apply(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

func (s *service) Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error {
	return s.wf.Delete(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.wf.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

func (s *service) ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ProfileDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListMine(ctx, actor, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func (s *service) ListPublic(ctx context.Context, params pagination.Params) ([]ProfileDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListPublic(ctx, nil, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func (s *service) checkCompany(ctx context.Context, actor moderation.Actor, companyID *uuid.UUID) error {
	if companyID == nil {
		return nil
	}
	if _, err := s.companies.Get(ctx, actor, *companyID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "company_id does not reference a listed company").
				WithDetails(map[string]string{"company_id": "exists"})
		}
		return err
	}
	return nil
}

func validateAvatar(avatar []byte, mime *string) error {
	if len(avatar) == 0 {
		return nil
	}
	if len(avatar) > MaxAvatarBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, "avatar too large").
			WithDetails(map[string]string{"avatar": "max"})
	}
	if mime == nil || strings.TrimSpace(*mime) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "avatar_mime is required with avatar").
			WithDetails(map[string]string{"avatar_mime": "required_with"})
	}
	return nil
}
