package companies

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
	Submit(ctx context.Context, actor moderation.Actor, entity *models.Company) (*models.Company, error)
	Edit(ctx context.Context, actor moderation.Actor, id uuid.UUID, patch func(*models.Company) error) (*models.Company, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.Company, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]*models.Company, pagination.Meta, error)
	ListPublic(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]*models.Company, pagination.Meta, error)
}

// Service exposes company registration for owners and the public directory.
type Service interface {
	Create(ctx context.Context, actor moderation.Actor, input CreateCompanyInput) (*CompanyDTO, error)
	Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*CompanyDTO, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]CompanyDTO, pagination.Meta, error)
	ListPublic(ctx context.Context, params pagination.Params) ([]CompanyDTO, pagination.Meta, error)
}

type service struct {
	wf workflow
}

func NewService(wf workflow) (Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("company workflow required")
	}
	return &service{wf: wf}, nil
}

func (s *service) Create(ctx context.Context, actor moderation.Actor, input CreateCompanyInput) (*CompanyDTO, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.TaxID = strings.TrimSpace(input.TaxID)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	company, err := s.wf.Submit(ctx, actor, input.ToModel(actor.ID))
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		input.Name = &name
	}
	company, err := s.wf.Edit(ctx, actor, id, func(c *models.Company) error {
		input.Apply(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error {
	return s.wf.Delete(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.wf.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]CompanyDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListMine(ctx, actor, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func (s *service) ListPublic(ctx context.Context, params pagination.Params) ([]CompanyDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListPublic(ctx, nil, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}
