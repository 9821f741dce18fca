package experiences

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
	Submit(ctx context.Context, actor moderation.Actor, entity *models.Experience) (*models.Experience, error)
	Edit(ctx context.Context, actor moderation.Actor, id uuid.UUID, patch func(*models.Experience) error) (*models.Experience, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.Experience, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]*models.Experience, pagination.Meta, error)
	ListPublic(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]*models.Experience, pagination.Meta, error)
}

// Service manages work-history entries. They publish immediately.
type Service interface {
	Create(ctx context.Context, actor moderation.Actor, input CreateExperienceInput) (*ExperienceDTO, error)
	Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateExperienceInput) (*ExperienceDTO, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ExperienceDTO, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ExperienceDTO, pagination.Meta, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]ExperienceDTO, pagination.Meta, error)
}

type service struct {
	wf workflow
}

func NewService(wf workflow) (Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("experience workflow required")
	}
	return &service{wf: wf}, nil
}

func (s *service) Create(ctx context.Context, actor moderation.Actor, input CreateExperienceInput) (*ExperienceDTO, error) {
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.Title = strings.TrimSpace(input.Title)
	if input.CompanyName == "" || input.Title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name and title are required")
	}
	entity := input.ToModel(actor.ID)
	if err := validatePeriod(entity); err != nil {
		return nil, err
	}
	exp, err := s.wf.Submit(ctx, actor, entity)
	if err != nil {
		return nil, err
	}
	return FromModel(exp), nil
}

func (s *service) Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateExperienceInput) (*ExperienceDTO, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	exp, err := s.wf.Edit(ctx, actor, id, func(e *models.Experience) error {
		input.Apply(e)
		e.CompanyName = strings.TrimSpace(e.CompanyName)
		e.Title = strings.TrimSpace(e.Title)
		if e.CompanyName == "" || e.Title == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "company_name and title cannot be blank")
		}
		return validatePeriod(e)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(exp), nil
}

func (s *service) Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error {
	return s.wf.Delete(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ExperienceDTO, error) {
	exp, err := s.wf.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return FromModel(exp), nil
}

func (s *service) ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ExperienceDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListMine(ctx, actor, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func (s *service) ListForOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]ExperienceDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListPublic(ctx, &ownerID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

func validatePeriod(e *models.Experience) error {
	if e.StartDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date is required").
			WithDetails(map[string]string{"start_date": "required"})
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_date must not be before start_date").
			WithDetails(map[string]string{"end_date": "gtefield"})
	}
	return nil
}
