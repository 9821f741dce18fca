package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type workflow interface {
	Submit(ctx context.Context, actor moderation.Actor, entity *models.SalespersonApplication) (*models.SalespersonApplication, error)
	Edit(ctx context.Context, actor moderation.Actor, id uuid.UUID, patch func(*models.SalespersonApplication) error) (*models.SalespersonApplication, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*models.SalespersonApplication, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]*models.SalespersonApplication, pagination.Meta, error)
	LatestForOwner(ctx context.Context, actor moderation.Actor) (*models.SalespersonApplication, error)
	CanReapply(entity *models.SalespersonApplication) bool
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service handles user to salesperson upgrade requests.
type Service interface {
	Create(ctx context.Context, actor moderation.Actor, input CreateApplicationInput) (*ApplicationDTO, error)
	Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateApplicationInput) (*ApplicationDTO, error)
	Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ApplicationDTO, error)
	ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ApplicationDTO, pagination.Meta, error)
	Status(ctx context.Context, actor moderation.Actor) (*StatusDTO, error)
}

type service struct {
	wf    workflow
	users userReader
}

func NewService(wf workflow, users userReader) (Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("application workflow required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{wf: wf, users: users}, nil
}

func (s *service) Create(ctx context.Context, actor moderation.Actor, input CreateApplicationInput) (*ApplicationDTO, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	if input.FullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}
	app, err := s.wf.Submit(ctx, actor, input.ToModel(actor.ID))
	if err != nil {
		return nil, err
	}
	return FromModel(app), nil
}

func (s *service) Update(ctx context.Context, actor moderation.Actor, id uuid.UUID, input UpdateApplicationInput) (*ApplicationDTO, error) {
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
	app, err := s.wf.Edit(ctx, actor, id, func(a *models.SalespersonApplication) error {
		input.Apply(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(app), nil
}

func (s *service) Delete(ctx context.Context, actor moderation.Actor, id uuid.UUID) error {
	return s.wf.Delete(ctx, actor, id)
}

func (s *service) Get(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*ApplicationDTO, error) {
	app, err := s.wf.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return FromModel(app), nil
}

func (s *service) ListMine(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]ApplicationDTO, pagination.Meta, error) {
	rows, meta, err := s.wf.ListMine(ctx, actor, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return fromModels(rows), meta, nil
}

// Status reports the latest application and whether a new one may be filed.
func (s *service) Status(ctx context.Context, actor moderation.Actor) (*StatusDTO, error) {
	out := &StatusDTO{CanReapply: true}

	latest, err := s.wf.LatestForOwner(ctx, actor)
	switch {
	case err == nil:
		out.Application = FromModel(latest)
		out.CanReapply = latest.Status == enums.ModerationRejected && s.wf.CanReapply(latest)
		out.ReapplyNotBefore = latest.ReapplyNotBefore
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
	default:
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	switch {
	case err == nil:
		out.Role = user.Role
	case errors.Is(err, gorm.ErrRecordNotFound):
		out.Role = actor.Role
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return out, nil
}
