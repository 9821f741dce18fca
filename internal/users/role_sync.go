package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/outbox"
	"github.com/kai890707/my-profile-sub000/pkg/outbox/payloads"
)

type roleRepository interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.User, error)
	UpdateRoleWithTx(tx *gorm.DB, id uuid.UUID, role enums.UserRole) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RoleSync keeps users.role in step with salesperson application decisions.
// It runs inside the decision transaction.
type RoleSync struct {
	repo   roleRepository
	outbox eventEmitter
	logg   *logger.Logger
}

func NewRoleSync(repo roleRepository, emitter eventEmitter, logg *logger.Logger) (*RoleSync, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &RoleSync{repo: repo, outbox: emitter, logg: logg}, nil
}

// AfterApplicationDecision promotes the applicant on approval and demotes on
// rejection. Admin accounts are left alone.
func (s *RoleSync) AfterApplicationDecision(ctx context.Context, tx *gorm.DB, app *models.SalespersonApplication, admin moderation.Actor, kind moderation.DecisionKind) error {
	user, err := s.repo.FindByIDWithTx(tx, app.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "applicant account not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load applicant")
	}
	if user.Role == enums.UserRoleAdmin {
		return nil
	}

	target := enums.UserRoleUser
	if kind == moderation.DecisionApprove {
		target = enums.UserRoleSalesperson
	}
	if user.Role == target {
		return nil
	}

	if err := s.repo.UpdateRoleWithTx(tx, user.ID, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update applicant role")
	}
	if s.outbox != nil {
		err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventUserRoleChanged,
			AggregateType: enums.AggregateUser,
			AggregateID:   user.ID,
			Actor:         &outbox.ActorRef{UserID: admin.ID, Role: string(admin.Role)},
			Data: payloads.UserRoleChangedEvent{
				UserID:        user.ID,
				From:          user.Role,
				To:            target,
				ApplicationID: app.ID,
			},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue role change event")
		}
	}

	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, user.ID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{"from": user.Role, "to": target})
		s.logg.Info(logCtx, "user.role_changed")
	}
	return nil
}
