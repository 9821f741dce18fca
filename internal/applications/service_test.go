package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type stubWorkflow struct {
	latest     *models.SalespersonApplication
	latestErr  error
	canReapply bool
}

func (s *stubWorkflow) Submit(_ context.Context, _ moderation.Actor, entity *models.SalespersonApplication) (*models.SalespersonApplication, error) {
	entity.ID = uuid.New()
	entity.Status = enums.ModerationPending
	return entity, nil
}

func (s *stubWorkflow) Edit(_ context.Context, _ moderation.Actor, _ uuid.UUID, patch func(*models.SalespersonApplication) error) (*models.SalespersonApplication, error) {
	if err := patch(s.latest); err != nil {
		return nil, err
	}
	return s.latest, nil
}

func (s *stubWorkflow) Delete(context.Context, moderation.Actor, uuid.UUID) error { return nil }

func (s *stubWorkflow) Get(context.Context, moderation.Actor, uuid.UUID) (*models.SalespersonApplication, error) {
	return s.latest, nil
}

func (s *stubWorkflow) ListMine(context.Context, moderation.Actor, pagination.Params) ([]*models.SalespersonApplication, pagination.Meta, error) {
	return nil, pagination.Meta{}, nil
}

func (s *stubWorkflow) LatestForOwner(context.Context, moderation.Actor) (*models.SalespersonApplication, error) {
	return s.latest, s.latestErr
}

func (s *stubWorkflow) CanReapply(*models.SalespersonApplication) bool { return s.canReapply }

type stubUsers struct {
	user *models.User
	err  error
}

func (s stubUsers) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func applicant() moderation.Actor {
	return moderation.Actor{ID: uuid.New(), Role: enums.UserRoleUser}
}

func TestStatusWithoutApplication(t *testing.T) {
	wf := &stubWorkflow{latestErr: pkgerrors.New(pkgerrors.CodeNotFound, "salesperson_application not found")}
	svc, _ := NewService(wf, stubUsers{err: gorm.ErrRecordNotFound})
	actor := applicant()

	status, err := svc.Status(context.Background(), actor)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Application != nil || !status.CanReapply {
		t.Fatalf("expected empty status that allows applying, got %+v", status)
	}
	if status.Role != enums.UserRoleUser {
		t.Fatalf("expected role from token, got %s", status.Role)
	}
}

func TestStatusDuringCooldown(t *testing.T) {
	until := time.Now().Add(72 * time.Hour)
	reason := "incomplete"
	latest := &models.SalespersonApplication{ID: uuid.New(), FullName: "Chen Wei"}
	latest.Status = enums.ModerationRejected
	latest.RejectionReason = &reason
	latest.ReapplyNotBefore = &until
	wf := &stubWorkflow{latest: latest, canReapply: false}
	svc, _ := NewService(wf, stubUsers{user: &models.User{Role: enums.UserRoleUser}})

	status, err := svc.Status(context.Background(), applicant())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CanReapply {
		t.Fatal("expected can_reapply=false during cooldown")
	}
	if status.ReapplyNotBefore == nil || !status.ReapplyNotBefore.Equal(until) {
		t.Fatalf("expected reapply_not_before %s, got %v", until, status.ReapplyNotBefore)
	}
	if status.Application.RejectionReason == nil || *status.Application.RejectionReason != reason {
		t.Fatal("expected rejection reason in status")
	}

	wf.canReapply = true
	status, _ = svc.Status(context.Background(), applicant())
	if !status.CanReapply {
		t.Fatal("expected can_reapply=true after cooldown")
	}
}

func TestStatusPendingCannotReapply(t *testing.T) {
	latest := &models.SalespersonApplication{ID: uuid.New()}
	latest.Status = enums.ModerationPending
	svc, _ := NewService(&stubWorkflow{latest: latest, canReapply: true}, stubUsers{user: &models.User{Role: enums.UserRoleUser}})

	status, err := svc.Status(context.Background(), applicant())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.CanReapply {
		t.Fatal("an open application blocks reapplying")
	}
}

func TestStatusDependencyFailure(t *testing.T) {
	wf := &stubWorkflow{latestErr: pkgerrors.New(pkgerrors.CodeNotFound, "none")}
	svc, _ := NewService(wf, stubUsers{err: errors.New("connection reset")})
	_, err := svc.Status(context.Background(), applicant())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := NewService(&stubWorkflow{}, stubUsers{})
	_, err := svc.Create(context.Background(), applicant(), CreateApplicationInput{FullName: "  "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	dto, err := svc.Create(context.Background(), applicant(), CreateApplicationInput{FullName: " Chen Wei "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.FullName != "Chen Wei" || dto.Status != enums.ModerationPending {
		t.Fatalf("unexpected application %+v", dto)
	}
}
