package certifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type stubWorkflow struct {
	stored   *models.Certification
	ownerArg *uuid.UUID
	edited   bool
}

func (s *stubWorkflow) Submit(_ context.Context, _ moderation.Actor, entity *models.Certification) (*models.Certification, error) {
	entity.ID = uuid.New()
	entity.Status = enums.ModerationPending
	return entity, nil
}

func (s *stubWorkflow) Edit(_ context.Context, _ moderation.Actor, _ uuid.UUID, patch func(*models.Certification) error) (*models.Certification, error) {
	if err := patch(s.stored); err != nil {
		return nil, err
	}
	s.edited = true
	return s.stored, nil
}

func (s *stubWorkflow) Delete(context.Context, moderation.Actor, uuid.UUID) error { return nil }

func (s *stubWorkflow) Get(context.Context, moderation.Actor, uuid.UUID) (*models.Certification, error) {
	return s.stored, nil
}

func (s *stubWorkflow) ListMine(context.Context, moderation.Actor, pagination.Params) ([]*models.Certification, pagination.Meta, error) {
	return nil, pagination.Meta{}, nil
}

func (s *stubWorkflow) ListPublic(_ context.Context, ownerID *uuid.UUID, _ pagination.Params) ([]*models.Certification, pagination.Meta, error) {
	s.ownerArg = ownerID
	return nil, pagination.Meta{}, nil
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func expectValidation(t *testing.T, err error) {
	t.Helper()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateValidatesDatesAndDocument(t *testing.T) {
	svc, _ := NewService(&stubWorkflow{})
	actor := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleSalesperson}

	_, err := svc.Create(context.Background(), actor, CreateCertificationInput{
		Name: "CFP", Issuer: "FPSB", IssuedOn: day(2024, 5, 1), ExpiresOn: day(2023, 5, 1),
	})
	expectValidation(t, err)

	_, err = svc.Create(context.Background(), actor, CreateCertificationInput{
		Name: "CFP", Issuer: "FPSB", Document: []byte("%PDF"),
	})
	expectValidation(t, err)

	_, err = svc.Create(context.Background(), actor, CreateCertificationInput{Name: " ", Issuer: "FPSB"})
	expectValidation(t, err)

	mime := "application/pdf"
	dto, err := svc.Create(context.Background(), actor, CreateCertificationInput{
		Name: " CFP ", Issuer: "FPSB", Document: []byte("%PDF"), DocumentMime: &mime,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "CFP" || dto.OwnerID != actor.ID {
		t.Fatalf("unexpected certification %+v", dto)
	}
}

func TestUpdateChecksMergedDates(t *testing.T) {
	stored := &models.Certification{ID: uuid.New(), Name: "CFP", Issuer: "FPSB", IssuedOn: day(2024, 5, 1)}
	wf := &stubWorkflow{stored: stored}
	svc, _ := NewService(wf)
	actor := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleSalesperson}

	_, err := svc.Update(context.Background(), actor, stored.ID, UpdateCertificationInput{ExpiresOn: day(2020, 1, 1)})
	expectValidation(t, err)
	if wf.edited {
		t.Fatal("edit must not complete when the patch is invalid")
	}

	dto, err := svc.Update(context.Background(), actor, stored.ID, UpdateCertificationInput{ExpiresOn: day(2030, 1, 1)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.ExpiresOn == nil || dto.ExpiresOn.Year() != 2030 {
		t.Fatalf("expected expires_on applied, got %v", dto.ExpiresOn)
	}
}

func TestListForOwnerScopesToOwner(t *testing.T) {
	wf := &stubWorkflow{}
	svc, _ := NewService(wf)
	owner := uuid.New()
	if _, _, err := svc.ListForOwner(context.Background(), owner, pagination.Params{}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if wf.ownerArg == nil || *wf.ownerArg != owner {
		t.Fatalf("expected owner filter %s, got %v", owner, wf.ownerArg)
	}
}
