package experiences

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
	stored    *models.Experience
	submitted int
}

func (s *stubWorkflow) Submit(_ context.Context, _ moderation.Actor, entity *models.Experience) (*models.Experience, error) {
	s.submitted++
	entity.ID = uuid.New()
	entity.Status = enums.ModerationApproved
	return entity, nil
}

func (s *stubWorkflow) Edit(_ context.Context, _ moderation.Actor, _ uuid.UUID, patch func(*models.Experience) error) (*models.Experience, error) {
	if err := patch(s.stored); err != nil {
		return nil, err
	}
	return s.stored, nil
}

func (s *stubWorkflow) Delete(context.Context, moderation.Actor, uuid.UUID) error { return nil }

func (s *stubWorkflow) Get(context.Context, moderation.Actor, uuid.UUID) (*models.Experience, error) {
	return s.stored, nil
}

func (s *stubWorkflow) ListMine(context.Context, moderation.Actor, pagination.Params) ([]*models.Experience, pagination.Meta, error) {
	return []*models.Experience{s.stored}, pagination.Meta{Total: 1}, nil
}

func (s *stubWorkflow) ListPublic(context.Context, *uuid.UUID, pagination.Params) ([]*models.Experience, pagination.Meta, error) {
	return []*models.Experience{s.stored}, pagination.Meta{Total: 1}, nil
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	wf := &stubWorkflow{}
	svc, _ := NewService(wf)
	actor := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleSalesperson}
	end := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), actor, CreateExperienceInput{
		CompanyName: "Globex",
		Title:       "AM",
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     &end,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if wf.submitted != 0 {
		t.Fatal("invalid input must not reach the workflow")
	}
}

func TestCreateReturnsPublishedRecord(t *testing.T) {
	svc, _ := NewService(&stubWorkflow{})
	actor := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleSalesperson}

	dto, err := svc.Create(context.Background(), actor, CreateExperienceInput{
		CompanyName: " Globex ",
		Title:       "Account Manager",
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.ModerationApproved {
		t.Fatalf("expected approved, got %s", dto.Status)
	}
	if dto.CompanyName != "Globex" {
		t.Fatalf("expected trimmed company name, got %q", dto.CompanyName)
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	stored := &models.Experience{ID: uuid.New(), CompanyName: "Globex", Title: "AM", StartDate: time.Now()}
	svc, _ := NewService(&stubWorkflow{stored: stored})
	blank := "  "
	_, err := svc.Update(context.Background(), moderation.Actor{}, stored.ID, UpdateExperienceInput{Title: &blank})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
