package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

type stubPendingReader struct {
	items     []moderation.PendingItem
	counts    moderation.Counts
	err       error
	gotFilter *enums.EntityType
	gotParams pagination.Params
}

func (s *stubPendingReader) ListPending(ctx context.Context, admin moderation.Actor, filter *enums.EntityType, params pagination.Params) ([]moderation.PendingItem, pagination.Meta, error) {
	s.gotFilter, s.gotParams = filter, params
	return s.items, pagination.NewMeta(params, int64(len(s.items))), s.err
}

func (s *stubPendingReader) Counts(ctx context.Context, admin moderation.Actor) (moderation.Counts, error) {
	return s.counts, s.err
}

type stubDecider struct {
	entity      models.Moderatable
	err         error
	gotType     enums.EntityType
	gotID       uuid.UUID
	gotDecision moderation.Decision
}

func (s *stubDecider) Decide(ctx context.Context, admin moderation.Actor, entityType enums.EntityType, id uuid.UUID, d moderation.Decision) (models.Moderatable, error) {
	s.gotType, s.gotID, s.gotDecision = entityType, id, d
	return s.entity, s.err
}

func decidedCompany(id uuid.UUID, status enums.ModerationStatus) *models.Company {
	now := time.Now().UTC()
	c := &models.Company{ID: id, OwnerID: uuid.New(), Name: "Acme", TaxID: "12345678"}
	c.Ledger.Status = status
	c.Ledger.SubmittedAt = now
	c.Ledger.Version = 2
	return c
}

func TestModerationPendingFilter(t *testing.T) {
	svc := &stubPendingReader{items: []moderation.PendingItem{{EntityType: enums.EntityCertification, EntityID: uuid.New()}}}
	req, _ := withActor(httptest.NewRequest(http.MethodGet, "/api/admin/v1/moderation/pending?entity_type=certification&page=1&page_size=5", nil), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	ModerationPending(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotFilter == nil || *svc.gotFilter != enums.EntityCertification {
		t.Fatalf("expected certification filter, got %v", svc.gotFilter)
	}
	if svc.gotParams.PageSize != 5 {
		t.Fatalf("expected page size 5 got %d", svc.gotParams.PageSize)
	}
}

func TestModerationPendingInvalidFilter(t *testing.T) {
	req, _ := withActor(httptest.NewRequest(http.MethodGet, "/api/admin/v1/moderation/pending?entity_type=invoice", nil), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	ModerationPending(&stubPendingReader{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestModerationCounts(t *testing.T) {
	svc := &stubPendingReader{counts: moderation.Counts{
		ByType: map[enums.EntityType]int64{enums.EntityCompany: 2},
		Total:  2,
	}}
	req, _ := withActor(httptest.NewRequest(http.MethodGet, "/api/admin/v1/moderation/counts", nil), enums.UserRoleAdmin)
	rec := httptest.NewRecorder()

	ModerationCounts(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data moderation.Counts `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 2 || envelope.Data.ByType[enums.EntityCompany] != 2 {
		t.Fatalf("unexpected counts %+v", envelope.Data)
	}
}

func TestModerationApproveWithoutBody(t *testing.T) {
	id := uuid.New()
	svc := &stubDecider{entity: decidedCompany(id, enums.ModerationApproved)}
	req, _ := withActor(httptest.NewRequest(http.MethodPost, "/api/admin/v1/moderation/company/"+id.String()+"/approve", nil), enums.UserRoleAdmin)
	req = withURLParams(req, "entityType", "company", "id", id.String())
	rec := httptest.NewRecorder()

	ModerationApprove(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotType != enums.EntityCompany || svc.gotID != id {
		t.Fatalf("unexpected target %s/%s", svc.gotType, svc.gotID)
	}
	if svc.gotDecision.Kind != moderation.DecisionApprove || svc.gotDecision.ExpectedVersion != 0 {
		t.Fatalf("unexpected decision %+v", svc.gotDecision)
	}

	var envelope struct {
		Data moderation.DecisionResultDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EntityID != id || envelope.Data.Status != enums.ModerationApproved {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
}

func TestModerationApproveVersionToken(t *testing.T) {
	id := uuid.New()
	svc := &stubDecider{err: pkgerrors.New(pkgerrors.CodeConflict, "record changed")}
	req, _ := withActor(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"version":1}`)), enums.UserRoleAdmin)
	req = withURLParams(req, "entityType", "company", "id", id.String())
	rec := httptest.NewRecorder()

	ModerationApprove(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.gotDecision.ExpectedVersion != 1 {
		t.Fatalf("expected version 1 got %d", svc.gotDecision.ExpectedVersion)
	}
}

func TestModerationRejectRequiresReason(t *testing.T) {
	id := uuid.New()
	svc := &stubDecider{}
	req, _ := withActor(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)), enums.UserRoleAdmin)
	req = withURLParams(req, "entityType", "company", "id", id.String())
	rec := httptest.NewRecorder()

	ModerationReject(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.gotID != uuid.Nil {
		t.Fatal("decider should not be called")
	}
}

func TestModerationRejectPassesReason(t *testing.T) {
	id := uuid.New()
	svc := &stubDecider{entity: decidedCompany(id, enums.ModerationRejected)}
	req, _ := withActor(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reason":"統編重複","version":1}`)), enums.UserRoleAdmin)
	req = withURLParams(req, "entityType", "company", "id", id.String())
	rec := httptest.NewRecorder()

	ModerationReject(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotDecision.Kind != moderation.DecisionReject || svc.gotDecision.Reason != "統編重複" {
		t.Fatalf("unexpected decision %+v", svc.gotDecision)
	}
}

func TestModerationDecideUnknownType(t *testing.T) {
	id := uuid.New()
	req, _ := withActor(httptest.NewRequest(http.MethodPost, "/", nil), enums.UserRoleAdmin)
	req = withURLParams(req, "entityType", "invoice", "id", id.String())
	rec := httptest.NewRecorder()

	ModerationApprove(&stubDecider{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
