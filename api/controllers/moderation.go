package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/api/middleware"
	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/api/validators"
	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

// PendingReader is the admin worklist surface.
type PendingReader interface {
	ListPending(ctx context.Context, admin moderation.Actor, filter *enums.EntityType, params pagination.Params) ([]moderation.PendingItem, pagination.Meta, error)
	Counts(ctx context.Context, admin moderation.Actor) (moderation.Counts, error)
}

// Decider approves or rejects a record by type and id.
type Decider interface {
	Decide(ctx context.Context, admin moderation.Actor, entityType enums.EntityType, id uuid.UUID, d moderation.Decision) (models.Moderatable, error)
}

type approveRequest struct {
	Version int64 `json:"version,omitempty" validate:"omitempty,min=1"`
}

type rejectRequest struct {
	Reason  string `json:"reason" validate:"required,max=500"`
	Version int64  `json:"version,omitempty" validate:"omitempty,min=1"`
}

// ModerationPending lists the pending worklist, optionally filtered by
// ?entity_type=.
func ModerationPending(svc PendingReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}

		filter, err := moderation.ParsePendingFilter(r.URL.Query().Get("entity_type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.ListPending(r.Context(), middleware.ActorFromContext(r.Context()), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, items, meta)
	}
}

func ModerationCounts(svc PendingReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}

		counts, err := svc.Counts(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}

// ModerationApprove approves one record. The body is optional; when present
// its version must match the current ledger version.
func ModerationApprove(svc Decider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}

		var payload approveRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil && !errors.Is(err, io.EOF) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		decide(w, r, logg, svc, moderation.Decision{
			Kind:            moderation.DecisionApprove,
			ExpectedVersion: payload.Version,
		})
	}
}

func ModerationReject(svc Decider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}

		var payload rejectRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decide(w, r, logg, svc, moderation.Decision{
			Kind:            moderation.DecisionReject,
			Reason:          validators.SanitizeString(payload.Reason, 500),
			ExpectedVersion: payload.Version,
		})
	}
}

func decide(w http.ResponseWriter, r *http.Request, logg *logger.Logger, svc Decider, d moderation.Decision) {
	entityType, err := enums.ParseEntityType(chi.URLParam(r, "entityType"))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity type"))
		return
	}

	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	entity, err := svc.Decide(r.Context(), middleware.ActorFromContext(r.Context()), entityType, id, d)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, moderation.DecisionResultFromModel(entity))
}
