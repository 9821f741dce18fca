package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/api/middleware"
	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/api/validators"
	"github.com/kai890707/my-profile-sub000/internal/moderation"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

// The per-type controllers share these flows. Each one resolves the actor,
// parses the request and hands off to the service method it was given.

type (
	createFunc[I, D any] func(ctx context.Context, actor moderation.Actor, input I) (*D, error)
	updateFunc[I, D any] func(ctx context.Context, actor moderation.Actor, id uuid.UUID, input I) (*D, error)
	getFunc[D any]       func(ctx context.Context, viewer moderation.Actor, id uuid.UUID) (*D, error)
	deleteFunc           func(ctx context.Context, actor moderation.Actor, id uuid.UUID) error
	listMineFunc[D any]  func(ctx context.Context, actor moderation.Actor, params pagination.Params) ([]D, pagination.Meta, error)
	listFunc[D any]      func(ctx context.Context, params pagination.Params) ([]D, pagination.Meta, error)
)

func requireActor(r *http.Request) (moderation.Actor, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.ID == uuid.Nil {
		return moderation.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return actor, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}

func handleCreate[I, D any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, create createFunc[I, D]) {
	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	var input I
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	dto, err := create(r.Context(), actor, input)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, dto)
}

func handleUpdate[I, D any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, update updateFunc[I, D]) {
	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	var input I
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	dto, err := update(r.Context(), actor, id, input)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func handleGet[D any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, get getFunc[D]) {
	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	// anonymous viewers only ever see approved rows
	dto, err := get(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func handleDelete(w http.ResponseWriter, r *http.Request, logg *logger.Logger, del deleteFunc) {
	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	id, err := validators.ParseUUIDParam(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	if err := del(r.Context(), actor, id); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteNoContent(w)
}

func handleListMine[D any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, list listMineFunc[D]) {
	actor, err := requireActor(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	params, err := validators.ParsePagination(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	items, meta, err := list(r.Context(), actor, params)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WritePage(w, items, meta)
}

func handleList[D any](w http.ResponseWriter, r *http.Request, logg *logger.Logger, list listFunc[D]) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	items, meta, err := list(r.Context(), params)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WritePage(w, items, meta)
}
