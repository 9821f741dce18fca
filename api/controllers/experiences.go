package controllers

import (
	"context"
	"net/http"

	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/api/validators"
	"github.com/kai890707/my-profile-sub000/internal/experiences"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

// ExperienceCreate records a work history entry. Experiences publish immediately.
func ExperienceCreate(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}
		handleCreate(w, r, logg, svc.Create)
	}
}

func ExperienceUpdate(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}
		handleUpdate(w, r, logg, svc.Update)
	}
}

func ExperienceGet(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}
		handleGet(w, r, logg, svc.Get)
	}
}

func ExperienceDelete(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}
		handleDelete(w, r, logg, svc.Delete)
	}
}

func ExperienceListMine(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}
		handleListMine(w, r, logg, svc.ListMine)
	}
}

// ExperienceListForOwner returns a salesperson's approved experiences.
func ExperienceListForOwner(svc experiences.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("experience"))
			return
		}

		ownerID, err := validators.ParseUUIDParam(r, "ownerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handleList(w, r, logg, func(ctx context.Context, params pagination.Params) ([]experiences.ExperienceDTO, pagination.Meta, error) {
			return svc.ListForOwner(ctx, ownerID, params)
		})
	}
}
