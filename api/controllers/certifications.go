package controllers

import (
	"context"
	"net/http"

	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/api/validators"
	"github.com/kai890707/my-profile-sub000/internal/certifications"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

func CertificationCreate(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}
		handleCreate(w, r, logg, svc.Create)
	}
}

func CertificationUpdate(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}
		handleUpdate(w, r, logg, svc.Update)
	}
}

func CertificationGet(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}
		handleGet(w, r, logg, svc.Get)
	}
}

func CertificationDelete(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}
		handleDelete(w, r, logg, svc.Delete)
	}
}

func CertificationListMine(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}
		handleListMine(w, r, logg, svc.ListMine)
	}
}

// CertificationListForOwner returns a salesperson's approved certifications.
func CertificationListForOwner(svc certifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("certification"))
			return
		}

		ownerID, err := validators.ParseUUIDParam(r, "ownerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handleList(w, r, logg, func(ctx context.Context, params pagination.Params) ([]certifications.CertificationDTO, pagination.Meta, error) {
			return svc.ListForOwner(ctx, ownerID, params)
		})
	}
}
