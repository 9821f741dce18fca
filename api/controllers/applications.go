package controllers

import (
	"net/http"

	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/internal/applications"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
)

// ApplicationCreate opens a salesperson upgrade request.
func ApplicationCreate(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}
		handleCreate(w, r, logg, svc.Create)
	}
}

func ApplicationUpdate(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}
		handleUpdate(w, r, logg, svc.Update)
	}
}

func ApplicationGet(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}
		handleGet(w, r, logg, svc.Get)
	}
}

func ApplicationDelete(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}
		handleDelete(w, r, logg, svc.Delete)
	}
}

func ApplicationListMine(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}
		handleListMine(w, r, logg, svc.ListMine)
	}
}

// ApplicationStatus reports the caller's latest application and whether a new
// one may be filed.
func ApplicationStatus(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("application"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := svc.Status(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
