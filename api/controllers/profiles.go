package controllers

import (
	"net/http"

	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/internal/profiles"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
)

// ProfileCreate submits the caller's salesperson profile.
func ProfileCreate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleCreate(w, r, logg, svc.Create)
	}
}

func ProfileUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleUpdate(w, r, logg, svc.Update)
	}
}

func ProfileGet(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleGet(w, r, logg, svc.Get)
	}
}

func ProfileDelete(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleDelete(w, r, logg, svc.Delete)
	}
}

func ProfileListMine(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleListMine(w, r, logg, svc.ListMine)
	}
}

// ProfileListPublic returns approved salesperson profiles only.
func ProfileListPublic(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("profile"))
			return
		}
		handleList(w, r, logg, svc.ListPublic)
	}
}
