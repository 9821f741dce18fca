package controllers

import (
	"net/http"

	"github.com/kai890707/my-profile-sub000/api/responses"
	"github.com/kai890707/my-profile-sub000/internal/companies"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
)

// CompanyCreate registers the caller's company and queues it for review.
func CompanyCreate(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleCreate(w, r, logg, svc.Create)
	}
}

func CompanyUpdate(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleUpdate(w, r, logg, svc.Update)
	}
}

func CompanyGet(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleGet(w, r, logg, svc.Get)
	}
}

func CompanyDelete(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleDelete(w, r, logg, svc.Delete)
	}
}

func CompanyListMine(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleListMine(w, r, logg, svc.ListMine)
	}
}

// CompanyListPublic returns approved companies only.
func CompanyListPublic(svc companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("company"))
			return
		}
		handleList(w, r, logg, svc.ListPublic)
	}
}
