package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kai890707/my-profile-sub000/api/controllers"
	"github.com/kai890707/my-profile-sub000/api/middleware"
	"github.com/kai890707/my-profile-sub000/internal/applications"
	"github.com/kai890707/my-profile-sub000/internal/certifications"
	"github.com/kai890707/my-profile-sub000/internal/companies"
	"github.com/kai890707/my-profile-sub000/internal/experiences"
	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/internal/profiles"
	"github.com/kai890707/my-profile-sub000/pkg/config"
	"github.com/kai890707/my-profile-sub000/pkg/db"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/redis"
)

// Services groups everything the HTTP surface dispatches to.
type Services struct {
	Companies      companies.Service
	Profiles       profiles.Service
	Certifications certifications.Service
	Experiences    experiences.Service
	Applications   applications.Service
	Aggregator     *moderation.Aggregator
	Registry       *moderation.Registry
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	ready := map[string]controllers.Pinger{}
	if dbP != nil {
		ready["database"] = dbP
	}
	if redisP != nil {
		ready["redis"] = redisP
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Get("/companies", controllers.CompanyListPublic(svcs.Companies, logg))
		r.Get("/companies/{id}", controllers.CompanyGet(svcs.Companies, logg))
		r.Get("/profiles", controllers.ProfileListPublic(svcs.Profiles, logg))
		r.Get("/profiles/{id}", controllers.ProfileGet(svcs.Profiles, logg))
		r.Get("/salespeople/{ownerID}/certifications", controllers.CertificationListForOwner(svcs.Certifications, logg))
		r.Get("/salespeople/{ownerID}/experiences", controllers.ExperienceListForOwner(svcs.Experiences, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", controllers.CompanyListMine(svcs.Companies, logg))
			r.Post("/", controllers.CompanyCreate(svcs.Companies, logg))
			r.Get("/{id}", controllers.CompanyGet(svcs.Companies, logg))
			r.Patch("/{id}", controllers.CompanyUpdate(svcs.Companies, logg))
			r.Delete("/{id}", controllers.CompanyDelete(svcs.Companies, logg))
		})
		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", controllers.ProfileListMine(svcs.Profiles, logg))
			r.Post("/", controllers.ProfileCreate(svcs.Profiles, logg))
			r.Get("/{id}", controllers.ProfileGet(svcs.Profiles, logg))
			r.Patch("/{id}", controllers.ProfileUpdate(svcs.Profiles, logg))
			r.Delete("/{id}", controllers.ProfileDelete(svcs.Profiles, logg))
		})
		r.Route("/certifications", func(r chi.Router) {
			r.Get("/", controllers.CertificationListMine(svcs.Certifications, logg))
			r.Post("/", controllers.CertificationCreate(svcs.Certifications, logg))
			r.Get("/{id}", controllers.CertificationGet(svcs.Certifications, logg))
			r.Patch("/{id}", controllers.CertificationUpdate(svcs.Certifications, logg))
			r.Delete("/{id}", controllers.CertificationDelete(svcs.Certifications, logg))
		})
		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", controllers.ExperienceListMine(svcs.Experiences, logg))
			r.Post("/", controllers.ExperienceCreate(svcs.Experiences, logg))
			r.Get("/{id}", controllers.ExperienceGet(svcs.Experiences, logg))
			r.Patch("/{id}", controllers.ExperienceUpdate(svcs.Experiences, logg))
			r.Delete("/{id}", controllers.ExperienceDelete(svcs.Experiences, logg))
		})
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", controllers.ApplicationListMine(svcs.Applications, logg))
			r.Post("/", controllers.ApplicationCreate(svcs.Applications, logg))
			r.Get("/me", controllers.ApplicationStatus(svcs.Applications, logg))
			r.Get("/{id}", controllers.ApplicationGet(svcs.Applications, logg))
			r.Patch("/{id}", controllers.ApplicationUpdate(svcs.Applications, logg))
			r.Delete("/{id}", controllers.ApplicationDelete(svcs.Applications, logg))
		})
	})

	var pending controllers.PendingReader
	if svcs.Aggregator != nil {
		pending = svcs.Aggregator
	}
	var decisions controllers.Decider
	if svcs.Registry != nil {
		decisions = svcs.Registry
	}

	r.Route("/api/admin/v1/moderation", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
		r.Get("/pending", controllers.ModerationPending(pending, logg))
		r.Get("/counts", controllers.ModerationCounts(pending, logg))
		r.Post("/{entityType}/{id}/approve", controllers.ModerationApprove(decisions, logg))
		r.Post("/{entityType}/{id}/reject", controllers.ModerationReject(decisions, logg))
	})

	return r
}
