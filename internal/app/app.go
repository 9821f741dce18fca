// Package app wires the moderation workflows and the services built on them.
// The API and the cron worker share this graph.
package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/applications"
	"github.com/kai890707/my-profile-sub000/internal/certifications"
	"github.com/kai890707/my-profile-sub000/internal/companies"
	"github.com/kai890707/my-profile-sub000/internal/experiences"
	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/internal/profiles"
	"github.com/kai890707/my-profile-sub000/internal/users"
	"github.com/kai890707/my-profile-sub000/pkg/config"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/metrics"
	"github.com/kai890707/my-profile-sub000/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Params struct {
	Config  config.ModerationConfig
	DB      *gorm.DB
	Tx      txRunner
	Counts  moderation.CountCache
	Metrics *metrics.ModerationMetrics
	Logger  *logger.Logger
	// Clock overrides the engine time source; nil uses UTC wall time.
	Clock func() time.Time
}

type App struct {
	Users          *users.Repository
	Companies      companies.Service
	Profiles       profiles.Service
	Certifications certifications.Service
	Experiences    experiences.Service
	Applications   applications.Service
	Registry       *moderation.Registry
	Aggregator     *moderation.Aggregator
}

func New(p Params) (*App, error) {
	if p.DB == nil || p.Tx == nil {
		return nil, fmt.Errorf("database required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	outboxSvc := outbox.NewService(outbox.NewRepository(p.DB), p.Logger)
	deps := moderation.Deps{
		Tx:      p.Tx,
		Engine:  moderation.NewEngine(p.Clock),
		Outbox:  outboxSvc,
		Metrics: p.Metrics,
		Counts:  p.Counts,
		Logger:  p.Logger,
	}

	userRepo := users.NewRepository(p.DB)
	roleSync, err := users.NewRoleSync(userRepo, outboxSvc, p.Logger)
	if err != nil {
		return nil, err
	}

	companyWF, err := moderation.Build[models.Company](deps, p.DB, moderation.CompanyPolicy(), nil)
	if err != nil {
		return nil, fmt.Errorf("company workflow: %w", err)
	}
	profileWF, err := moderation.Build[models.SalespersonProfile](deps, p.DB, moderation.SalespersonProfilePolicy(), nil)
	if err != nil {
		return nil, fmt.Errorf("profile workflow: %w", err)
	}
	certWF, err := moderation.Build[models.Certification](deps, p.DB, moderation.CertificationPolicy(), nil)
	if err != nil {
		return nil, fmt.Errorf("certification workflow: %w", err)
	}
	expWF, err := moderation.Build[models.Experience](deps, p.DB, moderation.ExperiencePolicy(), nil)
	if err != nil {
		return nil, fmt.Errorf("experience workflow: %w", err)
	}
	appWF, err := moderation.Build[models.SalespersonApplication](deps, p.DB, moderation.SalespersonApplicationPolicy(p.Config.ApplicationCooldown), roleSync.AfterApplicationDecision)
	if err != nil {
		return nil, fmt.Errorf("application workflow: %w", err)
	}

	a := &App{Users: userRepo}
	if a.Companies, err = companies.NewService(companyWF); err != nil {
		return nil, err
	}
	if a.Profiles, err = profiles.NewService(profileWF, companyWF); err != nil {
		return nil, err
	}
	if a.Certifications, err = certifications.NewService(certWF); err != nil {
		return nil, err
	}
	if a.Experiences, err = experiences.NewService(expWF); err != nil {
		return nil, err
	}
	if a.Applications, err = applications.NewService(appWF, userRepo); err != nil {
		return nil, err
	}

	a.Registry, err = moderation.NewRegistry(companyWF, profileWF, certWF, expWF, appWF)
	if err != nil {
		return nil, err
	}
	a.Aggregator = moderation.NewAggregator(moderation.AggregatorParams{
		Registry:  a.Registry,
		Counts:    p.Counts,
		MaxWindow: p.Config.PendingMaxWindow,
		Metrics:   p.Metrics,
		Logger:    p.Logger,
	})
	return a, nil
}
