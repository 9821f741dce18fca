package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/applications"
	"github.com/kai890707/my-profile-sub000/internal/companies"
	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/internal/users"
	"github.com/kai890707/my-profile-sub000/pkg/config"
	"github.com/kai890707/my-profile-sub000/pkg/db"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/migrate"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.AutoMigrateModels(conn))

	a, err := New(Params{
		Config: config.ModerationConfig{ApplicationCooldown: 7 * 24 * time.Hour, PendingMaxWindow: 1000},
		DB:     conn,
		Tx:     db.NewFromConn(conn),
		Logger: logger.New(logger.Options{ServiceName: "app-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return a
}

func TestNewRequiresDatabase(t *testing.T) {
	_, err := New(Params{Logger: logger.New(logger.Options{Output: io.Discard})})
	require.Error(t, err)
}

func TestApplicationApprovalPromotesUser(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	userID := uuid.New()
	_, err := a.Users.Create(ctx, users.CreateUserDTO{ID: userID, Email: "Amy@Example.com", DisplayName: "Amy"})
	require.NoError(t, err)

	applicant := moderation.Actor{ID: userID, Role: enums.UserRoleUser}
	admin := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}

	app, err := a.Applications.Create(ctx, applicant, applications.CreateApplicationInput{FullName: "Amy Chen"})
	require.NoError(t, err)
	require.Equal(t, enums.ModerationPending, app.Status)

	counts, err := a.Aggregator.Counts(ctx, admin)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.ByType[enums.EntitySalespersonApplication])

	_, err = a.Registry.Decide(ctx, admin, enums.EntitySalespersonApplication, app.ID, moderation.Decision{Kind: moderation.DecisionApprove})
	require.NoError(t, err)

	status, err := a.Applications.Status(ctx, applicant)
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleSalesperson, status.Role)
	require.Equal(t, enums.ModerationApproved, status.Application.Status)
}

func TestCompanyFlowThroughAggregator(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	owner := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleSalesperson}
	admin := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}

	company, err := a.Companies.Create(ctx, owner, companies.CreateCompanyInput{Name: "Acme", TaxID: "12345678"})
	require.NoError(t, err)

	items, meta, err := a.Aggregator.ListPending(ctx, admin, nil, pagination.Params{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 1, meta.Total)
	require.Equal(t, company.ID, items[0].EntityID)

	public, _, err := a.Companies.ListPublic(ctx, pagination.Params{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Empty(t, public)

	_, err = a.Registry.Decide(ctx, admin, enums.EntityCompany, company.ID, moderation.Decision{Kind: moderation.DecisionApprove, ExpectedVersion: company.Version})
	require.NoError(t, err)

	public, _, err = a.Companies.ListPublic(ctx, pagination.Params{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, public, 1)
}
