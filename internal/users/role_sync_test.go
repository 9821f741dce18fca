package users

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/internal/moderation"
	"github.com/kai890707/my-profile-sub000/pkg/db"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
	"github.com/kai890707/my-profile-sub000/pkg/logger"
	"github.com/kai890707/my-profile-sub000/pkg/migrate"
	"github.com/kai890707/my-profile-sub000/pkg/outbox"
)

type applicationFixture struct {
	conn     *gorm.DB
	repo     *Repository
	workflow *moderation.Workflow[models.SalespersonApplication, *models.SalespersonApplication]
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:users_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.AutoMigrateModels(conn))

	logg := logger.New(logger.Options{ServiceName: "users-test", Output: io.Discard})
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	repo := NewRepository(conn)
	sync, err := NewRoleSync(repo, emitter, logg)
	require.NoError(t, err)

	wf, err := moderation.Build(moderation.Deps{
		Tx:     db.NewFromConn(conn),
		Outbox: emitter,
		Logger: logg,
	}, conn, moderation.SalespersonApplicationPolicy(time.Hour), sync.AfterApplicationDecision)
	require.NoError(t, err)
	return &applicationFixture{conn: conn, repo: repo, workflow: wf}
}

func (f *applicationFixture) seedUser(t *testing.T, role enums.UserRole) *models.User {
	t.Helper()
	user, err := f.repo.Create(context.Background(), CreateUserDTO{
		Email:       uuid.NewString() + "@example.com",
		DisplayName: "Applicant",
		Role:        role,
	})
	require.NoError(t, err)
	return user
}

func (f *applicationFixture) apply(t *testing.T, user *models.User) *models.SalespersonApplication {
	t.Helper()
	app, err := f.workflow.Submit(context.Background(), moderation.Actor{ID: user.ID, Role: user.Role}, &models.SalespersonApplication{
		OwnerID:  user.ID,
		FullName: user.DisplayName,
	})
	require.NoError(t, err)
	return app
}

func TestApproveApplicationPromotesUser(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	admin := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
	user := f.seedUser(t, enums.UserRoleUser)
	app := f.apply(t, user)

	_, err := f.workflow.Approve(ctx, admin, app.ID, 0)
	require.NoError(t, err)

	stored, err := f.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleSalesperson, stored.Role)

	var events int64
	require.NoError(t, f.conn.Model(&models.OutboxEvent{}).
		Where("event_type = ? AND aggregate_id = ?", enums.EventUserRoleChanged, user.ID).
		Count(&events).Error)
	assert.Equal(t, int64(1), events)

	_, err = f.workflow.Reject(ctx, admin, app.ID, "license expired", 0)
	require.NoError(t, err)
	stored, err = f.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleUser, stored.Role)
}

func TestRejectApplicationKeepsUserRole(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	admin := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
	user := f.seedUser(t, enums.UserRoleUser)
	app := f.apply(t, user)

	_, err := f.workflow.Reject(ctx, admin, app.ID, "incomplete", 0)
	require.NoError(t, err)

	stored, err := f.repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleUser, stored.Role)
}

func TestMissingApplicantRollsBackDecision(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	admin := moderation.Actor{ID: uuid.New(), Role: enums.UserRoleAdmin}
	ghost := &models.User{ID: uuid.New(), DisplayName: "Ghost", Role: enums.UserRoleUser}
	app := f.apply(t, ghost)

	_, err := f.workflow.Approve(ctx, admin, app.ID, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	stored, err := f.workflow.Get(ctx, admin, app.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ModerationPending, stored.Status)
}

func TestUpdateRoleWithTxMissingUser(t *testing.T) {
	f := newApplicationFixture(t)
	err := f.conn.Transaction(func(tx *gorm.DB) error {
		return f.repo.UpdateRoleWithTx(tx, uuid.New(), enums.UserRoleSalesperson)
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateUserDTODefaults(t *testing.T) {
	m := CreateUserDTO{Email: "  Mei@Example.com ", DisplayName: " Mei "}.ToModel()
	assert.Equal(t, "mei@example.com", m.Email)
	assert.Equal(t, "Mei", m.DisplayName)
	assert.Equal(t, enums.UserRoleUser, m.Role)
}
