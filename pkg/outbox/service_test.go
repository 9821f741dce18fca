package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/outbox/payloads"
)

func newOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:outbox_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.OutboxEvent{}))
	return conn
}

func TestEmitStoresEnvelope(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)
	entityID := uuid.New()
	actor := &ActorRef{UserID: uuid.New(), Role: "admin"}

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventModerationApproved,
			AggregateType: enums.AggregateCompany,
			AggregateID:   entityID,
			Actor:         actor,
			Data: payloads.ModerationEvent{
				EntityType: enums.EntityCompany,
				EntityID:   entityID,
				Status:     enums.ModerationApproved,
				Version:    2,
			},
		})
	})
	require.NoError(t, err)

	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventModerationApproved, rows[0].EventType)
	assert.Equal(t, entityID, rows[0].AggregateID)

	var env PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &env))
	assert.Equal(t, envelopeVersion, env.Version)
	assert.NotEmpty(t, env.EventID)
	require.NotNil(t, env.Actor)
	assert.Equal(t, actor.UserID, env.Actor.UserID)

	var data payloads.ModerationEvent
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, enums.ModerationApproved, data.Status)
	assert.Equal(t, int64(2), data.Version)
}

func TestEmitRollsBackWithTransaction(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	svc := NewService(repo, nil)

	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventModerationSubmitted,
			AggregateType: enums.AggregateCertification,
			AggregateID:   uuid.New(),
			Data:          map[string]string{"k": "v"},
		}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEmitRejectsUnknownTypes(t *testing.T) {
	svc := NewService(NewRepository(newOutboxDB(t)), nil)
	err := svc.Emit(context.Background(), &gorm.DB{}, DomainEvent{EventType: "order_created", AggregateType: enums.AggregateCompany})
	require.Error(t, err)
	require.Error(t, svc.Emit(context.Background(), nil, DomainEvent{}))
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	old := models.OutboxEvent{
		EventType:     enums.EventModerationRejected,
		AggregateType: enums.AggregateSalespersonApplication,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{}`),
	}
	fresh := old
	fresh.AggregateID = uuid.New()
	require.NoError(t, repo.Insert(conn, old))
	require.NoError(t, repo.Insert(conn, fresh))

	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.MarkFailedTx(conn, rows[1].ID, errors.New("unavailable")))
	require.NoError(t, repo.MarkFailedTx(conn, rows[1].ID, errors.New("unavailable")))
	require.NoError(t, repo.MarkFailedTx(conn, rows[1].ID, errors.New("unavailable")))
	require.NoError(t, repo.MarkPublishedTx(conn, rows[0].ID))

	remaining, err := repo.FetchUnpublishedForPublish(conn, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, remaining, "published and exhausted rows are skipped")

	deleted, err := repo.DeletePublishedBefore(ctx, nil, time.Now().Add(time.Hour), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestMarkTerminalParksRow(t *testing.T) {
	conn := newOutboxDB(t)
	repo := NewRepository(conn)

	require.NoError(t, repo.Insert(conn, models.OutboxEvent{
		EventType:     enums.EventModerationSubmitted,
		AggregateType: enums.AggregateCompany,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`not-an-envelope`),
	}))
	rows, err := repo.FetchUnpublishedForPublish(conn, 10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.MarkTerminalTx(conn, rows[0].ID, errors.New("bad envelope"), 5))

	remaining, err := repo.FetchUnpublishedForPublish(conn, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	var stored models.OutboxEvent
	require.NoError(t, conn.First(&stored, "id = ?", rows[0].ID).Error)
	assert.Equal(t, 5, stored.AttemptCount)
	require.NotNil(t, stored.LastError)
	assert.Equal(t, "bad envelope", *stored.LastError)
}
