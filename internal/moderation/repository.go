package moderation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/pagination"
)

// Record constrains P to be a pointer to a moderatable gorm model T.
type Record[T any] interface {
	*T
	models.Moderatable
}

// Repository is the gorm store shared by every moderated table. It only
// relies on the owner_id and ledger columns.
type Repository[T any, P Record[T]] struct {
	db *gorm.DB
}

func NewRepository[T any, P Record[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db}
}

func (r *Repository[T, P]) CreateWithTx(tx *gorm.DB, entity P) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(entity).Error
}

func (r *Repository[T, P]) FindByID(ctx context.Context, id uuid.UUID) (P, error) {
	return r.FindByIDWithTx(r.db.WithContext(ctx), id)
}

func (r *Repository[T, P]) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (P, error) {
	var entity T
	if err := tx.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return P(&entity), nil
}

func (r *Repository[T, P]) FindLatestByOwner(ctx context.Context, ownerID uuid.UUID) (P, error) {
	return r.FindLatestByOwnerWithTx(r.db.WithContext(ctx), ownerID)
}

// FindLatestByOwnerWithTx returns the owner's most recent row, or nil when
// the owner has none.
func (r *Repository[T, P]) FindLatestByOwnerWithTx(tx *gorm.DB, ownerID uuid.UUID) (P, error) {
	var rows []T
	err := tx.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("submitted_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return P(&rows[0]), nil
}

// ListByOwner returns every row the owner holds, any status, newest first.
func (r *Repository[T, P]) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]P, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T)).Where("owner_id = ?", ownerID)
	return r.page(q, params)
}

// ListApproved returns published rows, optionally for a single owner.
func (r *Repository[T, P]) ListApproved(ctx context.Context, ownerID *uuid.UUID, params pagination.Params) ([]P, int64, error) {
	q := r.db.WithContext(ctx).Model(new(T)).Where("status = ?", enums.ModerationApproved)
	if ownerID != nil {
		q = q.Where("owner_id = ?", *ownerID)
	}
	return r.page(q, params)
}

func (r *Repository[T, P]) page(q *gorm.DB, params pagination.Params) ([]P, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []T
	err := q.Order("submitted_at DESC").
		Order("id DESC").
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return toPointers[T, P](rows), total, nil
}

// CountPending counts rows awaiting review.
func (r *Repository[T, P]) CountPending(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("status = ?", enums.ModerationPending).
		Count(&total).Error
	return total, err
}

// ListPending returns pending rows newest-first by submission time.
func (r *Repository[T, P]) ListPending(ctx context.Context, limit, offset int) ([]models.Moderatable, error) {
	var rows []T
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.ModerationPending).
		Order("submitted_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Moderatable, 0, len(rows))
	for i := range rows {
		out = append(out, P(&rows[i]))
	}
	return out, nil
}

// CompareAndSwapWithTx persists entity only if the stored version still equals
// expectedVersion, bumping it by one. owner_id is never rewritten.
func (r *Repository[T, P]) CompareAndSwapWithTx(tx *gorm.DB, entity P, expectedVersion int64) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	ledger := entity.ModerationLedger()
	ledger.Version = expectedVersion + 1

	res := tx.Model(entity).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(entity)
	if res.Error != nil {
		ledger.Version = expectedVersion
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	ledger.Version = expectedVersion
	var count int64
	if err := tx.Model(new(T)).Where("id = ?", entity.EntityID()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrStaleVersion
}

// DeleteWithTx hard-deletes the row.
func (r *Repository[T, P]) DeleteWithTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	res := tx.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toPointers[T any, P Record[T]](rows []T) []P {
	out := make([]P, 0, len(rows))
	for i := range rows {
		out = append(out, P(&rows[i]))
	}
	return out
}
