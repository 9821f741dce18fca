package moderation

import (
	"errors"
	"time"

	"gorm.io/gorm"

	dbpkg "github.com/kai890707/my-profile-sub000/pkg/db"
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

// ErrStaleVersion is returned by compare-and-swap writes when another writer
// changed the row first.
var ErrStaleVersion = errors.New("stale version")

func duplicateError(entityType enums.EntityType, existing models.Moderatable) error {
	details := map[string]any{"entity_type": entityType}
	if existing != nil {
		details["existing_id"] = existing.EntityID()
		details["status"] = existing.ModerationLedger().Status
	}
	return pkgerrors.New(pkgerrors.CodeDuplicate, string(entityType)+" already submitted").WithDetails(details)
}

func cooldownError(until time.Time) error {
	return pkgerrors.New(pkgerrors.CodeCooldown, "resubmission blocked until cooldown ends").
		WithDetails(map[string]any{"reapply_not_before": until.UTC()})
}

func supersededError(entityType enums.EntityType, latest models.Moderatable) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, string(entityType)+" was replaced by a newer submission").
		WithDetails(map[string]any{"latest_id": latest.EntityID()})
}

func staleError(entityType enums.EntityType) error {
	return pkgerrors.Wrap(pkgerrors.CodeConflict, ErrStaleVersion, string(entityType)+" was modified by another request")
}

// mapStoreError converts storage failures into typed errors. Typed errors
// pass through untouched.
func mapStoreError(entityType enums.EntityType, err error, msg string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, string(entityType)+" not found")
	case errors.Is(err, ErrStaleVersion):
		return staleError(entityType)
	case dbpkg.IsUniqueViolation(err, ""):
		return duplicateError(entityType, nil)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
