package visibility

import (
	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

// Viewer identifies who is reading. A zero value is an anonymous visitor.
type Viewer struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// EnsureVisible hides unapproved records from everyone but the owner and
// admins. Hidden records report not found so their existence never leaks.
func EnsureVisible(entity models.Moderatable, viewer Viewer) error {
	if entity == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	if entity.ModerationLedger().Status == enums.ModerationApproved {
		return nil
	}
	if viewer.Role == enums.UserRoleAdmin {
		return nil
	}
	if viewer.UserID != uuid.Nil && viewer.UserID == entity.EntityOwnerID() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, string(entity.EntityType())+" not found")
}

// IsPublic reports whether anonymous visitors may see the record.
func IsPublic(entity models.Moderatable) bool {
	return entity != nil && entity.ModerationLedger().Status == enums.ModerationApproved
}
