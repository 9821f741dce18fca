package moderation

import (
	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
	"github.com/kai890707/my-profile-sub000/pkg/visibility"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

func (a Actor) authenticated() bool {
	return a.ID != uuid.Nil && a.Role.IsValid()
}

// Viewer converts the actor for read-side visibility checks.
func (a Actor) Viewer() visibility.Viewer {
	return visibility.Viewer{UserID: a.ID, Role: a.Role}
}
