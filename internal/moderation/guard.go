package moderation

import (
	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

// Guards run before the engine on every operation.

func assertAuthenticated(actor Actor) error {
	if !actor.authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return nil
}

// AssertOwner allows only the record owner through. Admins get no bypass:
// edits and deletes belong to the owner.
func AssertOwner(entity models.Moderatable, actor Actor) error {
	if err := assertAuthenticated(actor); err != nil {
		return err
	}
	if entity == nil || entity.EntityOwnerID() != actor.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may modify this record")
	}
	return nil
}

func AssertAdmin(actor Actor) error {
	if err := assertAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "administrator role required")
	}
	return nil
}

// AssertCanSubmit checks the actor's role against the type's submitter list.
func AssertCanSubmit(policy Policy, actor Actor) error {
	if err := assertAuthenticated(actor); err != nil {
		return err
	}
	if !policy.allowsSubmitter(actor.Role) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "role "+string(actor.Role)+" may not submit "+string(policy.Type))
	}
	return nil
}
