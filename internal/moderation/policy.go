package moderation

import (
	"time"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// Policy captures how one entity type behaves in the review workflow.
type Policy struct {
	Type enums.EntityType
	// AutoApproved types are published on submit and never reviewed.
	AutoApproved bool
	// Singleton types allow at most one row per owner, whatever its status.
	Singleton bool
	// SingleOpen types allow one pending or approved row per owner; rejected
	// rows stay as history and a new row is created on reapply.
	SingleOpen bool
	// Cooldown blocks resubmission of a rejected row until it elapses.
	Cooldown    time.Duration
	SubmitRoles []enums.UserRole
}

func (p Policy) HasCooldown() bool {
	return p.Cooldown > 0
}

func (p Policy) allowsSubmitter(role enums.UserRole) bool {
	for _, allowed := range p.SubmitRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

func CompanyPolicy() Policy {
	return Policy{
		Type:        enums.EntityCompany,
		Singleton:   true,
		SubmitRoles: []enums.UserRole{enums.UserRoleUser, enums.UserRoleSalesperson},
	}
}

func SalespersonProfilePolicy() Policy {
	return Policy{
		Type:        enums.EntitySalespersonProfile,
		Singleton:   true,
		SubmitRoles: []enums.UserRole{enums.UserRoleSalesperson},
	}
}

func CertificationPolicy() Policy {
	return Policy{
		Type:        enums.EntityCertification,
		SubmitRoles: []enums.UserRole{enums.UserRoleSalesperson},
	}
}

func ExperiencePolicy() Policy {
	return Policy{
		Type:         enums.EntityExperience,
		AutoApproved: true,
		SubmitRoles:  []enums.UserRole{enums.UserRoleSalesperson},
	}
}

// SalespersonApplicationPolicy governs the user to salesperson upgrade.
func SalespersonApplicationPolicy(cooldown time.Duration) Policy {
	return Policy{
		Type:        enums.EntitySalespersonApplication,
		SingleOpen:  true,
		Cooldown:    cooldown,
		SubmitRoles: []enums.UserRole{enums.UserRoleUser},
	}
}
