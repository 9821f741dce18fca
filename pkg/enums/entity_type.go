package enums

import "fmt"

// EntityType names a kind of record that goes through moderation.
type EntityType string

const (
	EntityCompany                EntityType = "company"
	EntitySalespersonProfile     EntityType = "salesperson_profile"
	EntityCertification          EntityType = "certification"
	EntityExperience             EntityType = "experience"
	EntitySalespersonApplication EntityType = "salesperson_application"
)

// EntityTypes lists every moderated type in a stable order.
var EntityTypes = []EntityType{
	EntityCompany,
	EntitySalespersonProfile,
	EntityCertification,
	EntityExperience,
	EntitySalespersonApplication,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known entity type.
func (e EntityType) IsValid() bool {
	for _, candidate := range EntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range EntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
