package users

import (
	"strings"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
	Role        enums.UserRole
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		ID:          c.ID,
		Email:       strings.ToLower(strings.TrimSpace(c.Email)),
		DisplayName: strings.TrimSpace(c.DisplayName),
		Role:        role,
	}
}
