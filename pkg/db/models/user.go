package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// User is the identity a moderated record belongs to. Credentials live with
// the external identity provider.
type User struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email       string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	DisplayName string         `gorm:"column:display_name;not null"`
	Role        enums.UserRole `gorm:"column:role;type:user_role;not null;default:'user'"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
