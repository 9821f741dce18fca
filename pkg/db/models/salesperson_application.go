package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// SalespersonApplication is a user's request to be upgraded to salesperson.
// Rejected rows are kept as history; a new row is created on reapply.
type SalespersonApplication struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID    uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index:idx_salesperson_applications_owner;uniqueIndex:salesperson_applications_open_key,where:status <> 'rejected'"`
	FullName   string    `gorm:"column:full_name;not null"`
	Phone      *string   `gorm:"column:phone"`
	Motivation *string   `gorm:"column:motivation"`
	Ledger     `gorm:"embedded"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *SalespersonApplication) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (a *SalespersonApplication) EntityType() enums.EntityType {
	return enums.EntitySalespersonApplication
}
func (a *SalespersonApplication) EntityID() uuid.UUID      { return a.ID }
func (a *SalespersonApplication) EntityOwnerID() uuid.UUID { return a.OwnerID }
func (a *SalespersonApplication) Summary() string          { return a.FullName }
