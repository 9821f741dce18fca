package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// Company is an employer record registered by a user. One per owner.
type Company struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Name        string    `gorm:"column:name;not null"`
	TaxID       string    `gorm:"column:tax_id;not null"`
	Industry    *string   `gorm:"column:industry"`
	Phone       *string   `gorm:"column:phone"`
	Address     *string   `gorm:"column:address"`
	Website     *string   `gorm:"column:website"`
	Description *string   `gorm:"column:description"`
	Ledger      `gorm:"embedded"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Company) EntityType() enums.EntityType { return enums.EntityCompany }
func (c *Company) EntityID() uuid.UUID          { return c.ID }
func (c *Company) EntityOwnerID() uuid.UUID     { return c.OwnerID }
func (c *Company) Summary() string              { return c.Name }
