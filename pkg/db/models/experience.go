package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// Experience is a work-history entry. It is published without review, so
// its ledger stays approved and never carries a decision.
type Experience struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index"`
	CompanyName string     `gorm:"column:company_name;not null"`
	Title       string     `gorm:"column:title;not null"`
	StartDate   time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate     *time.Time `gorm:"column:end_date;type:date"`
	Description *string    `gorm:"column:description"`
	Ledger      `gorm:"embedded"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Experience) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e *Experience) EntityType() enums.EntityType { return enums.EntityExperience }
func (e *Experience) EntityID() uuid.UUID          { return e.ID }
func (e *Experience) EntityOwnerID() uuid.UUID     { return e.OwnerID }
func (e *Experience) Summary() string              { return e.Title + " @ " + e.CompanyName }
