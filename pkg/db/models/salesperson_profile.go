package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// SalespersonProfile is the public card of a salesperson. One per owner.
// Avatar is an opaque blob; nothing here inspects it.
type SalespersonProfile struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	CompanyID   *uuid.UUID `gorm:"column:company_id;type:uuid"`
	FullName    string     `gorm:"column:full_name;not null"`
	Title       *string    `gorm:"column:title"`
	Phone       *string    `gorm:"column:phone"`
	Email       *string    `gorm:"column:email"`
	Bio         *string    `gorm:"column:bio"`
	Specialties *string    `gorm:"column:specialties"`
	Avatar      []byte     `gorm:"column:avatar;type:bytea"`
	AvatarMime  *string    `gorm:"column:avatar_mime"`
	Ledger      `gorm:"embedded"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *SalespersonProfile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *SalespersonProfile) EntityType() enums.EntityType { return enums.EntitySalespersonProfile }
func (p *SalespersonProfile) EntityID() uuid.UUID          { return p.ID }
func (p *SalespersonProfile) EntityOwnerID() uuid.UUID     { return p.OwnerID }
func (p *SalespersonProfile) Summary() string              { return p.FullName }
