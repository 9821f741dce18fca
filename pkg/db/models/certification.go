package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kai890707/my-profile-sub000/pkg/enums"
)

// Certification is a professional credential with an optional scanned document.
type Certification struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;index"`
	Name         string     `gorm:"column:name;not null"`
	Issuer       string     `gorm:"column:issuer;not null"`
	IssuedOn     *time.Time `gorm:"column:issued_on;type:date"`
	ExpiresOn    *time.Time `gorm:"column:expires_on;type:date"`
	CredentialID *string    `gorm:"column:credential_id"`
	Document     []byte     `gorm:"column:document;type:bytea"`
	DocumentMime *string    `gorm:"column:document_mime"`
	Ledger       `gorm:"embedded"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Certification) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Certification) EntityType() enums.EntityType { return enums.EntityCertification }
func (c *Certification) EntityID() uuid.UUID          { return c.ID }
func (c *Certification) EntityOwnerID() uuid.UUID     { return c.OwnerID }
func (c *Certification) Summary() string              { return c.Name + " (" + c.Issuer + ")" }
