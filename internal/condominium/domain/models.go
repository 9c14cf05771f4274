// Package domain contains persistence models for the condominium directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Condominium is a managed building with a set of ownership units.
type Condominium struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Condominium) TableName() string { return "condominiums" }

// Unit is an ownership unit inside a condominium. Coefficient is the unit's
// ownership percentage (0-100) used to pro-rate shared expenses. Both the
// coefficient and the owner name are mutable here; closed settlements keep
// their own frozen copies.
type Unit struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CondominiumID snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_units_condominium_number,priority:1" json:"condominium_id"`
	Number        string          `gorm:"not null;uniqueIndex:ux_units_condominium_number,priority:2" json:"number"`
	OwnerName     string          `gorm:"not null" json:"owner_name"`
	ContactEmail  string          `json:"contact_email,omitempty"`
	Coefficient   decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"coefficient"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Unit) TableName() string { return "units" }
