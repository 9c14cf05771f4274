// Package domain contains persistence models for unit payments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the review state of a received payment. Only
// CONFIRMED payments count toward a settlement.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// Payment is a monetary amount received from a unit.
type Payment struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	CondominiumID snowflake.ID    `gorm:"not null;index" json:"condominium_id"`
	UnitID        snowflake.ID    `gorm:"not null;index" json:"unit_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	Status        PaymentStatus   `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
