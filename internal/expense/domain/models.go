// Package domain contains persistence models for recorded expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AllocationClass determines which proportional bucket an expense is summed
// into before being shared across units. PARTICULAR expenses are recorded but
// never enter the settlement grand total.
type AllocationClass string

const (
	AllocationClassA          AllocationClass = "GASTO_A"
	AllocationClassB          AllocationClass = "GASTO_B"
	AllocationClassC          AllocationClass = "GASTO_C"
	AllocationClassParticular AllocationClass = "PARTICULAR"
)

// ValidAllocationClass reports whether the class belongs to the closed set.
func ValidAllocationClass(c AllocationClass) bool {
	switch c {
	case AllocationClassA, AllocationClassB, AllocationClassC, AllocationClassParticular:
		return true
	default:
		return false
	}
}

// Expense is an owed cost recorded against a condominium. Expenses are never
// snapshotted into settlements, only their aggregated sums are.
type Expense struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	CondominiumID   snowflake.ID      `gorm:"not null;index" json:"condominium_id"`
	Description     string            `gorm:"type:text;not null" json:"description"`
	Category        string            `gorm:"not null" json:"category"`
	AllocationClass AllocationClass   `gorm:"type:text;not null;index" json:"allocation_class"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date            time.Time         `gorm:"not null;index" json:"date"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
