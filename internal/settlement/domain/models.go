// Package domain contains the settlement engine's persistence models and
// contracts. A Settlement is the aggregate record for one condominium and
// period; its UnitAccountStatus rows are the immutable per-unit outcome
// written once at confirmation.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents settlement lifecycle states. DRAFT is virtual:
// the engine only ever persists terminal settlements. SENT exists for rows
// imported from systems that marked dispatched settlements separately; it is
// terminal and counts as closed for carry-over.
type SettlementStatus string

const (
	SettlementStatusDraft  SettlementStatus = "DRAFT"
	SettlementStatusClosed SettlementStatus = "CLOSED"
	SettlementStatusSent   SettlementStatus = "SENT"
)

// Terminal reports whether the status freezes the settlement.
func (s SettlementStatus) Terminal() bool {
	return s == SettlementStatusClosed || s == SettlementStatusSent
}

// Settlement is the closed aggregate for one condominium + period. At most one
// non-draft settlement exists per (condominium, period); it anchors the
// carry-over chain that later periods read.
type Settlement struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	CondominiumID   snowflake.ID     `gorm:"not null;index" json:"condominium_id"`
	Period          string           `gorm:"not null" json:"period"`
	Status          SettlementStatus `gorm:"type:text;not null" json:"status"`
	TotalClassA     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"total_class_a"`
	TotalClassB     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"total_class_b"`
	TotalClassC     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"total_class_c"`
	GrandTotal      decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"grand_total"`
	InterestRate    decimal.Decimal  `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	ReserveFundRate decimal.Decimal  `gorm:"type:decimal(7,4);not null" json:"reserve_fund_rate"`
	CreatedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
}

// TableName sets the database table name.
func (Settlement) TableName() string { return "settlements" }

// UnitAccountStatus is the immutable per-unit outcome of one settlement.
// OwnerName and Coefficient are frozen copies taken at confirmation time so
// later unit edits cannot rewrite history.
type UnitAccountStatus struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	SettlementID       snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_unit_account_statuses_settlement_unit,priority:1" json:"settlement_id"`
	UnitID             snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_unit_account_statuses_settlement_unit,priority:2" json:"unit_id"`
	UnitNumber         string          `gorm:"not null" json:"unit_number"`
	OwnerName          string          `gorm:"not null" json:"owner_name"`
	Coefficient        decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"coefficient"`
	PreviousBalance    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"previous_balance"`
	PaymentsAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"payments_amount"`
	InterestAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"interest_amount"`
	CurrentPeriodShare decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_period_share"`
	ReserveFundAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"reserve_fund_amount"`
	TotalToPay         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_to_pay"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (UnitAccountStatus) TableName() string { return "unit_account_statuses" }
