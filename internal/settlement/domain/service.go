package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DraftRequest identifies the period to settle and the rates to apply.
// Operators may recompute drafts with different rates as often as they like
// before confirming.
type DraftRequest struct {
	CondominiumID   string          `json:"condominium_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	ReserveFundRate decimal.Decimal `json:"reserve_fund_rate"`
}

// UnitBreakdown is one unit's line in a draft projection.
type UnitBreakdown struct {
	UnitID             snowflake.ID    `json:"unit_id"`
	UnitNumber         string          `json:"unit_number"`
	OwnerName          string          `json:"owner_name"`
	Coefficient        decimal.Decimal `json:"coefficient"`
	PreviousBalance    decimal.Decimal `json:"previous_balance"`
	PaymentsAmount     decimal.Decimal `json:"payments_amount"`
	InterestAmount     decimal.Decimal `json:"interest_amount"`
	CurrentPeriodShare decimal.Decimal `json:"current_period_share"`
	ReserveFundAmount  decimal.Decimal `json:"reserve_fund_amount"`
	TotalToPay         decimal.Decimal `json:"total_to_pay"`
}

// DraftSettlement is a side-effect-free projection of the period. Nothing is
// persisted until Confirm.
type DraftSettlement struct {
	CondominiumID   snowflake.ID    `json:"condominium_id"`
	Period          string          `json:"period"`
	TotalClassA     decimal.Decimal `json:"total_class_a"`
	TotalClassB     decimal.Decimal `json:"total_class_b"`
	TotalClassC     decimal.Decimal `json:"total_class_c"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	ReserveFundRate decimal.Decimal `json:"reserve_fund_rate"`
	Units           []UnitBreakdown `json:"units"`
}

type ConfirmResult struct {
	SettlementID snowflake.ID `json:"settlement_id"`
}

// SettlementDetail is a closed settlement together with its frozen unit rows.
type SettlementDetail struct {
	Settlement Settlement          `json:"settlement"`
	Units      []UnitAccountStatus `json:"units"`
}

type Service interface {
	// ComputeDraft derives the period projection from current stored state.
	// No side effects; may be called arbitrarily many times.
	ComputeDraft(ctx context.Context, req DraftRequest) (DraftSettlement, error)

	// Confirm re-derives the projection and persists it atomically as a
	// CLOSED settlement plus its full set of unit statuses. Confirming an
	// already-closed period fails with ErrPeriodClosed.
	Confirm(ctx context.Context, req DraftRequest) (ConfirmResult, error)

	List(ctx context.Context, condominiumID string) ([]Settlement, error)
	GetByPeriod(ctx context.Context, condominiumID, period string) (SettlementDetail, error)
}

var (
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrInvalidRate   = errors.New("invalid_rate")
	ErrNoUnits       = errors.New("no_units")
	ErrPeriodClosed  = errors.New("period_closed")
	ErrNotFound      = errors.New("settlement_not_found")
)

// ValidRate reports whether a percentage rate is inside the accepted range.
func ValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(decimal.NewFromInt(100))
}
