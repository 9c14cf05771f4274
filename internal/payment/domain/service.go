package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	UnitID    string          `json:"unit_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference"`
}

type ListPaymentRequest struct {
	UnitID   *string
	Status   *PaymentStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

type Service interface {
	Create(ctx context.Context, condominiumID string, req CreatePaymentRequest) (Payment, error)
	List(ctx context.Context, condominiumID string, req ListPaymentRequest) ([]Payment, error)
	GetByID(ctx context.Context, condominiumID, paymentID string) (Payment, error)
	Confirm(ctx context.Context, condominiumID, paymentID string) (Payment, error)
	Reject(ctx context.Context, condominiumID, paymentID string) (Payment, error)
}

// Aggregator sums confirmed payments for the settlement engine. Pure read.
type Aggregator interface {
	SumConfirmedByUnit(ctx context.Context, condominiumID snowflake.ID, from, to time.Time) (map[snowflake.ID]decimal.Decimal, error)
}

var (
	ErrNotFound      = errors.New("payment_not_found")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNotPending    = errors.New("payment_not_pending")
)
