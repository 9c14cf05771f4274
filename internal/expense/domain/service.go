package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/vecinohq/vecino/pkg/db/pagination"
)

type CreateExpenseRequest struct {
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	AllocationClass AllocationClass `json:"allocation_class"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	PaymentMethod   string          `json:"payment_method"`
	Metadata        map[string]any  `json:"metadata"`
}

type ListExpenseRequest struct {
	AllocationClass *AllocationClass
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            pagination.Pagination
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

// ClassTotals are the per-allocation-class sums for one period. GrandTotal
// covers classes A, B and C only.
type ClassTotals struct {
	ClassA     decimal.Decimal `json:"class_a"`
	ClassB     decimal.Decimal `json:"class_b"`
	ClassC     decimal.Decimal `json:"class_c"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type Service interface {
	Create(ctx context.Context, condominiumID string, req CreateExpenseRequest) (Expense, error)
	List(ctx context.Context, condominiumID string, req ListExpenseRequest) (ListExpenseResponse, error)
	GetByID(ctx context.Context, condominiumID, expenseID string) (Expense, error)
	Delete(ctx context.Context, condominiumID, expenseID string) error
}

// Ledger aggregates expenses for the settlement engine. Pure read.
type Ledger interface {
	SumByClass(ctx context.Context, condominiumID snowflake.ID, from, to time.Time) (ClassTotals, error)
}

var (
	ErrNotFound               = errors.New("expense_not_found")
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidAmount          = errors.New("invalid_amount")
	ErrInvalidAllocationClass = errors.New("invalid_allocation_class")
	ErrInvalidDescription     = errors.New("invalid_description")
)
