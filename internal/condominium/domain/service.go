package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type CreateCondominiumRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type UpdateCondominiumRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

type CreateUnitRequest struct {
	Number       string          `json:"number"`
	OwnerName    string          `json:"owner_name"`
	ContactEmail string          `json:"contact_email"`
	Coefficient  decimal.Decimal `json:"coefficient"`
}

type UpdateUnitRequest struct {
	OwnerName    *string          `json:"owner_name"`
	ContactEmail *string          `json:"contact_email"`
	Coefficient  *decimal.Decimal `json:"coefficient"`
}

type Service interface {
	Create(ctx context.Context, req CreateCondominiumRequest) (Condominium, error)
	List(ctx context.Context) ([]Condominium, error)
	GetByID(ctx context.Context, id string) (Condominium, error)
	Update(ctx context.Context, id string, req UpdateCondominiumRequest) (Condominium, error)

	CreateUnit(ctx context.Context, condominiumID string, req CreateUnitRequest) (Unit, error)
	ListUnits(ctx context.Context, condominiumID string) ([]Unit, error)
	GetUnitByID(ctx context.Context, condominiumID, unitID string) (Unit, error)
	UpdateUnit(ctx context.Context, condominiumID, unitID string, req UpdateUnitRequest) (Unit, error)
}

var (
	ErrNotFound           = errors.New("not_found")
	ErrUnitNotFound       = errors.New("unit_not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidNumber      = errors.New("invalid_number")
	ErrInvalidCoefficient = errors.New("invalid_coefficient")
	ErrDuplicateNumber    = errors.New("duplicate_number")
)

// ValidCoefficient reports whether a unit coefficient is a usable percentage.
func ValidCoefficient(c decimal.Decimal) bool {
	return !c.IsNegative() && c.LessThanOrEqual(decimal.NewFromInt(100))
}
