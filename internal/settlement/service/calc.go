package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// interestOn accrues interest on a unit's outstanding debt. Debt below zero
// accrues nothing: an overpaying unit gets its credit through a lower
// totalToPay, never through negative interest.
func interestOn(previousBalance, payments, rate decimal.Decimal) decimal.Decimal {
	debt := previousBalance.Sub(payments)
	if debt.IsPositive() && rate.IsPositive() {
		return debt.Mul(rate).Div(hundred)
	}
	return decimal.Zero
}

// shareOf pro-rates the period's grand total by an ownership coefficient
// expressed as a percentage of the whole.
func shareOf(grandTotal, coefficient decimal.Decimal) decimal.Decimal {
	return grandTotal.Mul(coefficient).Div(hundred)
}

// reserveOn levies the reserve-fund percentage on top of a unit's share.
func reserveOn(share, rate decimal.Decimal) decimal.Decimal {
	return share.Mul(rate).Div(hundred)
}

// totalToPay folds a unit's breakdown into its final obligation.
func totalToPay(previousBalance, payments, interest, share, reserve decimal.Decimal) decimal.Decimal {
	return previousBalance.Sub(payments).Add(interest).Add(share).Add(reserve)
}
