package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"gorm.io/gorm"
)

// Ledger sums recorded expenses into allocation classes.
type Ledger struct {
	db *gorm.DB
}

func ProvideLedger(db *gorm.DB) expensedomain.Ledger {
	return &Ledger{db: db}
}

type classSumRow struct {
	AllocationClass expensedomain.AllocationClass
	Total           decimal.Decimal
}

// SumByClass totals every expense dated within [from, to] inclusive. The grand
// total covers classes A, B and C; PARTICULAR stays out of it.
func (r *Ledger) SumByClass(ctx context.Context, condominiumID snowflake.ID, from, to time.Time) (expensedomain.ClassTotals, error) {
	var rows []classSumRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT allocation_class, COALESCE(SUM(amount), 0) AS total
		 FROM expenses
		 WHERE condominium_id = ? AND date >= ? AND date <= ?
		 GROUP BY allocation_class`,
		condominiumID,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return expensedomain.ClassTotals{}, err
	}

	totals := expensedomain.ClassTotals{
		ClassA:     decimal.Zero,
		ClassB:     decimal.Zero,
		ClassC:     decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, row := range rows {
		switch row.AllocationClass {
		case expensedomain.AllocationClassA:
			totals.ClassA = row.Total
		case expensedomain.AllocationClassB:
			totals.ClassB = row.Total
		case expensedomain.AllocationClassC:
			totals.ClassC = row.Total
		}
	}
	totals.GrandTotal = totals.ClassA.Add(totals.ClassB).Add(totals.ClassC)

	return totals, nil
}
