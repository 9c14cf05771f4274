package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	"gorm.io/gorm"
)

// Aggregator sums confirmed payments per unit.
type Aggregator struct {
	db *gorm.DB
}

func ProvideAggregator(db *gorm.DB) paymentdomain.Aggregator {
	return &Aggregator{db: db}
}

type unitSumRow struct {
	UnitID snowflake.ID
	Total  decimal.Decimal
}

// SumConfirmedByUnit totals CONFIRMED payments dated within [from, to]
// inclusive, grouped by unit. Pending and rejected payments are ignored
// entirely.
func (r *Aggregator) SumConfirmedByUnit(ctx context.Context, condominiumID snowflake.ID, from, to time.Time) (map[snowflake.ID]decimal.Decimal, error) {
	var rows []unitSumRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT unit_id, COALESCE(SUM(amount), 0) AS total
		 FROM payments
		 WHERE condominium_id = ? AND status = ? AND date >= ? AND date <= ?
		 GROUP BY unit_id`,
		condominiumID,
		paymentdomain.PaymentStatusConfirmed,
		from,
		to,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[snowflake.ID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.UnitID] = row.Total
	}
	return sums, nil
}
