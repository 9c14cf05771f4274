package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/vecinohq/vecino/internal/cache"
	"github.com/vecinohq/vecino/internal/clock"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"github.com/vecinohq/vecino/internal/metrics"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	CondoSvc   condominiumdomain.Service
	Ledger     expensedomain.Ledger
	Aggregator paymentdomain.Aggregator
	Carryover  cache.CarryoverCache `optional:"true"`
	Metrics    *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	condoSvc   condominiumdomain.Service
	ledger     expensedomain.Ledger
	aggregator paymentdomain.Aggregator
	carryover  cache.CarryoverCache
	metrics    *metrics.Metrics
}

func NewService(p ServiceParam) settlementdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settlement.service"),
		genID: p.GenID,
		clock: p.Clock,

		condoSvc:   p.CondoSvc,
		ledger:     p.Ledger,
		aggregator: p.Aggregator,
		carryover:  p.Carryover,
		metrics:    p.Metrics,
	}
}

// ComputeDraft assembles the period projection: per-class expense totals,
// carry-over balances from the previous closed period, confirmed payments,
// interest on remaining debt and the pro-rata share plus reserve fund for
// every unit. Pure read; safe to call concurrently.
func (s *Service) ComputeDraft(ctx context.Context, req settlementdomain.DraftRequest) (settlementdomain.DraftSettlement, error) {
	condo, err := s.condoSvc.GetByID(ctx, req.CondominiumID)
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}

	period, err := settlementdomain.NewPeriod(req.Month, req.Year)
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}
	if !settlementdomain.ValidRate(req.InterestRate) || !settlementdomain.ValidRate(req.ReserveFundRate) {
		return settlementdomain.DraftSettlement{}, settlementdomain.ErrInvalidRate
	}

	units, err := s.condoSvc.ListUnits(ctx, req.CondominiumID)
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}
	if len(units) == 0 {
		return settlementdomain.DraftSettlement{}, settlementdomain.ErrNoUnits
	}

	from, to := period.Bounds()
	totals, err := s.ledger.SumByClass(ctx, condo.ID, from, to)
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}

	payments, err := s.aggregator.SumConfirmedByUnit(ctx, condo.ID, from, to)
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}

	carryover, err := s.resolveCarryover(ctx, s.db, condo.ID, period.Previous())
	if err != nil {
		return settlementdomain.DraftSettlement{}, err
	}

	breakdowns := make([]settlementdomain.UnitBreakdown, 0, len(units))
	for _, unit := range units {
		previousBalance := carryover[unit.ID]
		paid := payments[unit.ID]

		interest := interestOn(previousBalance, paid, req.InterestRate)
		share := shareOf(totals.GrandTotal, unit.Coefficient)
		reserve := reserveOn(share, req.ReserveFundRate)

		breakdowns = append(breakdowns, settlementdomain.UnitBreakdown{
			UnitID:             unit.ID,
			UnitNumber:         unit.Number,
			OwnerName:          unit.OwnerName,
			Coefficient:        unit.Coefficient,
			PreviousBalance:    previousBalance,
			PaymentsAmount:     paid,
			InterestAmount:     interest,
			CurrentPeriodShare: share,
			ReserveFundAmount:  reserve,
			TotalToPay:         totalToPay(previousBalance, paid, interest, share, reserve),
		})
	}

	if s.metrics != nil {
		s.metrics.RecordDraft(condo.ID.String())
	}

	return settlementdomain.DraftSettlement{
		CondominiumID:   condo.ID,
		Period:          period.String(),
		TotalClassA:     totals.ClassA,
		TotalClassB:     totals.ClassB,
		TotalClassC:     totals.ClassC,
		GrandTotal:      totals.GrandTotal,
		InterestRate:    req.InterestRate,
		ReserveFundRate: req.ReserveFundRate,
		Units:           breakdowns,
	}, nil
}

// Confirm re-derives the draft and persists it as a CLOSED settlement. The
// settlement row and its unit statuses commit in one transaction; the partial
// unique index on (condominium_id, period) makes the insert the single-winner
// gate, so a racing confirm observes ErrPeriodClosed rather than a partial
// write.
func (s *Service) Confirm(ctx context.Context, req settlementdomain.DraftRequest) (settlementdomain.ConfirmResult, error) {
	draft, err := s.ComputeDraft(ctx, req)
	if err != nil {
		return settlementdomain.ConfirmResult{}, err
	}

	settlementID := s.genID.Generate()
	now := s.clock.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.loadTerminalSettlement(ctx, tx, draft.CondominiumID, draft.Period)
		if err != nil {
			return err
		}
		if existing != nil {
			return settlementdomain.ErrPeriodClosed
		}

		inserted, err := s.insertSettlement(ctx, tx, settlementdomain.Settlement{
			ID:              settlementID,
			CondominiumID:   draft.CondominiumID,
			Period:          draft.Period,
			Status:          settlementdomain.SettlementStatusClosed,
			TotalClassA:     draft.TotalClassA,
			TotalClassB:     draft.TotalClassB,
			TotalClassC:     draft.TotalClassC,
			GrandTotal:      draft.GrandTotal,
			InterestRate:    draft.InterestRate,
			ReserveFundRate: draft.ReserveFundRate,
			CreatedAt:       now,
			ClosedAt:        &now,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return settlementdomain.ErrPeriodClosed
		}

		for _, unit := range draft.Units {
			if err := s.insertUnitStatus(ctx, tx, settlementdomain.UnitAccountStatus{
				ID:                 s.genID.Generate(),
				SettlementID:       settlementID,
				UnitID:             unit.UnitID,
				UnitNumber:         unit.UnitNumber,
				OwnerName:          unit.OwnerName,
				Coefficient:        unit.Coefficient,
				PreviousBalance:    unit.PreviousBalance,
				PaymentsAmount:     unit.PaymentsAmount,
				InterestAmount:     unit.InterestAmount,
				CurrentPeriodShare: unit.CurrentPeriodShare,
				ReserveFundAmount:  unit.ReserveFundAmount,
				TotalToPay:         unit.TotalToPay,
				CreatedAt:          now,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if err == settlementdomain.ErrPeriodClosed && s.metrics != nil {
			s.metrics.RecordConfirmConflict()
		}
		return settlementdomain.ConfirmResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordClose(draft.CondominiumID.String())
	}
	s.log.Info("settlement closed",
		zap.String("settlement_id", settlementID.String()),
		zap.String("condominium_id", draft.CondominiumID.String()),
		zap.String("period", draft.Period),
		zap.String("grand_total", draft.GrandTotal.String()),
		zap.Int("units", len(draft.Units)),
	)

	return settlementdomain.ConfirmResult{SettlementID: settlementID}, nil
}

func (s *Service) List(ctx context.Context, condominiumID string) ([]settlementdomain.Settlement, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return nil, err
	}

	var settlements []settlementdomain.Settlement
	err = s.db.WithContext(ctx).
		Where("condominium_id = ?", condo.ID).
		Order("created_at DESC").
		Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

func (s *Service) GetByPeriod(ctx context.Context, condominiumID, period string) (settlementdomain.SettlementDetail, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return settlementdomain.SettlementDetail{}, err
	}

	parsed, err := settlementdomain.ParsePeriod(strings.TrimSpace(period))
	if err != nil {
		return settlementdomain.SettlementDetail{}, err
	}

	settlement, err := s.loadTerminalSettlement(ctx, s.db, condo.ID, parsed.String())
	if err != nil {
		return settlementdomain.SettlementDetail{}, err
	}
	if settlement == nil {
		return settlementdomain.SettlementDetail{}, settlementdomain.ErrNotFound
	}

	var units []settlementdomain.UnitAccountStatus
	err = s.db.WithContext(ctx).
		Where("settlement_id = ?", settlement.ID).
		Order("unit_number ASC").
		Find(&units).Error
	if err != nil {
		return settlementdomain.SettlementDetail{}, err
	}

	return settlementdomain.SettlementDetail{Settlement: *settlement, Units: units}, nil
}

// resolveCarryover maps each unit to its totalToPay from the most recent
// terminal settlement of the given period. Units without a status row there
// start the new period at zero.
func (s *Service) resolveCarryover(ctx context.Context, tx *gorm.DB, condominiumID snowflake.ID, previous settlementdomain.Period) (map[snowflake.ID]decimal.Decimal, error) {
	if s.carryover != nil {
		if balances, ok := s.carryover.Get(condominiumID, previous.String()); ok {
			return balances, nil
		}
	}

	settlement, err := s.loadTerminalSettlement(ctx, tx, condominiumID, previous.String())
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		// Not cached: the previous period may still get confirmed.
		return map[snowflake.ID]decimal.Decimal{}, nil
	}

	type carryRow struct {
		UnitID     snowflake.ID
		TotalToPay decimal.Decimal
	}
	var rows []carryRow
	err = tx.WithContext(ctx).Raw(
		`SELECT unit_id, total_to_pay
		 FROM unit_account_statuses
		 WHERE settlement_id = ?`,
		settlement.ID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	balances := make(map[snowflake.ID]decimal.Decimal, len(rows))
	for _, row := range rows {
		balances[row.UnitID] = row.TotalToPay
	}
	if s.carryover != nil {
		s.carryover.Set(condominiumID, previous.String(), balances)
	}
	return balances, nil
}

// loadTerminalSettlement finds the most recent CLOSED or SENT settlement for
// the exact period. SENT counts as closed so the carry-over chain survives
// rows that were dispatched to owners before this unification.
func (s *Service) loadTerminalSettlement(ctx context.Context, tx *gorm.DB, condominiumID snowflake.ID, period string) (*settlementdomain.Settlement, error) {
	var settlement settlementdomain.Settlement
	err := tx.WithContext(ctx).Raw(
		`SELECT id, condominium_id, period, status,
		        total_class_a, total_class_b, total_class_c, grand_total,
		        interest_rate, reserve_fund_rate, created_at, closed_at
		 FROM settlements
		 WHERE condominium_id = ? AND period = ? AND status IN (?, ?)
		 ORDER BY closed_at DESC
		 LIMIT 1`,
		condominiumID,
		period,
		settlementdomain.SettlementStatusClosed,
		settlementdomain.SettlementStatusSent,
	).Scan(&settlement).Error
	if err != nil {
		return nil, err
	}
	if settlement.ID == 0 {
		return nil, nil
	}
	return &settlement, nil
}

func (s *Service) insertSettlement(ctx context.Context, tx *gorm.DB, settlement settlementdomain.Settlement) (bool, error) {
	result := tx.WithContext(ctx).Exec(
		`INSERT INTO settlements (
			id, condominium_id, period, status,
			total_class_a, total_class_b, total_class_c, grand_total,
			interest_rate, reserve_fund_rate, created_at, closed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		settlement.ID,
		settlement.CondominiumID,
		settlement.Period,
		settlement.Status,
		settlement.TotalClassA,
		settlement.TotalClassB,
		settlement.TotalClassC,
		settlement.GrandTotal,
		settlement.InterestRate,
		settlement.ReserveFundRate,
		settlement.CreatedAt,
		settlement.ClosedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

func (s *Service) insertUnitStatus(ctx context.Context, tx *gorm.DB, status settlementdomain.UnitAccountStatus) error {
	return tx.WithContext(ctx).Exec(
		`INSERT INTO unit_account_statuses (
			id, settlement_id, unit_id, unit_number, owner_name, coefficient,
			previous_balance, payments_amount, interest_amount,
			current_period_share, reserve_fund_amount, total_to_pay, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		status.ID,
		status.SettlementID,
		status.UnitID,
		status.UnitNumber,
		status.OwnerName,
		status.Coefficient,
		status.PreviousBalance,
		status.PaymentsAmount,
		status.InterestAmount,
		status.CurrentPeriodShare,
		status.ReserveFundAmount,
		status.TotalToPay,
		status.CreatedAt,
	).Error
}
