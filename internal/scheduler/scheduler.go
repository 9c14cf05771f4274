package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/vecinohq/vecino/internal/clock"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	"github.com/vecinohq/vecino/internal/config"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log                *zap.Logger
	Clock              clock.Clock
	CondoSvc           condominiumdomain.Service
	SettlementSvc      settlementdomain.Service
	SettlementDefaults *config.SettlementDefaultsHolder
	Config             Config `optional:"true"`
}

// Scheduler closes the previous period for every condominium once the
// grace day has passed. Confirm's single-winner gate makes retries and
// concurrent instances safe: a period already closed is skipped.
type Scheduler struct {
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	condoSvc condominiumdomain.Service
	sttlSvc  settlementdomain.Service
	defaults *config.SettlementDefaultsHolder
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.CondoSvc == nil || p.SettlementSvc == nil || p.SettlementDefaults == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		cfg:      p.Config.withDefaults(),
		clock:    p.Clock,
		condoSvc: p.CondoSvc,
		sttlSvc:  p.SettlementSvc,
		defaults: p.SettlementDefaults,
	}, nil
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	if !s.cfg.AutoClose {
		return nil
	}

	now := s.clock.Now()
	if now.Day() < s.cfg.CloseAfterDay {
		return nil
	}

	previous, err := settlementdomain.NewPeriod(int(now.Month()), now.Year())
	if err != nil {
		return err
	}
	previous = previous.Previous()

	condos, err := s.condoSvc.List(parent)
	if err != nil {
		return err
	}

	var jobErr error
	for _, condo := range condos {
		if parent.Err() != nil {
			return parent.Err()
		}
		if err := s.closePeriod(parent, condo, previous); err != nil {
			jobErr = errors.Join(jobErr, err)
		}
	}
	return jobErr
}

func (s *Scheduler) closePeriod(parent context.Context, condo condominiumdomain.Condominium, period settlementdomain.Period) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.ConfirmTimeout)
	defer cancel()

	defaults := s.defaults.Get()
	result, err := s.sttlSvc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           period.Month,
		Year:            period.Year,
		InterestRate:    defaults.InterestRateDecimal(),
		ReserveFundRate: defaults.ReserveFundRateDecimal(),
	})
	switch {
	case err == nil:
		s.log.Info("period auto-closed",
			zap.String("condominium_id", condo.ID.String()),
			zap.String("period", period.String()),
			zap.String("settlement_id", result.SettlementID.String()),
		)
		return nil
	case errors.Is(err, settlementdomain.ErrPeriodClosed):
		return nil
	case errors.Is(err, settlementdomain.ErrNoUnits):
		// Empty buildings have nothing to settle.
		return nil
	default:
		s.log.Warn("auto-close failed",
			zap.String("condominium_id", condo.ID.String()),
			zap.String("period", period.String()),
			zap.Error(err),
		)
		return err
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
