package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	"github.com/vecinohq/vecino/pkg/db/option"
	"github.com/vecinohq/vecino/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	CondoSvc condominiumdomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	paymentrepo repository.Repository[paymentdomain.Payment]
	condoSvc    condominiumdomain.Service
}

func NewService(p ServiceParam) paymentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,

		paymentrepo: repository.ProvideStore[paymentdomain.Payment](p.DB),
		condoSvc:    p.CondoSvc,
	}
}

func (s *Service) Create(ctx context.Context, condominiumID string, req paymentdomain.CreatePaymentRequest) (paymentdomain.Payment, error) {
	unit, err := s.condoSvc.GetUnitByID(ctx, condominiumID, req.UnitID)
	if err != nil {
		return paymentdomain.Payment{}, err
	}

	if !req.Amount.IsPositive() {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidAmount
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	now := time.Now().UTC()
	payment := paymentdomain.Payment{
		ID:            s.genID.Generate(),
		CondominiumID: unit.CondominiumID,
		UnitID:        unit.ID,
		Amount:        req.Amount,
		Date:          date.UTC(),
		Status:        paymentdomain.PaymentStatusPending,
		Reference:     strings.TrimSpace(req.Reference),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.paymentrepo.Create(ctx, &payment); err != nil {
		return paymentdomain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) List(ctx context.Context, condominiumID string, req paymentdomain.ListPaymentRequest) ([]paymentdomain.Payment, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return nil, err
	}

	filter := &paymentdomain.Payment{CondominiumID: condo.ID}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.UnitID != nil {
		unitID, err := snowflake.ParseString(strings.TrimSpace(*req.UnitID))
		if err != nil {
			return nil, paymentdomain.ErrInvalidID
		}
		filter.UnitID = unitID
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"date": true}, Field: "date", Desc: true}),
	}
	if req.DateFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.GTE,
			Value:    *req.DateFrom,
		}))
	}
	if req.DateTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.LTE,
			Value:    *req.DateTo,
		}))
	}

	items, err := s.paymentrepo.Find(ctx, filter, options...)
	if err != nil {
		return nil, err
	}

	payments := make([]paymentdomain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return payments, nil
}

func (s *Service) GetByID(ctx context.Context, condominiumID, paymentID string) (paymentdomain.Payment, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return paymentdomain.Payment{}, err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(paymentID))
	if err != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidID
	}

	item, err := s.paymentrepo.FindOne(ctx, &paymentdomain.Payment{ID: id, CondominiumID: condo.ID})
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	if item == nil {
		return paymentdomain.Payment{}, paymentdomain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Confirm(ctx context.Context, condominiumID, paymentID string) (paymentdomain.Payment, error) {
	return s.transition(ctx, condominiumID, paymentID, paymentdomain.PaymentStatusConfirmed)
}

func (s *Service) Reject(ctx context.Context, condominiumID, paymentID string) (paymentdomain.Payment, error) {
	return s.transition(ctx, condominiumID, paymentID, paymentdomain.PaymentStatusRejected)
}

// transition moves a PENDING payment to a terminal review state. The guard is
// in the UPDATE's WHERE clause so two concurrent reviews cannot both win.
func (s *Service) transition(ctx context.Context, condominiumID, paymentID string, target paymentdomain.PaymentStatus) (paymentdomain.Payment, error) {
	payment, err := s.GetByID(ctx, condominiumID, paymentID)
	if err != nil {
		return paymentdomain.Payment{}, err
	}

	result := s.db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET status = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		target,
		time.Now().UTC(),
		payment.ID,
		paymentdomain.PaymentStatusPending,
	)
	if result.Error != nil {
		return paymentdomain.Payment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return paymentdomain.Payment{}, paymentdomain.ErrNotPending
	}

	s.log.Info("payment reviewed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(target)),
	)

	return s.GetByID(ctx, condominiumID, paymentID)
}
