package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"github.com/vecinohq/vecino/pkg/db/option"
	"github.com/vecinohq/vecino/pkg/db/pagination"
	"github.com/vecinohq/vecino/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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

	expenserepo repository.Repository[expensedomain.Expense]
	condoSvc    condominiumdomain.Service
}

func NewService(p ServiceParam) expensedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("expense.service"),
		genID: p.GenID,

		expenserepo: repository.ProvideStore[expensedomain.Expense](p.DB),
		condoSvc:    p.CondoSvc,
	}
}

func (s *Service) Create(ctx context.Context, condominiumID string, req expensedomain.CreateExpenseRequest) (expensedomain.Expense, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return expensedomain.Expense{}, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return expensedomain.Expense{}, expensedomain.ErrInvalidDescription
	}
	if !expensedomain.ValidAllocationClass(req.AllocationClass) {
		return expensedomain.Expense{}, expensedomain.ErrInvalidAllocationClass
	}
	if !req.Amount.IsPositive() {
		return expensedomain.Expense{}, expensedomain.ErrInvalidAmount
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	now := time.Now().UTC()
	expense := expensedomain.Expense{
		ID:              s.genID.Generate(),
		CondominiumID:   condo.ID,
		Description:     description,
		Category:        strings.TrimSpace(req.Category),
		AllocationClass: req.AllocationClass,
		Amount:          req.Amount,
		Date:            date.UTC(),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		Metadata:        datatypes.JSONMap(req.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.expenserepo.Create(ctx, &expense); err != nil {
		return expensedomain.Expense{}, err
	}

	return expense, nil
}

func (s *Service) List(ctx context.Context, condominiumID string, req expensedomain.ListExpenseRequest) (expensedomain.ListExpenseResponse, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return expensedomain.ListExpenseResponse{}, err
	}

	filter := &expensedomain.Expense{CondominiumID: condo.ID}
	if req.AllocationClass != nil {
		filter.AllocationClass = *req.AllocationClass
	}

	pageSize := req.Page.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"date": true}, Field: "date", Desc: true}),
		option.WithLimit(pageSize + 1),
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
	if req.Page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.Page.PageToken)
		if err != nil {
			return expensedomain.ListExpenseResponse{}, expensedomain.ErrInvalidID
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "id",
			Operator: option.LT,
			Value:    cursor.ID,
		}))
	}

	items, err := s.expenserepo.Find(ctx, filter, options...)
	if err != nil {
		return expensedomain.ListExpenseResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(e *expensedomain.Expense) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: e.ID.String()})
		return token
	})

	expenses := make([]expensedomain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	return expensedomain.ListExpenseResponse{PageInfo: *pageInfo, Expenses: expenses}, nil
}

func (s *Service) GetByID(ctx context.Context, condominiumID, expenseID string) (expensedomain.Expense, error) {
	condo, err := s.condoSvc.GetByID(ctx, condominiumID)
	if err != nil {
		return expensedomain.Expense{}, err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(expenseID))
	if err != nil {
		return expensedomain.Expense{}, expensedomain.ErrInvalidID
	}

	item, err := s.expenserepo.FindOne(ctx, &expensedomain.Expense{ID: id, CondominiumID: condo.ID})
	if err != nil {
		return expensedomain.Expense{}, err
	}
	if item == nil {
		return expensedomain.Expense{}, expensedomain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Delete(ctx context.Context, condominiumID, expenseID string) error {
	expense, err := s.GetByID(ctx, condominiumID, expenseID)
	if err != nil {
		return err
	}
	return s.expenserepo.Delete(ctx, expense.ID.String())
}
