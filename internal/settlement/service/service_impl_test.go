package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vecinohq/vecino/internal/clock"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	condominiumservice "github.com/vecinohq/vecino/internal/condominium/service"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	expenserepository "github.com/vecinohq/vecino/internal/expense/repository"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	paymentrepository "github.com/vecinohq/vecino/internal/payment/repository"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	condoSvc condominiumdomain.Service
	svc      settlementdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&condominiumdomain.Condominium{},
		&condominiumdomain.Unit{},
		&expensedomain.Expense{},
		&paymentdomain.Payment{},
		&settlementdomain.Settlement{},
		&settlementdomain.UnitAccountStatus{},
	))

	// SQLite needs the partial unique index for ON CONFLICT to act as the
	// single-winner gate.
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_settlements_condominium_period
		 ON settlements (condominium_id, period)
		 WHERE status <> 'DRAFT'`,
	).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC))

	condoSvc := condominiumservice.NewService(condominiumservice.ServiceParam{
		DB:    db,
		Log:   logger,
		GenID: node,
	})

	svc := NewService(ServiceParam{
		DB:         db,
		Log:        logger,
		GenID:      node,
		Clock:      fake,
		CondoSvc:   condoSvc,
		Ledger:     expenserepository.ProvideLedger(db),
		Aggregator: paymentrepository.ProvideAggregator(db),
	})

	return &testEnv{
		db:       db,
		node:     node,
		clock:    fake,
		condoSvc: condoSvc,
		svc:      svc,
	}
}

func (e *testEnv) createCondoWithTwoUnits(t *testing.T) (condominiumdomain.Condominium, condominiumdomain.Unit, condominiumdomain.Unit) {
	t.Helper()
	ctx := context.Background()

	condo, err := e.condoSvc.Create(ctx, condominiumdomain.CreateCondominiumRequest{
		Name:    "Edificio Mirador",
		Address: "Av. Los Aromos 742",
	})
	require.NoError(t, err)

	unit1, err := e.condoSvc.CreateUnit(ctx, condo.ID.String(), condominiumdomain.CreateUnitRequest{
		Number:      "101",
		OwnerName:   "Ana Reyes",
		Coefficient: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	unit2, err := e.condoSvc.CreateUnit(ctx, condo.ID.String(), condominiumdomain.CreateUnitRequest{
		Number:      "102",
		OwnerName:   "Luis Paredes",
		Coefficient: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	return condo, unit1, unit2
}

func (e *testEnv) addExpense(t *testing.T, condoID snowflake.ID, class expensedomain.AllocationClass, amount int64, date time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&expensedomain.Expense{
		ID:              e.node.Generate(),
		CondominiumID:   condoID,
		Description:     "test expense",
		AllocationClass: class,
		Amount:          decimal.NewFromInt(amount),
		Date:            date,
	}).Error)
}

func (e *testEnv) addConfirmedPayment(t *testing.T, condoID, unitID snowflake.ID, amount int64, date time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&paymentdomain.Payment{
		ID:            e.node.Generate(),
		CondominiumID: condoID,
		UnitID:        unitID,
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		Status:        paymentdomain.PaymentStatusConfirmed,
	}).Error)
}

// closePriorPeriod persists a CLOSED settlement for the given period with one
// carried balance per unit, bypassing the engine.
func (e *testEnv) closePriorPeriod(t *testing.T, condoID snowflake.ID, period string, balances map[snowflake.ID]int64) {
	t.Helper()
	now := e.clock.Now()
	settlement := settlementdomain.Settlement{
		ID:            e.node.Generate(),
		CondominiumID: condoID,
		Period:        period,
		Status:        settlementdomain.SettlementStatusClosed,
		CreatedAt:     now,
		ClosedAt:      &now,
	}
	require.NoError(t, e.db.Create(&settlement).Error)

	for unitID, balance := range balances {
		require.NoError(t, e.db.Create(&settlementdomain.UnitAccountStatus{
			ID:           e.node.Generate(),
			SettlementID: settlement.ID,
			UnitID:       unitID,
			UnitNumber:   "n/a",
			OwnerName:    "n/a",
			TotalToPay:   decimal.NewFromInt(balance),
			CreatedAt:    now,
		}).Error)
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	assert.True(t, want.Equal(actual), "expected %s, got %s", expected, actual.String())
}

func breakdownFor(t *testing.T, draft settlementdomain.DraftSettlement, unitID snowflake.ID) settlementdomain.UnitBreakdown {
	t.Helper()
	for _, b := range draft.Units {
		if b.UnitID == unitID {
			return b
		}
	}
	t.Fatalf("no breakdown for unit %s", unitID)
	return settlementdomain.UnitBreakdown{}
}

func TestComputeDraft_WorkedScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, unit1, unit2 := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassB, 2000, april)
	env.closePriorPeriod(t, condo.ID, "03-2024", map[snowflake.ID]int64{unit1.ID: 500})
	env.addConfirmedPayment(t, condo.ID, unit1.ID, 200, april)

	draft, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(4),
		ReserveFundRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "04-2024", draft.Period)
	assertDecimal(t, "1000", draft.TotalClassA)
	assertDecimal(t, "2000", draft.TotalClassB)
	assertDecimal(t, "0", draft.TotalClassC)
	assertDecimal(t, "3000", draft.GrandTotal)
	require.Len(t, draft.Units, 2)

	b1 := breakdownFor(t, draft, unit1.ID)
	assertDecimal(t, "500", b1.PreviousBalance)
	assertDecimal(t, "200", b1.PaymentsAmount)
	assertDecimal(t, "1500", b1.CurrentPeriodShare)
	assertDecimal(t, "150", b1.ReserveFundAmount)
	assertDecimal(t, "12", b1.InterestAmount)
	assertDecimal(t, "1962", b1.TotalToPay)

	b2 := breakdownFor(t, draft, unit2.ID)
	assertDecimal(t, "0", b2.PreviousBalance)
	assertDecimal(t, "0", b2.PaymentsAmount)
	assertDecimal(t, "1500", b2.CurrentPeriodShare)
	assertDecimal(t, "150", b2.ReserveFundAmount)
	assertDecimal(t, "0", b2.InterestAmount)
	assertDecimal(t, "1650", b2.TotalToPay)
}

func TestComputeDraft_FirstPeriodHasNoCarryOver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	draft, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           1,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(4),
		ReserveFundRate: decimal.Zero,
	})
	require.NoError(t, err)

	for _, b := range draft.Units {
		assertDecimal(t, "0", b.PreviousBalance)
		assertDecimal(t, "0", b.InterestAmount)
	}
}

func TestComputeDraft_InterestOnlyOnPositiveDebt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, unit1, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	env.closePriorPeriod(t, condo.ID, "03-2024", map[snowflake.ID]int64{unit1.ID: 500})
	// Payment covers the full debt; no interest even with a high rate.
	env.addConfirmedPayment(t, condo.ID, unit1.ID, 500, april)

	draft, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(50),
		ReserveFundRate: decimal.Zero,
	})
	require.NoError(t, err)

	b1 := breakdownFor(t, draft, unit1.ID)
	assertDecimal(t, "500", b1.PreviousBalance)
	assertDecimal(t, "500", b1.PaymentsAmount)
	assertDecimal(t, "0", b1.InterestAmount)
}

func TestComputeDraft_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, unit1, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)
	env.closePriorPeriod(t, condo.ID, "03-2024", map[snowflake.ID]int64{unit1.ID: 300})

	req := settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(2),
		ReserveFundRate: decimal.NewFromInt(5),
	}

	first, err := env.svc.ComputeDraft(ctx, req)
	require.NoError(t, err)
	second, err := env.svc.ComputeDraft(ctx, req)
	require.NoError(t, err)

	require.Len(t, second.Units, len(first.Units))
	for i := range first.Units {
		assert.True(t, first.Units[i].TotalToPay.Equal(second.Units[i].TotalToPay))
	}

	// Drafting persists nothing.
	var count int64
	require.NoError(t, env.db.Model(&settlementdomain.Settlement{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestComputeDraft_ExcludesParticularFromGrandTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassParticular, 999, april)

	draft, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
	})
	require.NoError(t, err)

	assertDecimal(t, "1000", draft.GrandTotal)
}

func TestComputeDraft_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	_, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         13,
		Year:          2024,
	})
	assert.ErrorIs(t, err, settlementdomain.ErrInvalidPeriod)

	_, err = env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
		InterestRate:  decimal.NewFromInt(101),
	})
	assert.ErrorIs(t, err, settlementdomain.ErrInvalidRate)

	_, err = env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		ReserveFundRate: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, settlementdomain.ErrInvalidRate)
}

func TestComputeDraft_NoUnits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	condo, err := env.condoSvc.Create(ctx, condominiumdomain.CreateCondominiumRequest{Name: "Empty"})
	require.NoError(t, err)

	_, err = env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
	})
	assert.ErrorIs(t, err, settlementdomain.ErrNoUnits)
}

func TestConfirm_PersistsClosedSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassB, 2000, april)

	result, err := env.svc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(4),
		ReserveFundRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NotZero(t, result.SettlementID)

	detail, err := env.svc.GetByPeriod(ctx, condo.ID.String(), "04-2024")
	require.NoError(t, err)
	assert.Equal(t, settlementdomain.SettlementStatusClosed, detail.Settlement.Status)
	require.NotNil(t, detail.Settlement.ClosedAt)
	assert.True(t, detail.Settlement.ClosedAt.Equal(env.clock.Now()))
	assertDecimal(t, "3000", detail.Settlement.GrandTotal)
	assert.Len(t, detail.Units, 2)
}

func TestConfirm_SecondConfirmConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)

	req := settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
	}

	_, err := env.svc.Confirm(ctx, req)
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, req)
	assert.ErrorIs(t, err, settlementdomain.ErrPeriodClosed)

	var settlements int64
	require.NoError(t, env.db.Model(&settlementdomain.Settlement{}).Count(&settlements).Error)
	assert.EqualValues(t, 1, settlements)

	var statuses int64
	require.NoError(t, env.db.Model(&settlementdomain.UnitAccountStatus{}).Count(&statuses).Error)
	assert.EqualValues(t, 2, statuses)
}

func TestConfirm_CarryOverChains(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, unit1, unit2 := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassB, 2000, april)
	env.closePriorPeriod(t, condo.ID, "03-2024", map[snowflake.ID]int64{unit1.ID: 500})
	env.addConfirmedPayment(t, condo.ID, unit1.ID, 200, april)

	_, err := env.svc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID:   condo.ID.String(),
		Month:           4,
		Year:            2024,
		InterestRate:    decimal.NewFromInt(4),
		ReserveFundRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	mayDraft, err := env.svc.ComputeDraft(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         5,
		Year:          2024,
	})
	require.NoError(t, err)

	assertDecimal(t, "1962", breakdownFor(t, mayDraft, unit1.ID).PreviousBalance)
	assertDecimal(t, "1650", breakdownFor(t, mayDraft, unit2.ID).PreviousBalance)
}

func TestConfirm_SnapshotSurvivesUnitEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, unit1, _ := env.createCondoWithTwoUnits(t)

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 1000, april)

	_, err := env.svc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
	})
	require.NoError(t, err)

	newOwner := "Nueva Propietaria"
	newCoefficient := decimal.NewFromInt(80)
	_, err = env.condoSvc.UpdateUnit(ctx, condo.ID.String(), unit1.ID.String(), condominiumdomain.UpdateUnitRequest{
		OwnerName:   &newOwner,
		Coefficient: &newCoefficient,
	})
	require.NoError(t, err)

	detail, err := env.svc.GetByPeriod(ctx, condo.ID.String(), "04-2024")
	require.NoError(t, err)

	var frozen *settlementdomain.UnitAccountStatus
	for i := range detail.Units {
		if detail.Units[i].UnitID == unit1.ID {
			frozen = &detail.Units[i]
		}
	}
	require.NotNil(t, frozen)
	assert.Equal(t, "Ana Reyes", frozen.OwnerName)
	assertDecimal(t, "50", frozen.Coefficient)
}

func TestGetByPeriod_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	_, err := env.svc.GetByPeriod(ctx, condo.ID.String(), "04-2024")
	assert.ErrorIs(t, err, settlementdomain.ErrNotFound)
}

func TestList_OrdersByCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	condo, _, _ := env.createCondoWithTwoUnits(t)

	march := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 500, march)

	_, err := env.svc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         3,
		Year:          2024,
	})
	require.NoError(t, err)

	env.clock.Advance(30 * 24 * time.Hour)
	april := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	env.addExpense(t, condo.ID, expensedomain.AllocationClassA, 700, april)

	_, err = env.svc.Confirm(ctx, settlementdomain.DraftRequest{
		CondominiumID: condo.ID.String(),
		Month:         4,
		Year:          2024,
	})
	require.NoError(t, err)

	settlements, err := env.svc.List(ctx, condo.ID.String())
	require.NoError(t, err)
	require.Len(t, settlements, 2)
	assert.Equal(t, "04-2024", settlements[0].Period)
	assert.Equal(t, "03-2024", settlements[1].Period)
}
