package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"gorm.io/gorm"
)

func newLedgerEnv(t *testing.T) (*gorm.DB, *snowflake.Node, expensedomain.Ledger) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&expensedomain.Expense{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return db, node, ProvideLedger(db)
}

func addExpense(t *testing.T, db *gorm.DB, node *snowflake.Node, condoID snowflake.ID, class expensedomain.AllocationClass, amount string, date time.Time) {
	t.Helper()
	value, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	require.NoError(t, db.Create(&expensedomain.Expense{
		ID:              node.Generate(),
		CondominiumID:   condoID,
		Description:     "test",
		AllocationClass: class,
		Amount:          value,
		Date:            date,
	}).Error)
}

func TestSumByClass_GroupsAndExcludesParticular(t *testing.T) {
	db, node, ledger := newLedgerEnv(t)
	condoID := node.Generate()

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "1000.50", april)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "499.50", april)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassB, "2000", april)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassC, "300", april)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassParticular, "750", april)

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)
	totals, err := ledger.SumByClass(context.Background(), condoID, from, to)
	require.NoError(t, err)

	assert.True(t, totals.ClassA.Equal(decimal.NewFromInt(1500)), totals.ClassA.String())
	assert.True(t, totals.ClassB.Equal(decimal.NewFromInt(2000)), totals.ClassB.String())
	assert.True(t, totals.ClassC.Equal(decimal.NewFromInt(300)), totals.ClassC.String())
	// PARTICULAR is recorded but never part of the billed total.
	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(3800)), totals.GrandTotal.String())
}

func TestSumByClass_BoundsAreInclusive(t *testing.T) {
	db, node, ledger := newLedgerEnv(t)
	condoID := node.Generate()

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "100", from)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "200", to)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "400", from.AddDate(0, 0, -1))
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "800", to.AddDate(0, 0, 1))

	totals, err := ledger.SumByClass(context.Background(), condoID, from, to)
	require.NoError(t, err)

	assert.True(t, totals.ClassA.Equal(decimal.NewFromInt(300)), totals.ClassA.String())
}

func TestSumByClass_ScopedToCondominium(t *testing.T) {
	db, node, ledger := newLedgerEnv(t)
	condoID := node.Generate()
	otherID := node.Generate()

	april := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	addExpense(t, db, node, condoID, expensedomain.AllocationClassA, "100", april)
	addExpense(t, db, node, otherID, expensedomain.AllocationClassA, "900", april)

	from, to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)
	totals, err := ledger.SumByClass(context.Background(), condoID, from, to)
	require.NoError(t, err)

	assert.True(t, totals.GrandTotal.Equal(decimal.NewFromInt(100)), totals.GrandTotal.String())
}
