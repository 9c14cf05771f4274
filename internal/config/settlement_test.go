package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementDefaults_RateDecimals(t *testing.T) {
	d := SettlementDefaults{InterestRate: "2.5", ReserveFundRate: "5"}

	assert.True(t, d.InterestRateDecimal().Equal(decimal.RequireFromString("2.5")))
	assert.True(t, d.ReserveFundRateDecimal().Equal(decimal.NewFromInt(5)))
}

func TestValidateSettlementDefaults(t *testing.T) {
	valid := []SettlementDefaults{
		{InterestRate: "0", ReserveFundRate: "0"},
		{InterestRate: "100", ReserveFundRate: "2.75"},
		{InterestRate: " 3 ", ReserveFundRate: "5"},
	}
	for _, d := range valid {
		assert.NoError(t, validateSettlementDefaults(d), d.InterestRate)
	}

	invalid := []SettlementDefaults{
		{InterestRate: "-1", ReserveFundRate: "0"},
		{InterestRate: "0", ReserveFundRate: "100.01"},
		{InterestRate: "abc", ReserveFundRate: "0"},
		{InterestRate: "", ReserveFundRate: "0"},
	}
	for _, d := range invalid {
		assert.Error(t, validateSettlementDefaults(d), d.InterestRate)
	}
}

func TestNewStaticSettlementDefaults(t *testing.T) {
	holder := NewStaticSettlementDefaults(SettlementDefaults{InterestRate: "2", ReserveFundRate: "5"})

	got := holder.Get()
	require.Equal(t, "2", got.InterestRate)
	require.Equal(t, "5", got.ReserveFundRate)
}
