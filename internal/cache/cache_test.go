package cache

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGetDelete(t *testing.T) {
	c := NewTTLCache[string, int]()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1, time.Minute)
	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	c.Set("a", 2, time.Minute)
	value, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, value)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_NonPositiveTTLIsNoop(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1, -time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCarryoverCache_RoundTrip(t *testing.T) {
	c := NewCarryoverCache()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	condoID := node.Generate()
	unitID := node.Generate()

	_, ok := c.Get(condoID, "03-2024")
	assert.False(t, ok)

	c.Set(condoID, "03-2024", map[snowflake.ID]decimal.Decimal{
		unitID: decimal.NewFromInt(1962),
	})

	balances, ok := c.Get(condoID, "03-2024")
	require.True(t, ok)
	assert.True(t, balances[unitID].Equal(decimal.NewFromInt(1962)))

	// Another period or condominium never collides.
	_, ok = c.Get(condoID, "04-2024")
	assert.False(t, ok)
	_, ok = c.Get(node.Generate(), "03-2024")
	assert.False(t, ok)
}

func TestCarryoverCache_NilMapNotStored(t *testing.T) {
	c := NewCarryoverCache()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	condoID := node.Generate()

	c.Set(condoID, "03-2024", nil)
	_, ok := c.Get(condoID, "03-2024")
	assert.False(t, ok)
}
