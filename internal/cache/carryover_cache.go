package cache

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const defaultCarryoverTTL = 10 * time.Minute

// CarryoverCache stores per-unit closing balances of terminal settlements.
// A terminal settlement never changes, so staleness within the TTL cannot
// serve wrong data; the TTL only bounds memory.
type CarryoverCache interface {
	Get(condominiumID snowflake.ID, period string) (map[snowflake.ID]decimal.Decimal, bool)
	Set(condominiumID snowflake.ID, period string, balances map[snowflake.ID]decimal.Decimal)
}

type carryoverCache struct {
	balances Cache[string, map[snowflake.ID]decimal.Decimal]
	ttl      time.Duration
}

// NewCarryoverCache returns an in-memory cache for settlement carry-over maps.
func NewCarryoverCache() CarryoverCache {
	return &carryoverCache{
		balances: NewTTLCache[string, map[snowflake.ID]decimal.Decimal](),
		ttl:      defaultCarryoverTTL,
	}
}

func (c *carryoverCache) Get(condominiumID snowflake.ID, period string) (map[snowflake.ID]decimal.Decimal, bool) {
	return c.balances.Get(cacheKey(condominiumID.String(), period))
}

func (c *carryoverCache) Set(condominiumID snowflake.ID, period string, balances map[snowflake.ID]decimal.Decimal) {
	if balances == nil {
		return
	}
	c.balances.Set(cacheKey(condominiumID.String(), period), balances, c.ttl)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
