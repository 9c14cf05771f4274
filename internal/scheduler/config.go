package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

// Config tunes the background loop. AutoClose is opt-in: when disabled the
// scheduler never writes, operators confirm periods by hand.
type Config struct {
	RunInterval    time.Duration
	AutoClose      bool
	CloseAfterDay  int
	ConfirmTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = time.Hour
	}
	if c.CloseAfterDay <= 0 || c.CloseAfterDay > 28 {
		c.CloseAfterDay = 5
	}
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = 30 * time.Second
	}
	return c
}
