package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// SettlementDefaults are the pre-filled rates offered to administrators when
// they open a new billing period. The operator can still override both on every
// draft; these are starting values, not engine invariants.
type SettlementDefaults struct {
	InterestRate    string `mapstructure:"interestRate"`
	ReserveFundRate string `mapstructure:"reserveFundRate"`
}

func DefaultSettlementDefaults() SettlementDefaults {
	return SettlementDefaults{
		InterestRate:    "0",
		ReserveFundRate: "0",
	}
}

func (d SettlementDefaults) InterestRateDecimal() decimal.Decimal {
	v, _ := decimal.NewFromString(d.InterestRate)
	return v
}

func (d SettlementDefaults) ReserveFundRateDecimal() decimal.Decimal {
	v, _ := decimal.NewFromString(d.ReserveFundRate)
	return v
}

// NewStaticSettlementDefaults returns a holder pinned to fixed values, with
// no file watching. Callers that want hot reload use
// NewSettlementDefaultsHolder instead.
func NewStaticSettlementDefaults(d SettlementDefaults) *SettlementDefaultsHolder {
	holder := &SettlementDefaultsHolder{}
	holder.current.Store(d)
	return holder
}

type SettlementDefaultsHolder struct {
	current atomic.Value // holds SettlementDefaults
}

func NewSettlementDefaultsHolder() (*SettlementDefaultsHolder, error) {
	v := viper.New()

	v.SetConfigName("settlement")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/vecino")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VECINO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultSettlementDefaults()
		v.SetDefault("settlement.interestRate", defaults.InterestRate)
		v.SetDefault("settlement.reserveFundRate", defaults.ReserveFundRate)
	}

	var cfg SettlementDefaults
	if err := v.UnmarshalKey("settlement", &cfg); err != nil {
		return nil, err
	}
	if err := validateSettlementDefaults(cfg); err != nil {
		return nil, err
	}

	holder := &SettlementDefaultsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated SettlementDefaults
		if err := v.UnmarshalKey("settlement", &updated); err != nil {
			log.Printf("[settlement-config] reload failed: %v", err)
			return
		}
		if err := validateSettlementDefaults(updated); err != nil {
			log.Printf("[settlement-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[settlement-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SettlementDefaultsHolder) Get() SettlementDefaults {
	return h.current.Load().(SettlementDefaults)
}

func validateSettlementDefaults(cfg SettlementDefaults) error {
	for _, raw := range []string{cfg.InterestRate, cfg.ReserveFundRate} {
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New("settlement rates must be between 0 and 100")
		}
	}
	return nil
}
