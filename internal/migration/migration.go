package migration

import (
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	"github.com/vecinohq/vecino/internal/config"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	"github.com/vecinohq/vecino/internal/seed"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run migrates the schema on startup. AutoMigrate covers tables and plain
// indexes; the partial unique index that allows exactly one non-draft
// settlement per (condominium, period) needs raw SQL because gorm tags
// cannot express the WHERE clause.
func Run(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
	log = log.Named("migration")

	err := db.AutoMigrate(
		&condominiumdomain.Condominium{},
		&condominiumdomain.Unit{},
		&expensedomain.Expense{},
		&paymentdomain.Payment{},
		&settlementdomain.Settlement{},
		&settlementdomain.UnitAccountStatus{},
	)
	if err != nil {
		return err
	}

	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_settlements_condominium_period
		 ON settlements (condominium_id, period)
		 WHERE status <> 'DRAFT'`,
	).Error
	if err != nil {
		return err
	}

	if cfg.SeedDemo && cfg.Environment != "production" {
		if err := seed.EnsureDemoCondominium(db); err != nil {
			return err
		}
		log.Info("demo condominium seeded")
	}

	log.Info("schema migrated")
	return nil
}
