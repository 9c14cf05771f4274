package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	"gorm.io/gorm"
)

const (
	demoCondominiumName    = "Edificio Mirador"
	demoCondominiumAddress = "Av. Los Aromos 742"
)

type demoUnit struct {
	number      string
	ownerName   string
	coefficient string
}

var demoUnits = []demoUnit{
	{number: "101", ownerName: "Ana Reyes", coefficient: "12.50"},
	{number: "102", ownerName: "Luis Paredes", coefficient: "12.50"},
	{number: "201", ownerName: "Carmen Soto", coefficient: "18.75"},
	{number: "202", ownerName: "Jorge Fuentes", coefficient: "18.75"},
	{number: "301", ownerName: "Isabel Vidal", coefficient: "18.75"},
	{number: "302", ownerName: "Pedro Lagos", coefficient: "18.75"},
}

// EnsureDemoCondominium seeds a demo building with units for local
// development. Idempotent: an existing condominium of the same name wins.
func EnsureDemoCondominium(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		condo, err := ensureCondominiumTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureUnitsTx(ctx, tx, node, condo.ID)
	})
}

func ensureCondominiumTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (condominiumdomain.Condominium, error) {
	var condo condominiumdomain.Condominium
	err := tx.WithContext(ctx).
		Where("name = ?", demoCondominiumName).
		First(&condo).Error
	if err == nil {
		return condo, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return condominiumdomain.Condominium{}, err
	}

	condo = condominiumdomain.Condominium{
		ID:      node.Generate(),
		Name:    demoCondominiumName,
		Address: demoCondominiumAddress,
	}
	if err := tx.WithContext(ctx).Create(&condo).Error; err != nil {
		return condominiumdomain.Condominium{}, err
	}
	return condo, nil
}

func ensureUnitsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, condominiumID snowflake.ID) error {
	for _, unit := range demoUnits {
		coefficient, err := decimal.NewFromString(unit.coefficient)
		if err != nil {
			return err
		}

		var existing condominiumdomain.Unit
		err = tx.WithContext(ctx).
			Where("condominium_id = ? AND number = ?", condominiumID, unit.number).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.WithContext(ctx).Create(&condominiumdomain.Unit{
			ID:            node.Generate(),
			CondominiumID: condominiumID,
			Number:        unit.number,
			OwnerName:     unit.ownerName,
			Coefficient:   coefficient,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
