package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vecinohq/vecino/internal/clock"
	"github.com/vecinohq/vecino/internal/condominium"
	"github.com/vecinohq/vecino/internal/config"
	"github.com/vecinohq/vecino/internal/expense"
	"github.com/vecinohq/vecino/internal/logger"
	"github.com/vecinohq/vecino/internal/metrics"
	"github.com/vecinohq/vecino/internal/migration"
	"github.com/vecinohq/vecino/internal/payment"
	"github.com/vecinohq/vecino/internal/scheduler"
	"github.com/vecinohq/vecino/internal/server"
	"github.com/vecinohq/vecino/internal/settlement"
	"github.com/vecinohq/vecino/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		db.Module,
		migration.Module,

		// Functional domains
		condominium.Module,
		expense.Module,
		payment.Module,
		settlement.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
