package payment

import (
	"github.com/vecinohq/vecino/internal/payment/repository"
	"github.com/vecinohq/vecino/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.ProvideAggregator),
	fx.Provide(service.NewService),
)
