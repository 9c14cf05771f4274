package condominium

import (
	"github.com/vecinohq/vecino/internal/condominium/service"
	"go.uber.org/fx"
)

var Module = fx.Module("condominium.service",
	fx.Provide(service.NewService),
)
