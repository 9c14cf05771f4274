package settlement

import (
	"github.com/vecinohq/vecino/internal/cache"
	"github.com/vecinohq/vecino/internal/settlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("settlement.service",
	fx.Provide(cache.NewCarryoverCache),
	fx.Provide(service.NewService),
)
