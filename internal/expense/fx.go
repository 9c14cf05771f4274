package expense

import (
	"github.com/vecinohq/vecino/internal/expense/repository"
	"github.com/vecinohq/vecino/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.ProvideLedger),
	fx.Provide(service.NewService),
)
