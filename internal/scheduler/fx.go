package scheduler

import (
	"context"
	"time"

	"github.com/vecinohq/vecino/internal/config"
	"go.uber.org/fx"
)

func ProvideConfig(cfg config.Config) Config {
	return Config{
		RunInterval:   time.Duration(cfg.SchedulerRunIntervalMin) * time.Minute,
		AutoClose:     cfg.SchedulerAutoClose,
		CloseAfterDay: cfg.SchedulerCloseAfterDay,
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(NewScheduler),
)

func NewScheduler(lc fx.Lifecycle, sched *Scheduler) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sched.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
