package scheduler_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"autumhire/internal/scheduler"
	"autumhire/internal/services"
	mem "autumhire/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideScheduler),
	fx.Invoke(func(*scheduler.Scheduler) {}),
)

func provideScheduler(
	lc fx.Lifecycle,
	jobs services.JobServiceInterface,
	payments services.PaymentServiceInterface,
	cache mem.Cache,
	log *zap.Logger,
) *scheduler.Scheduler {
	tasks := []scheduler.Task{
		{Name: "job-expiry", Spec: scheduler.JobExpirySpec, Run: jobs.CloseExpired},
		{Name: "stale-payments", Spec: scheduler.StalePaymentSpec, Run: payments.SweepStale},
	}
	if ttl, ok := cache.(*mem.TTLCache); ok {
		tasks = append(tasks, scheduler.Task{
			Name: "cache-sweep",
			Spec: scheduler.CacheSweepSpec,
			Run: func(context.Context) (int64, error) {
				return int64(ttl.Sweep()), nil
			},
		})
	}

	s := scheduler.New(log.Named("scheduler"), tasks...)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return s.Start() },
		OnStop:  s.Stop,
	})
	return s
}
