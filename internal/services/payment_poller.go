package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"autumhire/internal/models/db_models"
)

// PollPolicy bounds the server-side status fallback for one STK push. The
// provider callback stays authoritative; polling only covers lost callbacks.
type PollPolicy struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{InitialDelay: 20 * time.Second, Interval: 5 * time.Second, MaxAttempts: 12}
}

type statusChecker func(ctx context.Context, checkoutID string) (db_models.AttemptStatus, error)

type paymentPoller struct {
	policy PollPolicy
	check  statusChecker
	expire func(ctx context.Context, checkoutID string)
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func newPaymentPoller(policy PollPolicy, check statusChecker, expire func(ctx context.Context, checkoutID string), log *zap.Logger) *paymentPoller {
	ctx, cancel := context.WithCancel(context.Background())
	return &paymentPoller{
		policy: policy,
		check:  check,
		expire: expire,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Watch polls checkoutID until it leaves pending or the attempts run out, in
// which case the attempt is expired.
func (p *paymentPoller) Watch(checkoutID string) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		wait := p.policy.InitialDelay
		for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
			timer := time.NewTimer(wait)
			select {
			case <-p.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			status, err := p.check(p.ctx, checkoutID)
			if err != nil {
				p.log.Warn("payment status poll failed",
					zap.String("checkout_request_id", checkoutID),
					zap.Int("attempt", attempt),
					zap.Error(err))
			} else if status.IsTerminal() {
				return
			}
			wait = p.policy.Interval
		}

		if p.ctx.Err() == nil {
			p.expire(p.ctx, checkoutID)
		}
	}()
}

// Stop cancels every running poll and waits for them to return.
func (p *paymentPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
