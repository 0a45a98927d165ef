// Package poller re-runs a fetch on a cron schedule with at most one fetch in
// flight at a time.
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/logging"
	"github.com/robfig/cron/v3"
)

// DefaultSpec polls once a minute.
const DefaultSpec = "@every 60s"

// Func is one poll. It must honour ctx cancellation.
type Func func(ctx context.Context) error

type Poller struct {
	name     string
	schedule cron.Schedule
	fetch    Func
	logger   logging.Logger
	onError  func(error)
	now      func() time.Time

	immediate bool
	inFlight  atomic.Bool
	runs      atomic.Int64
	skipped   atomic.Int64
}

type Option func(*Poller)

func WithLogger(l logging.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

// WithErrorHandler receives every failed fetch except cancellations.
func WithErrorHandler(fn func(error)) Option {
	return func(p *Poller) { p.onError = fn }
}

// WithImmediate fetches once as soon as Run starts.
func WithImmediate() Option {
	return func(p *Poller) { p.immediate = true }
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

// New parses spec (standard cron or a descriptor such as "@every 30s").
func New(name, spec string, fetch Func, opts ...Option) (*Poller, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("poll schedule %q: %w", spec, err)
	}
	return NewWithSchedule(name, s, fetch, opts...), nil
}

func NewWithSchedule(name string, s cron.Schedule, fetch Func, opts ...Option) *Poller {
	p := &Poller{
		name:     name,
		schedule: s,
		fetch:    fetch,
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run ticks until ctx is done. Cancelling ctx also cancels the fetch in
// flight; Run returns once it has finished.
func (p *Poller) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	if p.immediate {
		p.tick(ctx, &wg)
	}

	for {
		now := p.now()
		timer := time.NewTimer(p.schedule.Next(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			p.tick(ctx, &wg)
		}
	}
}

func (p *Poller) tick(ctx context.Context, wg *sync.WaitGroup) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug(ctx, "poll skipped, previous still running", "poller", p.name)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inFlight.Store(false)

		p.runs.Add(1)
		err := p.fetch(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}
		p.logger.Warn(ctx, "poll failed", "poller", p.name, "error", err)
		if p.onError != nil {
			p.onError(err)
		}
	}()
}

// Runs is the number of fetches started.
func (p *Poller) Runs() int64 { return p.runs.Load() }

// Skipped is the number of ticks dropped because a fetch was in flight.
func (p *Poller) Skipped() int64 { return p.skipped.Load() }
