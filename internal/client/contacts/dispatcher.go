package contacts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/logging"
)

const defaultSyncTimeout = 30 * time.Second

// SyncFunc performs one sync run.
type SyncFunc func(ctx context.Context) (int, error)

// Dispatcher runs sync on a single background worker. Triggers that arrive
// while a run is pending are coalesced into it; a trigger during a run
// schedules exactly one more run.
type Dispatcher struct {
	fn      SyncFunc
	logger  logging.Logger
	timeout time.Duration

	pending chan struct{}
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(fn SyncFunc, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		fn:      fn,
		logger:  logger,
		timeout: defaultSyncTimeout,
		pending: make(chan struct{}, 1),
	}
}

// Start launches the worker. It exits when ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.stop = context.WithCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.pending:
				d.run(ctx)
			}
		}
	}()
}

// Trigger schedules a run and returns immediately.
func (d *Dispatcher) Trigger() {
	select {
	case d.pending <- struct{}{}:
	default:
	}
}

// Stop cancels a run in progress and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	if d.stop != nil {
		d.stop()
	}
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	n, err := d.fn(ctx)
	if err != nil {
		d.logger.Warn(ctx, "contact sync failed", "error", err)
		return
	}
	d.logger.Debug(ctx, "contact sync done", "contacts", n)
}
