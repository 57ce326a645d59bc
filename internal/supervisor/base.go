package supervisor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mjmilez/Garden-E-Cutters/internal/indicator"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
	"github.com/mjmilez/Garden-E-Cutters/internal/pending"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio"
	"github.com/mjmilez/Garden-E-Cutters/internal/transfer"
)

// BaseSupervisor owns the base-side central lifecycle: scan/connect, run a
// Reception to completion, repeat (spec §4.F items 1, 3, 4, 5, 6), and
// consumes the single pending-request slot on discovery completion (spec
// §4.H).
type BaseSupervisor struct {
	central   radio.Central
	sink      transfer.HostSink
	pending   *pending.Queue
	indicator *indicator.Indicator
	log       *slog.Logger
	metrics   *metrics.Collector

	mu      sync.Mutex
	current *transfer.Reception
}

// BaseOption configures optional BaseSupervisor collaborators.
type BaseOption func(*BaseSupervisor)

// WithBaseMetrics attaches a collector that receives link up/down transitions.
func WithBaseMetrics(m *metrics.Collector) BaseOption {
	return func(b *BaseSupervisor) { b.metrics = m }
}

// NewBaseSupervisor wires the central capability, the host sink the
// resulting receptions will forward to, the pending-request queue, and the
// connection indicator.
func NewBaseSupervisor(central radio.Central, sink transfer.HostSink, pendingQueue *pending.Queue, ind *indicator.Indicator, opts ...BaseOption) *BaseSupervisor {
	b := &BaseSupervisor{
		central:   central,
		sink:      sink,
		pending:   pendingQueue,
		indicator: ind,
		log:       logger.Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RequestLog is the application's entry point (spec §4.D/§4.H). If a
// Reception is currently connected, the request is forwarded immediately;
// otherwise it is stored in the pending slot for consumption on discovery
// completion.
func (b *BaseSupervisor) RequestLog(name string) {
	b.mu.Lock()
	rec := b.current
	b.mu.Unlock()
	if rec != nil {
		if err := rec.Request(name); err != nil {
			b.log.Warn("request failed on connected link", "error", err)
		}
		return
	}
	b.pending.Set(name)
}

// Run scans/connects in a loop, consuming the pending slot on each
// discovery completion and driving the resulting Reception to completion
// (spec §4.F, §4.H, scenario S5).
func (b *BaseSupervisor) Run(ctx context.Context) error {
	for {
		link, err := b.central.Connect(ctx, radio.AdvertiseName)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn("connect failed, resuming scan", "error", err)
			continue
		}

		rec := transfer.NewReception(link, b.sink)
		b.mu.Lock()
		b.current = rec
		b.mu.Unlock()
		b.setConnected(true)
		b.log.Info("base link established", "link_id", link.ID())

		if name, ok := b.pending.TakeIfPresent(); ok {
			if err := rec.Request(name); err != nil {
				b.log.Warn("pending request failed on discovery completion", "error", err)
			}
		}

		runErr := rec.Run(ctx)

		b.mu.Lock()
		b.current = nil
		b.mu.Unlock()
		b.setConnected(false)

		if runErr != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Info("base link closed, resuming scan", "link_id", link.ID())
	}
}

func (b *BaseSupervisor) setConnected(connected bool) {
	if b.indicator != nil {
		b.indicator.SetConnected(connected)
	}
	if b.metrics != nil {
		if connected {
			b.metrics.LinkUp()
		} else {
			b.metrics.LinkDown()
		}
	}
}
