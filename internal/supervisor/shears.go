// Package supervisor implements the connection supervisor named in spec
// §4.F: bringing up the radio stack, advertising or scanning, routing
// notifications to the transfer state machines, and driving the connection
// indicator.
package supervisor

import (
	"context"
	"log/slog"

	"github.com/mjmilez/Garden-E-Cutters/internal/indicator"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio"
	"github.com/mjmilez/Garden-E-Cutters/internal/transfer"
)

// ShearsSupervisor owns the shears-side peripheral lifecycle: advertise,
// accept one connection, run a Session to completion, repeat (spec §4.F
// items 1, 2, 4, 5).
type ShearsSupervisor struct {
	peripheral radio.Peripheral
	source     transfer.FileSource
	indicator  *indicator.Indicator
	log        *slog.Logger
	metrics    *metrics.Collector
}

// ShearsOption configures optional ShearsSupervisor collaborators.
type ShearsOption func(*ShearsSupervisor)

// WithShearsMetrics attaches a collector that receives link up/down
// transitions and is forwarded to every Session this supervisor spawns.
func WithShearsMetrics(m *metrics.Collector) ShearsOption {
	return func(s *ShearsSupervisor) { s.metrics = m }
}

// NewShearsSupervisor wires the peripheral capability, the file source the
// resulting sessions will read from, and the connection indicator.
func NewShearsSupervisor(peripheral radio.Peripheral, source transfer.FileSource, ind *indicator.Indicator, opts ...ShearsOption) *ShearsSupervisor {
	s := &ShearsSupervisor{
		peripheral: peripheral,
		source:     source,
		indicator:  ind,
		log:        logger.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run brings up advertising and, for as long as ctx is live, accepts one
// connection at a time and drives its Session to completion before
// resuming advertising (spec §4.F: "resumes advertising on disconnect or
// connect failure").
func (s *ShearsSupervisor) Run(ctx context.Context) error {
	for {
		if err := s.peripheral.Advertise(ctx, radio.AdvertiseName, radio.ServiceID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Error("advertise failed", "error", err)
			continue
		}

		link, err := s.peripheral.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn("accept failed, resuming advertising", "error", err)
			continue
		}

		s.setConnected(true)
		sess := transfer.NewSession(link, s.source, transfer.WithMetrics(s.metrics))
		s.log.Info("shears link established", "link_id", link.ID())
		if err := sess.Run(ctx); err != nil && ctx.Err() != nil {
			s.setConnected(false)
			return ctx.Err()
		}
		s.log.Info("shears link closed, resuming advertising", "link_id", link.ID())
		s.setConnected(false)
	}
}

func (s *ShearsSupervisor) setConnected(connected bool) {
	if s.indicator != nil {
		s.indicator.SetConnected(connected)
	}
	if s.metrics != nil {
		if connected {
			s.metrics.LinkUp()
		} else {
			s.metrics.LinkDown()
		}
	}
}
