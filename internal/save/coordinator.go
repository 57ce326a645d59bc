// Package save implements the shears save-request coordinator (spec §4.G):
// a GPIO interrupt and a software entry point both set a single flag, and a
// dedicated worker polls that flag at ~100 Hz and invokes the line
// assembler's save path.
package save

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mjmilez/Garden-E-Cutters/internal/ids"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
)

// pollInterval matches the ~100 Hz poll rate named in spec §4.G and §5.
const pollInterval = 10 * time.Millisecond

// Recorder is the save path invoked once per observed request (spec §4.B).
type Recorder interface {
	Save() error
}

// EdgeSource models the designated GPIO input: active-low, pull-up enabled,
// negative edge (spec §4.G, §6). A real implementation wires an interrupt
// handler to Edges(); tests and the loopback build can use a channel-backed
// fake.
type EdgeSource interface {
	// Edges delivers one value for every negative edge observed. The
	// coordinator never blocks publishing into this channel's consumer side
	// — it is the producer; Edges is the read-only view the coordinator
	// subscribes to.
	Edges() <-chan struct{}
}

// Coordinator holds the single module-scope save-request flag (spec §4.G:
// "Both set a single module-scope flag"). The flag is a lock-free atomic:
// "Must be declared volatile/atomic; no lock needed because the semantics
// are set-then-observe" (spec §5).
type Coordinator struct {
	flag     atomic.Bool
	recorder Recorder
	edges    EdgeSource
}

// NewCoordinator wires the save path (recorder) and, optionally, an edge
// source for the GPIO interrupt. edges may be nil if only the software entry
// point (RequestSave) is used, e.g. in tests.
func NewCoordinator(recorder Recorder, edges EdgeSource) *Coordinator {
	return &Coordinator{recorder: recorder, edges: edges}
}

// RequestSave is the software entry point: it sets the flag. Idempotent —
// setting an already-set flag has no additional effect (spec §4.G: "Both set
// a single module-scope flag", meaning either path produces the same
// outcome, not a counted queue).
func (c *Coordinator) RequestSave() {
	c.flag.Store(true)
}

// Run is the dedicated long-running worker: it polls the flag at
// pollInterval, clears it on observation, and invokes the save path (spec
// §4.G). It also drains the edge source, if any, translating each negative
// edge into a flag set — the interrupt handler itself must never touch the
// filesystem (spec §4.G rationale).
func (c *Coordinator) Run(ctx context.Context) error {
	var edges <-chan struct{}
	if c.edges != nil {
		edges = c.edges.Edges()
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-edges:
			c.flag.Store(true)
		case <-ticker.C:
			if c.flag.CompareAndSwap(true, false) {
				requestID := ids.NewRequestID()
				if err := c.recorder.Save(); err != nil {
					logger.Error("save path failed", "request_id", requestID, "error", err)
				} else {
					logger.Debug("save path completed", "request_id", requestID)
				}
			}
		}
	}
}
