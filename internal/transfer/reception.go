package transfer

import (
	"context"
	"log/slog"

	"github.com/mjmilez/Garden-E-Cutters/internal/frame"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio"
)

// ReceptionState is the base-side log client's lifecycle state (spec §4.D).
type ReceptionState uint8

const (
	ReceptionIdle ReceptionState = iota
	ReceptionAwaitingAccept
	ReceptionReceiving
)

func (r ReceptionState) String() string {
	switch r {
	case ReceptionIdle:
		return "IDLE"
	case ReceptionAwaitingAccept:
		return "AWAITING_ACCEPT"
	case ReceptionReceiving:
		return "RECEIVING"
	default:
		return "UNKNOWN"
	}
}

// MismatchPolicy governs chunk-index-mismatch handling in RECEIVING (spec
// §4.D open question, resolved in favor of the specified default): strict
// drops mismatched chunks; permissive realigns to the received index.
type MismatchPolicy uint8

const (
	MismatchStrict MismatchPolicy = iota
	MismatchPermissive
)

// HostSink is the narrow capability Reception needs from the serial uplink
// to the host (spec §4.D/§4.E): transfer lifecycle status plus forwarded log
// lines. Implemented by internal/uplink.Writer.
type HostSink interface {
	TransferStart() error
	TransferDone() error
	TransferError() error
	LogLine(payload []byte) error
}

// Reception is the base-side log client state machine, bound to one
// established radio link for its lifetime.
type Reception struct {
	link   radio.BaseLink
	sink   HostSink
	policy MismatchPolicy
	log    *slog.Logger

	state                  ReceptionState
	requestedName          string
	expectedSize           uint32
	bytesReceived          uint32
	nextExpectedChunkIndex uint16
	active                 bool
}

// ReceptionOption configures a Reception at construction.
type ReceptionOption func(*Reception)

// WithMismatchPolicy overrides the default strict chunk-index-mismatch
// policy (spec §4.D: "strict is the specified default").
func WithMismatchPolicy(p MismatchPolicy) ReceptionOption {
	return func(r *Reception) { r.policy = p }
}

// NewReception binds a freshly connected link to a new IDLE reception.
func NewReception(link radio.BaseLink, sink HostSink, opts ...ReceptionOption) *Reception {
	r := &Reception{
		link:   link,
		sink:   sink,
		policy: MismatchStrict,
		log:    logger.WithLink(logger.Logger(), link.ID()),
		state:  ReceptionIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the reception's current lifecycle state.
func (r *Reception) State() ReceptionState { return r.state }

// Request is the application's entry point: in IDLE it writes START_TRANSFER
// and transitions to AWAITING_ACCEPT (spec §4.D). The single pending-request
// slot for the case where channels aren't yet known is pending.Queue
// (internal/pending), which internal/supervisor consumes one layer up, since
// it predates link establishment.
func (r *Reception) Request(name string) error {
	if r.state != ReceptionIdle {
		r.log.Warn("ignoring request while a reception is already in progress", "state", r.state.String())
		return nil
	}
	if err := r.link.WriteControl(frame.EncodeStartTransfer(name)); err != nil {
		return err
	}
	r.requestedName = name
	r.state = ReceptionAwaitingAccept
	return nil
}

// Abort writes ABORT to the control channel. Spec names ABORT only as a
// shears-session transition; the base may still issue it at the
// application's request while RECEIVING.
func (r *Reception) Abort() error {
	return r.link.WriteControl(frame.EncodeAbort())
}

// Run drains control and data notifications until the link closes (link
// loss) or ctx is cancelled.
func (r *Reception) Run(ctx context.Context) error {
	defer r.resetOnLinkLoss()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-r.link.ControlNotifications():
			if !ok {
				return nil
			}
			r.handleControl(raw)
		case raw, ok := <-r.link.DataNotifications():
			if !ok {
				return nil
			}
			r.handleData(raw)
		}
	}
}

func (r *Reception) handleControl(raw []byte) {
	code, size, err := frame.DecodeStatus(raw)
	if err != nil {
		r.log.Warn("dropping malformed status", "error", err)
		return
	}
	switch r.state {
	case ReceptionAwaitingAccept:
		r.handleAwaitingAcceptStatus(code, size)
	case ReceptionReceiving:
		r.handleReceivingStatus(code, size)
	default:
		r.log.Warn("unexpected status outside a pending reception", "code", code.String())
	}
}

func (r *Reception) handleAwaitingAcceptStatus(code frame.StatusCode, size uint32) {
	if code == frame.StatusAccepted {
		r.expectedSize = size
		r.bytesReceived = 0
		r.nextExpectedChunkIndex = 0
		r.active = true
		r.state = ReceptionReceiving
		r.log.Info("transfer accepted", "basename", r.requestedName, "expected_size", size)
		if err := r.sink.TransferStart(); err != nil {
			r.log.Warn("host transfer-start emission failed", "error", err)
		}
		return
	}
	r.log.Warn("transfer rejected", "code", code.String())
	r.state = ReceptionIdle
	if err := r.sink.TransferError(); err != nil {
		r.log.Warn("host transfer-error emission failed", "error", err)
	}
}

func (r *Reception) handleReceivingStatus(code frame.StatusCode, size uint32) {
	r.active = false
	r.state = ReceptionIdle
	if r.bytesReceived < r.expectedSize {
		r.log.Warn("terminal status with fewer bytes received than expected", "bytes_received", r.bytesReceived, "expected_size", r.expectedSize, "code", code.String())
	}
	switch code {
	case frame.StatusDone:
		if err := r.sink.TransferDone(); err != nil {
			r.log.Warn("host transfer-done emission failed", "error", err)
		}
	default:
		if err := r.sink.TransferError(); err != nil {
			r.log.Warn("host transfer-error emission failed", "error", err)
		}
	}
}

func (r *Reception) handleData(raw []byte) {
	if r.state != ReceptionReceiving {
		r.log.Warn("dropping chunk outside RECEIVING")
		return
	}
	index, payload, err := frame.DecodeChunk(raw)
	if err != nil {
		r.log.Warn("dropping malformed chunk", "error", err)
		return
	}
	if index != r.nextExpectedChunkIndex {
		r.log.Warn("chunk index mismatch", "got", index, "want", r.nextExpectedChunkIndex, "policy", r.policy)
		if r.policy == MismatchPermissive {
			r.nextExpectedChunkIndex = index
		} else {
			return
		}
	}
	if err := r.sink.LogLine(payload); err != nil {
		r.log.Warn("forwarding chunk to host failed", "error", err)
	}
	r.bytesReceived += uint32(len(payload))
	r.nextExpectedChunkIndex++
}

// resetOnLinkLoss implements spec §4.D's "RECEIVING, on link loss: clear
// active flag; transition IDLE (no host status emitted)."
func (r *Reception) resetOnLinkLoss() {
	r.active = false
	r.state = ReceptionIdle
}
