// Package transfer implements the two halves of the log-transfer protocol:
// Session, the shears-side log server (spec §4.C), and Reception, the
// base-side log client (spec §4.D).
package transfer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/mjmilez/Garden-E-Cutters/internal/bufpool"
	"github.com/mjmilez/Garden-E-Cutters/internal/frame"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio"
)

// SessionState is the shears log server's lifecycle state (spec §4.C).
type SessionState uint8

const (
	SessionIdle SessionState = iota
	SessionActive
	SessionFinalizing
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "IDLE"
	case SessionActive:
		return "ACTIVE"
	case SessionFinalizing:
		return "FINALIZING"
	default:
		return "UNKNOWN"
	}
}

// activeTick and idleTick are the transfer emitter's scheduled-delay poll
// intervals (spec §5: "Transfer emitter: blocks on scheduled delay (10 ms
// when active, 50 ms when idle)").
const (
	activeTick = 10 * time.Millisecond
	idleTick   = 50 * time.Millisecond
)

// Session is the shears-side log server state machine, bound to exactly one
// established radio link for its lifetime.
type Session struct {
	link   radio.ShearsLink
	source FileSource
	log    *slog.Logger

	state        SessionState
	file         io.ReadSeekCloser
	fileSize     uint32
	chunkIndex   uint16
	bytesEmitted uint32
	payloadSize  int

	metrics *metrics.Collector
}

// SessionOption configures optional Session collaborators.
type SessionOption func(*Session)

// WithMetrics attaches a collector that receives per-chunk and abort counts.
func WithMetrics(m *metrics.Collector) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession binds a freshly accepted link to a new IDLE session.
func NewSession(link radio.ShearsLink, source FileSource, opts ...SessionOption) *Session {
	s := &Session{
		link:   link,
		source: source,
		log:    logger.WithLink(logger.Logger(), link.ID()),
		state:  SessionIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Run drains commands from the link and steps the emitter until the link
// closes (link loss) or ctx is cancelled. It is the shears "server transfer
// emitter" task named in spec §5.
func (s *Session) Run(ctx context.Context) error {
	defer s.resetOnLinkLoss()
	ticker := time.NewTicker(idleTick)
	defer ticker.Stop()
	currentInterval := idleTick

	for {
		wantInterval := idleTick
		if s.state == SessionActive || s.state == SessionFinalizing {
			wantInterval = activeTick
		}
		if wantInterval != currentInterval {
			ticker.Reset(wantInterval)
			currentInterval = wantInterval
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-s.link.Commands():
			if !ok {
				return nil // link loss
			}
			s.handleCommand(cmd)
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *Session) handleCommand(raw []byte) {
	op, basename, err := frame.DecodeCommand(raw)
	if err != nil {
		s.log.Warn("dropping malformed control command", "error", err)
		return
	}
	switch op {
	case frame.OpStartTransfer:
		s.handleStartTransfer(basename)
	case frame.OpAbort:
		s.handleAbort()
	case frame.OpNop:
	default:
		s.log.Warn("unexpected opcode on control channel", "opcode", op)
	}
}

// handleStartTransfer implements spec §4.C's IDLE transition and the
// "while already ACTIVE or FINALIZING" BUSY tie-break.
func (s *Session) handleStartTransfer(basename string) {
	if s.state != SessionIdle {
		s.log.Warn("rejecting START_TRANSFER while busy", "state", s.state.String())
		s.emitStatus(frame.StatusBusy, 0)
		return
	}

	payloadSize := frame.ChunkPayloadSize(s.link.MaxAttributeSize())
	if payloadSize <= 0 {
		s.log.Error("link MTU leaves no room for chunk payload", "max_attribute_size", s.link.MaxAttributeSize())
		s.emitStatus(frame.StatusFSError, 0)
		return
	}
	if basename == "" || len(basename) > frame.MaxBasenameLength {
		s.log.Warn("rejecting invalid basename", "basename", basename)
		s.emitStatus(frame.StatusFSError, 0)
		return
	}

	f, err := s.source.Open(basename)
	if err != nil {
		s.log.Info("requested file not found", "basename", basename, "error", err)
		s.emitStatus(frame.StatusNoFile, 0)
		return
	}
	size, err := sizeOf(f)
	if err != nil {
		f.Close()
		s.log.Error("failed to determine file size", "basename", basename, "error", err)
		s.emitStatus(frame.StatusFSError, 0)
		return
	}

	s.file = f
	s.fileSize = size
	s.chunkIndex = 0
	s.bytesEmitted = 0
	s.payloadSize = payloadSize
	s.state = SessionActive
	s.log.Info("transfer accepted", "basename", basename, "file_size", size)
	s.emitStatus(frame.StatusAccepted, size)
}

// handleAbort implements spec §4.C's ACTIVE ABORT transition; ABORT in IDLE
// or FINALIZING has no defined effect and is ignored.
func (s *Session) handleAbort() {
	if s.state != SessionActive {
		return
	}
	s.closeFile()
	s.state = SessionIdle
	s.log.Info("transfer aborted")
	s.emitStatus(frame.StatusAborted, s.fileSize)
	if s.metrics != nil {
		s.metrics.TransferAborted()
	}
}

// step is the emitter's periodic background step (spec §4.C: "ACTIVE
// (periodic background step)") plus the FINALIZING->IDLE transition.
func (s *Session) step() {
	switch s.state {
	case SessionActive:
		s.emitChunk()
	case SessionFinalizing:
		s.log.Info("transfer finalizing", "bytes_emitted", s.bytesEmitted, "file_size", s.fileSize)
		s.emitStatus(frame.StatusDone, s.fileSize)
		s.state = SessionIdle
	}
}

func (s *Session) emitChunk() {
	readBuf := bufpool.Get(s.payloadSize)
	defer bufpool.Put(readBuf)

	n, err := s.file.Read(readBuf)
	if n > 0 {
		encodeBuf := bufpool.Get(frame.ChunkSize(n))
		chunk := frame.EncodeChunkInto(encodeBuf, s.chunkIndex, readBuf[:n])
		if sendErr := s.link.NotifyData(chunk); sendErr != nil {
			s.log.Warn("chunk notify failed", "error", sendErr, "chunk_index", s.chunkIndex)
		}
		bufpool.Put(encodeBuf)
		if s.metrics != nil {
			s.metrics.ChunkEmitted()
		}
		s.chunkIndex++
		s.bytesEmitted += uint32(n)
	}
	if n < s.payloadSize || err != nil {
		s.closeFile()
		s.state = SessionFinalizing
	}
}

func (s *Session) emitStatus(code frame.StatusCode, fileSize uint32) {
	if err := s.link.NotifyControl(frame.EncodeStatus(code, fileSize)); err != nil {
		s.log.Warn("status notify failed", "error", err, "code", code.String())
	}
}

func (s *Session) closeFile() {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
}

// resetOnLinkLoss implements spec §4.C's "Any state, on link loss: close
// any open file; reset to IDLE without emitting."
func (s *Session) resetOnLinkLoss() {
	s.closeFile()
	s.state = SessionIdle
}
