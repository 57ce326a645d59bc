// Package uplink implements the base's single-writer serial uplink to the
// host (spec §4.E): a framed writer that packs status and log-line messages
// atomically relative to the host's resynchronizing parser.
package uplink

import (
	"fmt"
	"io"
	"sync"

	"github.com/mjmilez/Garden-E-Cutters/internal/bufpool"
	"github.com/mjmilez/Garden-E-Cutters/internal/frame"
)

// transmitBufferSize matches the minimum driver transmit buffer named in
// spec §4.E ("a transmit buffer of ≥512 bytes").
const transmitBufferSize = 512

// Writer is the base's single-writer serial uplink. It serializes concurrent
// callers so that each send is one atomic transmit call relative to the
// underlying io.Writer, matching spec §4.E's "single transmit call for
// atomicity."
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter wraps out, the configured UART (or, in tests, any io.Writer)
// with a ≥512-byte transmit buffer already installed by the caller.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Send builds a full serial frame for msgType/payload and writes it with a
// single call, rejecting payloads over frame.MaxSerialPayload bytes as a
// programming error (spec §4.E).
func (w *Writer) Send(msgType frame.SerialMsgType, payload []byte) error {
	if len(payload) > frame.MaxSerialPayload {
		return fmt.Errorf("uplink: payload length %d exceeds max %d: programming error", len(payload), frame.MaxSerialPayload)
	}
	buf := bufpool.Get(frame.SerialFrameSize(len(payload)))
	defer bufpool.Put(buf)
	encoded := frame.EncodeSerialFrameInto(buf, msgType, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.out.Write(encoded)
	return err
}

// sendStatus is the convenience wrapper shared by the status entry points.
func (w *Writer) sendStatus(code frame.SerialStatusCode) error {
	return w.Send(frame.SerialMsgStatus, []byte{byte(code)})
}

// LinkUp reports radio link establishment to the host.
func (w *Writer) LinkUp() error { return w.sendStatus(frame.SerialStatusLinkUp) }

// LinkDown reports radio link loss to the host.
func (w *Writer) LinkDown() error { return w.sendStatus(frame.SerialStatusLinkDown) }

// TransferStart reports host status(0x03) on reception entering RECEIVING
// (spec §4.D).
func (w *Writer) TransferStart() error { return w.sendStatus(frame.SerialStatusTransferStart) }

// TransferDone reports host status(0x04) on a DONE terminal status.
func (w *Writer) TransferDone() error { return w.sendStatus(frame.SerialStatusTransferDone) }

// TransferError reports host status(0x05) on any non-DONE terminal status.
func (w *Writer) TransferError() error { return w.sendStatus(frame.SerialStatusTransferError) }

// LogLine forwards one chunk's payload as a variable-length, unterminated
// log-line message (spec §4.A: "0x03 log-line (variable-length ASCII, no
// terminator)").
func (w *Writer) LogLine(payload []byte) error {
	return w.Send(frame.SerialMsgLogLine, payload)
}
