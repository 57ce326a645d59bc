// Package nmea assembles NMEA 0183 sentences from a raw GPS byte stream,
// parses GGA fixes, and commits them to the shears' CSV log (spec §4.B).
package nmea

import (
	"context"
	"io"

	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
)

// bufferCapacity is the bounded size of the sliding assembly buffer
// (spec §4.B: "a sliding byte buffer of bounded size (≥512)").
const bufferCapacity = 512

// Assembler continuously drains a GPS byte stream and reassembles
// newline-terminated NMEA sentences into a single latest-line slot. It is
// the shears-side line assembler task of spec §4.B.
type Assembler struct {
	source io.Reader

	buf   []byte
	latest string
	valid  bool
}

// NewAssembler wraps source, the raw GPS byte stream.
func NewAssembler(source io.Reader) *Assembler {
	return &Assembler{
		source: source,
		buf:    make([]byte, 0, bufferCapacity),
	}
}

// Run drains source until ctx is cancelled or a read error occurs. It is the
// line assembler task: it blocks on byte-stream reads and passes each batch
// of bytes read to feed.
func (a *Assembler) Run(ctx context.Context) error {
	chunk := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := a.source.Read(chunk)
		if n > 0 {
			a.feed(chunk[:n])
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// feed appends incoming bytes to the sliding buffer, publishing a new
// latest-line on every newline and discarding an overlong partial line
// without a newline (spec §4.B: "Overflow without a newline discards the
// in-progress line and resets the buffer").
func (a *Assembler) feed(b []byte) {
	for _, c := range b {
		a.buf = append(a.buf, c)
		if c == '\n' {
			a.latest = string(a.buf)
			a.valid = true
			a.buf = a.buf[:0]
			continue
		}
		if len(a.buf) >= bufferCapacity {
			logger.Warn("nmea line overflow without newline, discarding", "capacity", bufferCapacity)
			a.buf = a.buf[:0]
		}
	}
}

// Latest returns the most recently terminated sentence and whether the slot
// holds a valid line. Per spec §4.B: "buffer contents are only considered
// valid if a line terminator was observed during its assembly."
func (a *Assembler) Latest() (line string, valid bool) {
	return a.latest, a.valid
}

// Clear invalidates the latest-line slot. Called after a save commit (spec
// §4.B: "The latest-line slot is cleared on commit").
func (a *Assembler) Clear() {
	a.valid = false
}
