package nmea

import (
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
)

// Recorder bridges the line assembler and the CSV log, exposing the single
// save path invoked by the save worker (spec §4.5: "invokes §4.B's save
// path").
type Recorder struct {
	assembler *Assembler
	log       *CSVLog
	metrics   *metrics.Collector
}

// RecorderOption configures optional Recorder collaborators.
type RecorderOption func(*Recorder)

// WithMetrics attaches a collector incremented on every committed save.
func WithMetrics(m *metrics.Collector) RecorderOption {
	return func(r *Recorder) { r.metrics = m }
}

// NewRecorder wires an assembler (read side) to a CSV log (write side).
func NewRecorder(assembler *Assembler, log *CSVLog, opts ...RecorderOption) *Recorder {
	r := &Recorder{assembler: assembler, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save consumes the assembler's latest-line slot: if invalid, it logs a
// warning and drops the request without error; otherwise it parses the GGA
// sentence, appends one CSV row, and clears the slot (spec §4.B).
func (r *Recorder) Save() error {
	line, valid := r.assembler.Latest()
	if !valid {
		logger.Warn("save requested with no valid latest line, dropping")
		return nil
	}
	fix, err := ParseGGA(line)
	if err != nil {
		logger.Warn("malformed nmea sentence, dropping save request", "error", err)
		return nil
	}
	if err := r.log.Append(fix); err != nil {
		return err
	}
	r.assembler.Clear()
	if r.metrics != nil {
		r.metrics.SaveCommitted()
	}
	return nil
}
