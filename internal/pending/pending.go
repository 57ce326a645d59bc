// Package pending implements the base's single pending-request slot (spec
// §4.H): the application has no reason to hold multiple distinct requests,
// so a newer request simply overwrites an older, unconsumed one.
package pending

import (
	"sync"

	"github.com/mjmilez/Garden-E-Cutters/internal/ids"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
)

// Queue holds at most one outstanding basename request, tagged with a
// correlation id so a request logged at Set can be matched to the log lines
// emitted when it's later taken (or overwritten unconsumed).
type Queue struct {
	mu        sync.Mutex
	name      string
	requestID string
	valid     bool
}

// Set stores name in the slot, overwriting whatever was there (spec §4.H:
// "Overwriting the slot is defined behavior").
func (q *Queue) Set(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.valid {
		logger.Warn("overwriting unconsumed pending request", "request_id", q.requestID, "name", q.name)
	}
	q.name = name
	q.requestID = ids.NewRequestID()
	q.valid = true
	logger.Debug("pending request stored", "request_id", q.requestID, "name", name)
}

// TakeIfPresent consumes and clears the slot, reporting whether it held a
// request. Called on discovery completion (spec §4.F/§4.H).
func (q *Queue) TakeIfPresent() (name string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.valid {
		return "", false
	}
	name, requestID := q.name, q.requestID
	q.name, q.requestID, q.valid = "", "", false
	logger.Debug("pending request consumed", "request_id", requestID, "name", name)
	return name, true
}
