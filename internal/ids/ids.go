// Package ids mints correlation identifiers used purely for log/metric
// correlation. None of these values travel on the wire — the radio and
// serial protocols correlate by link identity and chunk index alone.
package ids

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// NewSessionID mints a UUID. The loopback transport (internal/radio/simlink)
// uses one as the ID of each connected link, which Session and Reception
// attach to their log lines as link_id.
func NewSessionID() string {
	return uuid.NewString()
}

// NewRequestID mints a short xid for one pending base request or one
// save-request set->clear cycle. xid is cheaper to allocate than a UUID,
// which matters on the 100Hz save-worker poll.
func NewRequestID() string {
	return xid.New().String()
}
