// Package radio defines the narrow capability interfaces the transfer and
// supervisor packages need from the underlying short-range radio stack.
// Per spec §9 ("Replacing polymorphic interface classes"): the original
// BLE/web/data abstract interfaces are narrowed to the trait sets actually
// exercised for injection, rather than reproduced as a general GATT client.
// Advertising, scanning, connection establishment, and GATT service/
// characteristic discovery are themselves external collaborators — spec §4.F
// names their behavior but their concrete radio-stack wiring is out of
// scope here; internal/radio/simlink provides the one concrete
// implementation used by tests and the loopback demo transport.
package radio

import "context"

// ShearsLink is the shears' view of one connected radio link: it emits
// control-channel status notifications and data-channel chunk notifications,
// and receives control-channel command writes from the base (spec §6:
// "Radio service layout").
type ShearsLink interface {
	// MaxAttributeSize is the negotiated MTU minus 3 (spec glossary: "Link
	// maximum attribute size"), used to derive the usable chunk payload.
	MaxAttributeSize() int
	// NotifyControl emits a STATUS event on the control characteristic.
	NotifyControl(payload []byte) error
	// NotifyData emits one chunk notification on the data characteristic.
	NotifyData(payload []byte) error
	// Commands delivers control-channel writes from the base (START_TRANSFER,
	// ABORT, NOP) in arrival order. Closed on link loss.
	Commands() <-chan []byte
	// ID identifies the link for logging/metrics correlation.
	ID() string
}

// BaseLink is the base's view of the same connected radio link: it writes
// control-channel commands and receives control-channel status and
// data-channel chunk notifications from the shears.
type BaseLink interface {
	MaxAttributeSize() int
	// WriteControl sends a command (START_TRANSFER, ABORT, NOP) to the
	// shears on the control characteristic.
	WriteControl(payload []byte) error
	// ControlNotifications delivers STATUS events in arrival order. Closed
	// on link loss.
	ControlNotifications() <-chan []byte
	// DataNotifications delivers chunk payloads in arrival order. Closed on
	// link loss.
	DataNotifications() <-chan []byte
	ID() string
}

// Peripheral is the shears-side capability to bring up advertising and
// accept one connected central at a time (spec §4.F: "advertises a
// well-known short name ... resumes advertising on disconnect or connect
// failure").
type Peripheral interface {
	// Advertise begins advertising name with the given 16-bit service
	// identifier. The caller re-invokes Advertise after each disconnect.
	Advertise(ctx context.Context, name string, serviceID uint16) error
	// Accept blocks until a central connects and subscribes to
	// notifications on both channels, then yields the established link.
	Accept(ctx context.Context) (ShearsLink, error)
}

// Central is the base-side capability to scan for and connect to a single
// shears (spec §4.F: "scans actively for advertisements matching the
// well-known name ... fixed connection parameters ... full service
// discovery ... enables notification subscription").
type Central interface {
	// Connect scans for name, connects, performs discovery, and enables
	// notifications, yielding the established link. The caller re-invokes
	// Connect after each disconnect or scan timeout.
	Connect(ctx context.Context, name string) (BaseLink, error)
}

// ServiceID is the 16-bit primary service identifier both sides must agree
// on (spec §6).
const ServiceID = 0xFFF0

// AdvertiseName is the shears' complete local name (spec §6).
const AdvertiseName = "WM-SHEARS"

// Fixed connection parameters the base requests on connect (spec §4.F).
const (
	ConnIntervalMin        = 0x10
	ConnIntervalMax        = 0x20
	ConnLatency            = 0
	ConnSupervisionTimeout = 0x258
)

// ControlCharacteristic and DataCharacteristic are the 16-bit attribute
// identifiers within ServiceID (spec §6: "control 0xFFF1 (write + notify),
// data 0xFFF2 (notify only)").
const (
	ControlCharacteristic = 0xFFF1
	DataCharacteristic    = 0xFFF2
)

// NotifyEnable is written to a characteristic's client configuration
// descriptor to subscribe to notifications (spec §4.F: "writing {0x01,
// 0x00} to the next attribute handle after each value handle").
var NotifyEnable = [2]byte{0x01, 0x00}
