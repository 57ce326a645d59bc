// Package simlink is the one concrete radio.Peripheral/radio.Central
// implementation used by tests and the loopback demo transport (-transport
// loopback): an in-memory pair of channels standing in for the real radio
// stack, configurable with an arbitrary MTU so MTU-sensitive behavior (spec
// §4.C's chunk payload derivation) can be exercised deterministically.
package simlink

import (
	"context"
	"fmt"
	"sync"

	"github.com/mjmilez/Garden-E-Cutters/internal/ids"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio"
)

const defaultChannelDepth = 32

// Link is the shared in-memory transport backing both the ShearsLink and
// BaseLink views of one connection.
type link struct {
	id                string
	maxAttributeSize  int
	commandsToShears  chan []byte
	controlFromShears chan []byte
	dataFromShears    chan []byte
	closeOnce         sync.Once
}

func newLink(maxAttributeSize int) *link {
	return &link{
		id:                ids.NewSessionID(),
		maxAttributeSize:  maxAttributeSize,
		commandsToShears:  make(chan []byte, defaultChannelDepth),
		controlFromShears: make(chan []byte, defaultChannelDepth),
		dataFromShears:    make(chan []byte, defaultChannelDepth),
	}
}

// Disconnect closes all channels, simulating a link-loss event visible to
// both the shears and base sides.
func (l *link) Disconnect() {
	l.closeOnce.Do(func() {
		close(l.commandsToShears)
		close(l.controlFromShears)
		close(l.dataFromShears)
	})
}

type shearsSide struct{ l *link }

func (s shearsSide) MaxAttributeSize() int        { return s.l.maxAttributeSize }
func (s shearsSide) NotifyControl(p []byte) error { return send(s.l.controlFromShears, p) }
func (s shearsSide) NotifyData(p []byte) error    { return send(s.l.dataFromShears, p) }
func (s shearsSide) Commands() <-chan []byte      { return s.l.commandsToShears }
func (s shearsSide) ID() string                   { return s.l.id }

type baseSide struct{ l *link }

func (b baseSide) MaxAttributeSize() int             { return b.l.maxAttributeSize }
func (b baseSide) WriteControl(p []byte) error       { return send(b.l.commandsToShears, p) }
func (b baseSide) ControlNotifications() <-chan []byte { return b.l.controlFromShears }
func (b baseSide) DataNotifications() <-chan []byte    { return b.l.dataFromShears }
func (b baseSide) ID() string                        { return b.l.id }

func send(ch chan []byte, payload []byte) (err error) {
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("simlink: send on disconnected link")
		}
	}()
	cp := append([]byte(nil), payload...)
	select {
	case ch <- cp:
		return nil
	default:
		return fmt.Errorf("simlink: channel full, backpressure exceeded")
	}
}

// Pair wires a connected ShearsLink/BaseLink pair directly, bypassing
// advertise/scan/connect, for unit tests that only need a working transport.
func Pair(maxAttributeSize int) (radio.ShearsLink, radio.BaseLink, func()) {
	l := newLink(maxAttributeSize)
	return shearsSide{l}, baseSide{l}, l.Disconnect
}

// Peripheral is the shears-side radio.Peripheral: it accepts a single
// connection handed to it by a paired Central via a rendezvous channel.
type Peripheral struct {
	maxAttributeSize int
	rendezvous       chan *link
	mu               sync.Mutex
	advertising      bool
}

// NewPeripheral constructs a Peripheral configured with the link's maximum
// attribute size (MTU − 3).
func NewPeripheral(maxAttributeSize int) *Peripheral {
	return &Peripheral{maxAttributeSize: maxAttributeSize, rendezvous: make(chan *link)}
}

func (p *Peripheral) Advertise(ctx context.Context, name string, serviceID uint16) error {
	p.mu.Lock()
	p.advertising = true
	p.mu.Unlock()
	return nil
}

func (p *Peripheral) Accept(ctx context.Context) (radio.ShearsLink, error) {
	select {
	case l := <-p.rendezvous:
		p.mu.Lock()
		p.advertising = false
		p.mu.Unlock()
		return shearsSide{l}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Central is the base-side radio.Central paired with a specific Peripheral,
// standing in for scan+connect+discovery.
type Central struct {
	peripheral *Peripheral
}

// NewCentral constructs a Central that connects to peripheral.
func NewCentral(peripheral *Peripheral) *Central {
	return &Central{peripheral: peripheral}
}

func (c *Central) Connect(ctx context.Context, name string) (radio.BaseLink, error) {
	l := newLink(c.peripheral.maxAttributeSize)
	select {
	case c.peripheral.rendezvous <- l:
		return baseSide{l}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
