package simlink

import (
	"context"
	"testing"
	"time"
)

func TestPairRoundTripControlAndData(t *testing.T) {
	shears, base, disconnect := Pair(23)
	defer disconnect()

	if err := base.WriteControl([]byte{0x01, 'x', 0}); err != nil {
		t.Fatalf("write control: %v", err)
	}
	select {
	case cmd := <-shears.Commands():
		if string(cmd) != "\x01x\x00" {
			t.Fatalf("unexpected command bytes: %v", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for command")
	}

	if err := shears.NotifyControl([]byte{0x80, 0}); err != nil {
		t.Fatalf("notify control: %v", err)
	}
	select {
	case status := <-base.ControlNotifications():
		if len(status) != 2 {
			t.Fatalf("unexpected status length %d", len(status))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for status")
	}

	if err := shears.NotifyData([]byte{0, 0, 'h', 'i'}); err != nil {
		t.Fatalf("notify data: %v", err)
	}
	select {
	case chunk := <-base.DataNotifications():
		if string(chunk) != "\x00\x00hi" {
			t.Fatalf("unexpected chunk bytes: %v", chunk)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for chunk")
	}
}

func TestPairMaxAttributeSizeShared(t *testing.T) {
	shears, base, disconnect := Pair(185)
	defer disconnect()
	if shears.MaxAttributeSize() != 185 || base.MaxAttributeSize() != 185 {
		t.Fatalf("expected shared MTU of 185, got shears=%d base=%d", shears.MaxAttributeSize(), base.MaxAttributeSize())
	}
}

func TestDisconnectClosesChannels(t *testing.T) {
	shears, base, disconnect := Pair(23)
	disconnect()
	if _, ok := <-shears.Commands(); ok {
		t.Fatal("expected closed commands channel after disconnect")
	}
	if _, ok := <-base.ControlNotifications(); ok {
		t.Fatal("expected closed control-notifications channel after disconnect")
	}
}

func TestPeripheralCentralConnect(t *testing.T) {
	peripheral := NewPeripheral(23)
	central := NewCentral(peripheral)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := peripheral.Advertise(ctx, "WM-SHEARS", 0xFFF0); err != nil {
		t.Fatalf("advertise: %v", err)
	}

	type acceptResult struct {
		link interface{}
		err  error
	}
	acceptDone := make(chan acceptResult, 1)
	go func() {
		l, err := peripheral.Accept(ctx)
		acceptDone <- acceptResult{l, err}
	}()

	if _, err := central.Connect(ctx, "WM-SHEARS"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	select {
	case res := <-acceptDone:
		if res.err != nil {
			t.Fatalf("accept: %v", res.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Accept to complete")
	}
}

func TestCentralConnectContextCancel(t *testing.T) {
	peripheral := NewPeripheral(23)
	central := NewCentral(peripheral)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := central.Connect(ctx, "WM-SHEARS"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
