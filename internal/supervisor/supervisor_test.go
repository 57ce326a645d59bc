package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjmilez/Garden-E-Cutters/internal/frame"
	"github.com/mjmilez/Garden-E-Cutters/internal/indicator"
	"github.com/mjmilez/Garden-E-Cutters/internal/pending"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio/simlink"
	"github.com/mjmilez/Garden-E-Cutters/internal/transfer"
)

type recordingIndicatorDriver struct{ states []bool }

func (r *recordingIndicatorDriver) Set(on bool) { r.states = append(r.states, on) }

type fakeSink struct {
	starts, dones, errs int
	lines               [][]byte
}

func (f *fakeSink) TransferStart() error { f.starts++; return nil }
func (f *fakeSink) TransferDone() error  { f.dones++; return nil }
func (f *fakeSink) TransferError() error { f.errs++; return nil }
func (f *fakeSink) LogLine(p []byte) error {
	f.lines = append(f.lines, append([]byte(nil), p...))
	return nil
}

// TestScenarioS5PendingRequestConsumedOnDiscovery exercises spec scenario
// S5: a RequestLog call before the link exists is stored in the pending
// slot and issued as exactly one START_TRANSFER once the link connects.
func TestScenarioS5PendingRequestConsumedOnDiscovery(t *testing.T) {
	peripheral := simlink.NewPeripheral(20)
	central := simlink.NewCentral(peripheral)

	var pendingQueue pending.Queue
	sink := &fakeSink{}
	base := NewBaseSupervisor(central, sink, &pendingQueue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// RequestLog before any connection exists: stored in the pending slot.
	base.RequestLog("x.csv")

	go base.Run(ctx)

	advCtx, advCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer advCancel()
	if err := peripheral.Advertise(advCtx, "WM-SHEARS", 0xFFF0); err != nil {
		t.Fatalf("advertise: %v", err)
	}
	shearsLink, err := peripheral.Accept(advCtx)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	select {
	case raw := <-shearsLink.Commands():
		op, basename, err := frame.DecodeCommand(raw)
		if err != nil {
			t.Fatalf("decode command: %v", err)
		}
		if op != frame.OpStartTransfer || basename != "x.csv" {
			t.Fatalf("expected START_TRANSFER(x.csv), got op=%v basename=%q", op, basename)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pending request to surface as START_TRANSFER")
	}
}

// TestEndToEndSessionAndReception wires a ShearsSupervisor and a
// BaseSupervisor across a simlink.Peripheral/Central pair and drives one
// full file transfer end-to-end, exercising the indicator and both state
// machines together.
func TestEndToEndSessionAndReception(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gps.csv"), []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	peripheral := simlink.NewPeripheral(20)
	central := simlink.NewCentral(peripheral)

	shearsIndicatorDriver := &recordingIndicatorDriver{}
	shearsIndicator := indicator.New(shearsIndicatorDriver)
	shears := NewShearsSupervisor(peripheral, transfer.NewDirFileSource(dir), shearsIndicator)

	var pendingQueue pending.Queue
	sink := &fakeSink{}
	base := NewBaseSupervisor(central, sink, &pendingQueue, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go shears.Run(ctx)
	go base.Run(ctx)

	time.Sleep(20 * time.Millisecond) // let advertise/scan settle
	base.RequestLog("gps.csv")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && sink.dones == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.dones != 1 {
		t.Fatalf("expected exactly one transfer-done, got %d", sink.dones)
	}
	var got []byte
	for _, l := range sink.lines {
		got = append(got, l...)
	}
	if string(got) != "hello world" {
		t.Fatalf("expected reassembled content %q, got %q", "hello world", got)
	}
}
