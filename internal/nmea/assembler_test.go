package nmea

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestAssemblerFeedPublishesOnNewline(t *testing.T) {
	a := NewAssembler(strings.NewReader(""))
	a.feed([]byte("$GPGGA,192928.00,2934.5678,N,08219.7654,W,1,08,0.9,10.0,M,-34.0,M,,*47\n"))
	line, valid := a.Latest()
	if !valid {
		t.Fatal("expected valid latest line after newline")
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("expected terminator retained, got %q", line)
	}
}

func TestAssemblerInvalidBeforeNewline(t *testing.T) {
	a := NewAssembler(strings.NewReader(""))
	a.feed([]byte("$GPGGA,partial"))
	_, valid := a.Latest()
	if valid {
		t.Fatal("expected invalid latest line before newline observed")
	}
}

func TestAssemblerOverflowResetsWithoutNewline(t *testing.T) {
	a := NewAssembler(strings.NewReader(""))
	a.feed(bytes.Repeat([]byte("x"), bufferCapacity+10))
	// The buffer resets when it reaches capacity; only the 10 bytes fed
	// after the reset remain.
	if len(a.buf) != 10 {
		t.Fatalf("expected buffer reset after overflow, len=%d", len(a.buf))
	}
	_, valid := a.Latest()
	if valid {
		t.Fatal("overflowing partial line must not become valid")
	}
}

func TestAssemblerClear(t *testing.T) {
	a := NewAssembler(strings.NewReader(""))
	a.feed([]byte("line\n"))
	a.Clear()
	_, valid := a.Latest()
	if valid {
		t.Fatal("expected invalid after Clear")
	}
}

// idleReader simulates a timed-out serial read that returns no bytes and no
// error, forcing Run back to its ctx.Done() check each iteration (spec §6:
// "Line assembler: blocks on byte-stream read (timeout 100 ms)").
type idleReader struct{}

func (idleReader) Read([]byte) (int, error) {
	time.Sleep(time.Millisecond)
	return 0, nil
}

func TestAssemblerRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAssembler(idleReader{})
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestAssemblerRunReturnsOnEOF(t *testing.T) {
	a := NewAssembler(strings.NewReader("$GPGGA\n"))
	err := a.Run(context.Background())
	if err != nil && err != io.EOF {
		t.Fatalf("expected nil or EOF, got %v", err)
	}
}
