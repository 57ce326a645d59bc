package frame

import "testing"

func TestEncodeDecodeStartTransfer(t *testing.T) {
	buf := EncodeStartTransfer("gps.csv")
	op, name, err := DecodeCommand(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if op != OpStartTransfer {
		t.Fatalf("expected OpStartTransfer, got %v", op)
	}
	if name != "gps.csv" {
		t.Fatalf("expected gps.csv, got %q", name)
	}
}

func TestDecodeStartTransferMissingTerminator(t *testing.T) {
	buf := []byte{byte(OpStartTransfer)}
	buf = append(buf, "gps.csv"...) // no trailing NUL
	if _, _, err := DecodeCommand(buf); err == nil {
		t.Fatal("expected error for missing NUL terminator")
	}
}

func TestDecodeCommandEmpty(t *testing.T) {
	if _, _, err := DecodeCommand(nil); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestDecodeCommandUnknownOpcode(t *testing.T) {
	if _, _, err := DecodeCommand([]byte{0x77}); err == nil {
		t.Fatal("expected error for unknown opcode")
	}
}

func TestAbortAndNopRoundTrip(t *testing.T) {
	op, _, err := DecodeCommand(EncodeAbort())
	if err != nil || op != OpAbort {
		t.Fatalf("abort roundtrip failed: op=%v err=%v", op, err)
	}
	op, _, err = DecodeCommand(EncodeNop())
	if err != nil || op != OpNop {
		t.Fatalf("nop roundtrip failed: op=%v err=%v", op, err)
	}
}

func TestEncodeDecodeStatusAccepted(t *testing.T) {
	buf := EncodeStatus(StatusAccepted, 46)
	code, size, err := DecodeStatus(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if code != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %v", code)
	}
	if size != 46 {
		t.Fatalf("expected size 46, got %d", size)
	}
}

func TestEncodeDecodeStatusTerminal(t *testing.T) {
	for _, code := range []StatusCode{StatusNoFile, StatusFSError, StatusBusy, StatusDone, StatusAborted} {
		buf := EncodeStatus(code, 0)
		if len(buf) != 2 {
			t.Fatalf("expected 2-byte status for %v, got %d bytes", code, len(buf))
		}
		got, _, err := DecodeStatus(buf)
		if err != nil {
			t.Fatalf("decode %v: %v", code, err)
		}
		if got != code {
			t.Fatalf("expected %v, got %v", code, got)
		}
		if !code.IsTerminal() {
			t.Fatalf("expected %v to be terminal", code)
		}
	}
	if StatusAccepted.IsTerminal() {
		t.Fatal("ACCEPTED must not be terminal")
	}
}

func TestDecodeStatusTooShort(t *testing.T) {
	if _, _, err := DecodeStatus([]byte{byte(OpStatus)}); err == nil {
		t.Fatal("expected error for truncated status")
	}
	if _, _, err := DecodeStatus([]byte{byte(OpStatus), byte(StatusAccepted), 1, 2}); err == nil {
		t.Fatal("expected error for ACCEPTED status missing full file size")
	}
}

func TestDecodeStatusWrongOpcode(t *testing.T) {
	if _, _, err := DecodeStatus([]byte{byte(OpNop), byte(StatusDone)}); err == nil {
		t.Fatal("expected error for non-STATUS opcode")
	}
}
