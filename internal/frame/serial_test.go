package frame

import (
	"bytes"
	"testing"
)

// TestSerialChecksumGolden pins the exact byte layout of a log-line frame
// (spec §8 testable property 4: checksum == XOR(bytes[1..end-1])).
func TestSerialChecksumGolden(t *testing.T) {
	payload := []byte("hello")
	buf, err := EncodeSerialFrame(SerialMsgLogLine, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0xAA, 0x03, 0x05, 0x00, 'h', 'e', 'l', 'l', 'o'}
	var checksum byte
	for _, b := range want[1:] {
		checksum ^= b
	}
	want = append(want, checksum)
	if !bytes.Equal(buf, want) {
		t.Fatalf("got %x, want %x", buf, want)
	}
}

func TestEncodeDecodeSerialFrameRoundTrip(t *testing.T) {
	payload := []byte("192928.00,29.5761300")
	buf, err := EncodeSerialFrame(SerialMsgLogLine, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	msgType, got, consumed, err := DecodeSerialFrame(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msgType != SerialMsgLogLine {
		t.Fatalf("expected log-line type, got %v", msgType)
	}
	if consumed != len(buf) {
		t.Fatalf("expected consumed %d, got %d", len(buf), consumed)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected payload %q, got %q", payload, got)
	}
}

func TestEncodeSerialFrameTooLarge(t *testing.T) {
	if _, err := EncodeSerialFrame(SerialMsgLogLine, make([]byte, MaxSerialPayload+1)); err == nil {
		t.Fatal("expected error for oversize payload")
	}
}

func TestDecodeSerialFrameBadChecksum(t *testing.T) {
	buf, _ := EncodeSerialFrame(SerialMsgLogLine, []byte("x"))
	buf[len(buf)-1] ^= 0xFF
	if _, _, _, err := DecodeSerialFrame(buf); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestDecodeSerialFrameBadStartByte(t *testing.T) {
	buf, _ := EncodeSerialFrame(SerialMsgLogLine, []byte("x"))
	buf[0] = 0x00
	if _, _, _, err := DecodeSerialFrame(buf); err == nil {
		t.Fatal("expected bad start byte error")
	}
}

func TestDecodeSerialFrameDeclaredLengthTooLarge(t *testing.T) {
	buf := []byte{SerialStartByte, byte(SerialMsgLogLine), 0xFF, 0xFF, 0x00}
	if _, _, _, err := DecodeSerialFrame(buf); err == nil {
		t.Fatal("expected error for declared length exceeding max")
	}
}

func TestDecodeSerialFrameMultipleConcatenated(t *testing.T) {
	a, _ := EncodeSerialFrame(SerialMsgStatus, []byte{byte(SerialStatusLinkUp)})
	b, _ := EncodeSerialFrame(SerialMsgLogLine, []byte("second"))
	stream := append(append([]byte{}, a...), b...)

	_, _, consumed1, err := DecodeSerialFrame(stream)
	if err != nil {
		t.Fatalf("decode first: %v", err)
	}
	msgType2, payload2, _, err := DecodeSerialFrame(stream[consumed1:])
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if msgType2 != SerialMsgLogLine || string(payload2) != "second" {
		t.Fatalf("unexpected second frame: type=%v payload=%q", msgType2, payload2)
	}
}

func TestCutRecordRoundTrip(t *testing.T) {
	rec := CutRecord{Seq: 7, Timestamp: 1690000000, Lat: 29.65, Lon: -82.33, Force: 12.5, Fix: 1}
	buf := rec.Encode()
	if len(buf) != cutRecordSize {
		t.Fatalf("expected %d bytes, got %d", cutRecordSize, len(buf))
	}
	got, err := DecodeCutRecord(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != rec {
		t.Fatalf("roundtrip mismatch: got %+v, want %+v", got, rec)
	}
}

func TestDecodeCutRecordWrongSize(t *testing.T) {
	if _, err := DecodeCutRecord(make([]byte, 10)); err == nil {
		t.Fatal("expected error for wrong-size cut record")
	}
}
