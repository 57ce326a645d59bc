package frame

import (
	"encoding/binary"
	"fmt"
	"math"

	protoerr "github.com/mjmilez/Garden-E-Cutters/internal/errors"
)

// SerialStartByte marks the beginning of a serial uplink frame. The host
// parser resynchronizes on this byte (spec §4.E: "the host parser tolerates
// resynchronization on the start byte").
const SerialStartByte = 0xAA

// MaxSerialPayload is the hard cap on a serial frame's payload (spec §4.A).
const MaxSerialPayload = 200

// SerialMsgType identifies the kind of payload carried by a serial frame.
type SerialMsgType uint8

const (
	SerialMsgCutRecord SerialMsgType = 0x01
	SerialMsgStatus    SerialMsgType = 0x02
	SerialMsgLogLine   SerialMsgType = 0x03
)

// SerialStatusCode is the single status byte carried by a SerialMsgStatus frame.
type SerialStatusCode uint8

const (
	SerialStatusLinkUp        SerialStatusCode = 1
	SerialStatusLinkDown      SerialStatusCode = 2
	SerialStatusTransferStart SerialStatusCode = 3
	SerialStatusTransferDone  SerialStatusCode = 4
	SerialStatusTransferError SerialStatusCode = 5
)

// serialHeaderSize counts start byte, msg_type, and the 2-byte length field;
// the checksum trailer is accounted for separately.
const serialHeaderSize = 1 + 1 + 2

// EncodeSerialFrame packs [0xAA][msg_type][len:2 LE][payload][checksum].
// checksum is the XOR of every byte from msg_type through the last payload
// byte. It rejects payloads longer than MaxSerialPayload as a programming
// error, matching spec §4.E ("rejects len > 200 as a programming error").
func EncodeSerialFrame(msgType SerialMsgType, payload []byte) ([]byte, error) {
	if len(payload) > MaxSerialPayload {
		return nil, protoerr.NewFrameError("serial.encode", fmt.Errorf("payload length %d exceeds max %d", len(payload), MaxSerialPayload))
	}
	return EncodeSerialFrameInto(make([]byte, SerialFrameSize(len(payload))), msgType, payload), nil
}

// SerialFrameSize returns the encoded length of a serial frame carrying
// payloadLen bytes, for sizing a caller-supplied buffer passed to
// EncodeSerialFrameInto.
func SerialFrameSize(payloadLen int) int { return serialHeaderSize + payloadLen + 1 }

// EncodeSerialFrameInto packs like EncodeSerialFrame but into a
// caller-supplied buffer (e.g. one drawn from internal/bufpool), returning
// dst truncated to the encoded length. dst must be at least
// SerialFrameSize(len(payload)) bytes; the payload length check is the
// caller's responsibility since it's already enforced in EncodeSerialFrame.
func EncodeSerialFrameInto(dst []byte, msgType SerialMsgType, payload []byte) []byte {
	buf := dst[:SerialFrameSize(len(payload))]
	buf[0] = SerialStartByte
	buf[1] = byte(msgType)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[4:], payload)
	buf[len(buf)-1] = xorChecksum(buf[1 : len(buf)-1])
	return buf
}

// DecodeSerialFrame unpacks and validates a single serial frame read from
// buf[0:]. It returns the consumed length so the caller (a framed reader) can
// advance past exactly one frame. Returns an error if the checksum doesn't
// match or the declared length exceeds MaxSerialPayload.
func DecodeSerialFrame(buf []byte) (msgType SerialMsgType, payload []byte, consumed int, err error) {
	if len(buf) < serialHeaderSize+1 {
		return 0, nil, 0, protoerr.NewFrameError("serial.decode", fmt.Errorf("frame shorter than minimum header+checksum size"))
	}
	if buf[0] != SerialStartByte {
		return 0, nil, 0, protoerr.NewFrameError("serial.decode", fmt.Errorf("bad start byte 0x%02x", buf[0]))
	}
	msgType = SerialMsgType(buf[1])
	length := int(binary.LittleEndian.Uint16(buf[2:4]))
	if length > MaxSerialPayload {
		return 0, nil, 0, protoerr.NewFrameError("serial.decode", fmt.Errorf("declared length %d exceeds max %d", length, MaxSerialPayload))
	}
	total := serialHeaderSize + length + 1
	if len(buf) < total {
		return 0, nil, 0, protoerr.NewFrameError("serial.decode", fmt.Errorf("buffer too short for declared length %d", length))
	}
	payload = buf[4 : 4+length]
	gotChecksum := buf[total-1]
	wantChecksum := xorChecksum(buf[1 : total-1])
	if gotChecksum != wantChecksum {
		return 0, nil, 0, protoerr.NewFrameError("serial.decode", fmt.Errorf("checksum mismatch: got 0x%02x want 0x%02x", gotChecksum, wantChecksum))
	}
	return msgType, payload, total, nil
}

func xorChecksum(b []byte) byte {
	var c byte
	for _, v := range b {
		c ^= v
	}
	return c
}

// CutRecord is the fixed 21-byte packed structure carried by a
// SerialMsgCutRecord frame: seq u32, timestamp u32, lat f32, lon f32,
// force f32, fix u8.
type CutRecord struct {
	Seq       uint32
	Timestamp uint32
	Lat       float32
	Lon       float32
	Force     float32
	Fix       uint8
}

const cutRecordSize = 4 + 4 + 4 + 4 + 4 + 1

// Encode packs a CutRecord into its fixed 21-byte wire representation.
func (r CutRecord) Encode() []byte {
	buf := make([]byte, cutRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Seq)
	binary.LittleEndian.PutUint32(buf[4:8], r.Timestamp)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(r.Lat))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(r.Lon))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(r.Force))
	buf[20] = r.Fix
	return buf
}

// DecodeCutRecord unpacks a fixed 21-byte CutRecord payload.
func DecodeCutRecord(buf []byte) (CutRecord, error) {
	if len(buf) != cutRecordSize {
		return CutRecord{}, protoerr.NewFrameError("serial.decode_cut_record", fmt.Errorf("expected %d bytes, got %d", cutRecordSize, len(buf)))
	}
	return CutRecord{
		Seq:       binary.LittleEndian.Uint32(buf[0:4]),
		Timestamp: binary.LittleEndian.Uint32(buf[4:8]),
		Lat:       math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])),
		Lon:       math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])),
		Force:     math.Float32frombits(binary.LittleEndian.Uint32(buf[16:20])),
		Fix:       buf[20],
	}, nil
}
