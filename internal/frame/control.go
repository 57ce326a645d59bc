package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"

	protoerr "github.com/mjmilez/Garden-E-Cutters/internal/errors"
)

// Opcode identifies a control-channel message. Base->Shears opcodes and
// Shears->Base opcodes occupy disjoint ranges so a misrouted message is
// immediately recognizable.
type Opcode uint8

// Base -> Shears commands.
const (
	OpNop           Opcode = 0x00
	OpStartTransfer Opcode = 0x01
	OpAbort         Opcode = 0x02
)

// Shears -> Base events.
const (
	OpStatus Opcode = 0x80
)

// StatusCode is the single status byte carried by an OpStatus message.
type StatusCode uint8

const (
	StatusAccepted StatusCode = 0
	StatusNoFile   StatusCode = 1
	StatusFSError  StatusCode = 2
	StatusBusy     StatusCode = 3
	StatusDone     StatusCode = 4
	StatusAborted  StatusCode = 5
)

// IsTerminal reports whether a status code ends a transfer session (spec §3:
// "Lifecycle: ... destroyed on terminal status").
func (s StatusCode) IsTerminal() bool {
	switch s {
	case StatusDone, StatusAborted, StatusNoFile, StatusFSError, StatusBusy:
		return true
	default:
		return false
	}
}

func (s StatusCode) String() string {
	switch s {
	case StatusAccepted:
		return "ACCEPTED"
	case StatusNoFile:
		return "NO_FILE"
	case StatusFSError:
		return "FS_ERROR"
	case StatusBusy:
		return "BUSY"
	case StatusDone:
		return "DONE"
	case StatusAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// MaxBasenameLength is the longest accepted basename (spec §4.C: "Reject
// names that are empty or longer than 48 bytes").
const MaxBasenameLength = 48

// EncodeStartTransfer packs a START_TRANSFER command: opcode + NUL-terminated
// ASCII basename.
func EncodeStartTransfer(basename string) []byte {
	buf := make([]byte, 0, 2+len(basename))
	buf = append(buf, byte(OpStartTransfer))
	buf = append(buf, basename...)
	buf = append(buf, 0)
	return buf
}

// EncodeAbort packs an ABORT command (opcode only).
func EncodeAbort() []byte {
	return []byte{byte(OpAbort)}
}

// EncodeNop packs a NOP command (opcode only).
func EncodeNop() []byte {
	return []byte{byte(OpNop)}
}

// DecodeCommand parses a base->shears control message. basename is populated
// only for OpStartTransfer.
func DecodeCommand(buf []byte) (op Opcode, basename string, err error) {
	if len(buf) == 0 {
		return 0, "", protoerr.NewFrameError("control.decode_command", fmt.Errorf("empty control message"))
	}
	op = Opcode(buf[0])
	switch op {
	case OpNop, OpAbort:
		return op, "", nil
	case OpStartTransfer:
		rest := buf[1:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return op, "", protoerr.NewFrameError("control.decode_command", fmt.Errorf("START_TRANSFER missing NUL terminator"))
		}
		return op, string(rest[:nul]), nil
	default:
		return op, "", protoerr.NewFrameError("control.decode_command", fmt.Errorf("unknown opcode 0x%02x", byte(op)))
	}
}

// EncodeStatus packs a STATUS event. fileSize is only encoded when code ==
// StatusAccepted; spec §4.A: "status-code byte, then (if code is ACCEPTED)
// 4-byte little-endian file size".
func EncodeStatus(code StatusCode, fileSize uint32) []byte {
	if code == StatusAccepted {
		buf := make([]byte, 6)
		buf[0] = byte(OpStatus)
		buf[1] = byte(code)
		binary.LittleEndian.PutUint32(buf[2:6], fileSize)
		return buf
	}
	return []byte{byte(OpStatus), byte(code)}
}

// DecodeStatus parses a shears->base STATUS event. fileSize is valid only
// when the returned code is StatusAccepted.
func DecodeStatus(buf []byte) (code StatusCode, fileSize uint32, err error) {
	if len(buf) < 2 {
		return 0, 0, protoerr.NewFrameError("control.decode_status", fmt.Errorf("status message too short: %d bytes", len(buf)))
	}
	if Opcode(buf[0]) != OpStatus {
		return 0, 0, protoerr.NewFrameError("control.decode_status", fmt.Errorf("not a STATUS message: opcode 0x%02x", buf[0]))
	}
	code = StatusCode(buf[1])
	if code == StatusAccepted {
		if len(buf) < 6 {
			return 0, 0, protoerr.NewFrameError("control.decode_status", fmt.Errorf("ACCEPTED status missing file size"))
		}
		fileSize = binary.LittleEndian.Uint32(buf[2:6])
	}
	return code, fileSize, nil
}
