// Package frame implements the three wire layouts this system speaks:
// the radio data-channel chunk framing, the radio control-channel opcode
// framing, and the base->host serial uplink framing. All three are pure
// pack/unpack functions over byte slices; none perform I/O.
package frame

import (
	"encoding/binary"
	"fmt"

	protoerr "github.com/mjmilez/Garden-E-Cutters/internal/errors"
)

// MaxChunkAttributeSize is the largest attribute size any supported radio
// link will negotiate. Chunk payload is capped independently at
// MaxChunkPayload regardless of a larger MTU.
const MaxChunkAttributeSize = 512

// MaxChunkPayload is the hard cap on payload bytes per chunk (spec §4.A),
// independent of how generous the link's negotiated MTU is.
const MaxChunkPayload = 160

// chunkHeaderSize is the 2-byte little-endian chunk index prefix.
const chunkHeaderSize = 2

// ChunkPayloadSize derives the usable payload size for one chunk from the
// link's maximum attribute size (MTU-3). Returns 0 if the header doesn't
// leave room for at least one payload byte. The result is always capped at
// MaxChunkPayload.
func ChunkPayloadSize(linkMaxAttributeSize int) int {
	usable := linkMaxAttributeSize - chunkHeaderSize
	if usable <= 0 {
		return 0
	}
	if usable > MaxChunkPayload {
		return MaxChunkPayload
	}
	return usable
}

// EncodeChunk packs a chunk index and payload into a single notification
// buffer: [index:2 LE][payload]. The caller guarantees len(payload) fits the
// negotiated chunk payload size.
func EncodeChunk(index uint16, payload []byte) []byte {
	return EncodeChunkInto(make([]byte, chunkHeaderSize+len(payload)), index, payload)
}

// ChunkSize returns the encoded length of a chunk carrying payloadLen bytes,
// for sizing a caller-supplied buffer passed to EncodeChunkInto.
func ChunkSize(payloadLen int) int { return chunkHeaderSize + payloadLen }

// EncodeChunkInto packs like EncodeChunk but into a caller-supplied buffer
// (e.g. one drawn from internal/bufpool), returning dst truncated to the
// encoded length. dst must be at least ChunkSize(len(payload)) bytes.
func EncodeChunkInto(dst []byte, index uint16, payload []byte) []byte {
	buf := dst[:chunkHeaderSize+len(payload)]
	binary.LittleEndian.PutUint16(buf[0:2], index)
	copy(buf[2:], payload)
	return buf
}

// DecodeChunk unpacks a chunk notification into its index and payload. The
// returned payload aliases buf[2:]; callers that retain it across the next
// read must copy.
func DecodeChunk(buf []byte) (index uint16, payload []byte, err error) {
	if len(buf) < chunkHeaderSize {
		return 0, nil, protoerr.NewFrameError("chunk.decode", fmt.Errorf("chunk shorter than %d-byte header: %d bytes", chunkHeaderSize, len(buf)))
	}
	index = binary.LittleEndian.Uint16(buf[0:2])
	payload = buf[chunkHeaderSize:]
	return index, payload, nil
}
