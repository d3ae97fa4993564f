package pngstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// pngMagic is the fixed 8-byte signature every PNG file starts with.
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// iendMarker is the complete IEND chunk: zero length, type tag, and its
// fixed CRC. Because IEND carries no data, these 12 bytes are invariant
// across all valid PNGs.
var iendMarker = []byte{0x00, 0x00, 0x00, 0x00, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}

const (
	// sigSize is the length of the PNG signature.
	sigSize = 8

	// chunkOverhead is the per-chunk framing cost: 4 length + 4 type + 4 CRC.
	chunkOverhead = 12

	// TypeIHDR is the type tag of the mandatory header chunk.
	TypeIHDR = "IHDR"

	// TypeIEND is the type tag of the terminal chunk.
	TypeIEND = "IEND"
)

// Chunk describes one chunk's position within a buffer. The payload is
// referenced by offset, never copied.
type Chunk struct {
	Type       string // 4-byte type tag
	DataOffset int    // offset of the first data byte
	DataLength int    // declared data length
	CRCOffset  int    // offset of the stored CRC; equals DataOffset + DataLength
}

// Start returns the offset of the chunk's length field.
func (c Chunk) Start() int {
	return c.DataOffset - 8
}

// End returns the offset one past the chunk's CRC.
func (c Chunk) End() int {
	return c.CRCOffset + 4
}

// IsPNG reports whether data starts with the PNG signature.
// This is a pure function with no side effects.
func IsPNG(data []byte) bool {
	return len(data) >= sigSize && bytes.Equal(data[:sigSize], pngMagic)
}

// Walker scans a buffer chunk by chunk without copying payloads. It holds
// at most one in-flight descriptor, so memory overhead is constant in the
// file size. A Walker is single-use; create a new one to restart the scan.
//
// The walker does not validate chunk CRCs. Truncated input (a partial
// chunk header, or a declared length running past the buffer end) ends the
// sequence early rather than failing; callers that require a specific
// chunk type must treat exhaustion as ErrChunkNotFound.
type Walker struct {
	data []byte
	pos  int
	done bool
}

// NewWalker returns a walker positioned at the first chunk.
// Fails with ErrInvalidFormat if data does not start with the PNG signature.
func NewWalker(data []byte) (*Walker, error) {
	if !IsPNG(data) {
		return nil, fmt.Errorf("%w: not a PNG file", ErrInvalidFormat)
	}
	return &Walker{data: data, pos: sigSize}, nil
}

// Next returns the next chunk descriptor. The second result is false once
// the stream is exhausted: after the IEND chunk, at the buffer end, or at
// a truncation point.
func (w *Walker) Next() (Chunk, bool) {
	if w.done || w.pos+8 > len(w.data) {
		return Chunk{}, false
	}
	length := int(binary.BigEndian.Uint32(w.data[w.pos : w.pos+4]))
	end := w.pos + chunkOverhead + length
	if end > len(w.data) {
		w.done = true
		return Chunk{}, false
	}
	c := Chunk{
		Type:       string(w.data[w.pos+4 : w.pos+8]),
		DataOffset: w.pos + 8,
		DataLength: length,
		CRCOffset:  w.pos + 8 + length,
	}
	w.pos = end
	if c.Type == TypeIEND {
		w.done = true
	}
	return c, true
}

// FindChunk walks data until the first chunk of the given type.
// Fails with ErrInvalidFormat on a bad signature and ErrChunkNotFound
// when the walker exhausts the stream without a match.
func FindChunk(data []byte, chunkType string) (Chunk, error) {
	w, err := NewWalker(data)
	if err != nil {
		return Chunk{}, err
	}
	for c, ok := w.Next(); ok; c, ok = w.Next() {
		if c.Type == chunkType {
			return c, nil
		}
	}
	return Chunk{}, fmt.Errorf("%w: %s", ErrChunkNotFound, chunkType)
}
