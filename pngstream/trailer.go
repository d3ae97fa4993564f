package pngstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Trailer format: a 4-byte big-endian length followed by that many raw
// bytes, spliced in immediately after the IEND chunk. PNG decoders ignore
// anything past IEND, so no chunk CRC is affected.

// findIEND returns the offset one past the IEND chunk, located by a
// rightmost search for the fixed 12-byte marker. Searching backwards is
// the simplest robust way to find the stream's end without a forward
// walk, and taking the last occurrence guards against the same byte
// pattern appearing inside compressed chunk data earlier in the stream.
func findIEND(data []byte) (int, error) {
	if !IsPNG(data) {
		return 0, fmt.Errorf("%w: not a PNG file", ErrInvalidFormat)
	}
	pos := bytes.LastIndex(data, iendMarker)
	if pos < 0 {
		return 0, fmt.Errorf("%w: no IEND chunk found", ErrInvalidFormat)
	}
	return pos + len(iendMarker), nil
}

// AppendTrailer returns a new buffer with the length-prefixed payload
// spliced in after the IEND chunk. Any bytes already following IEND are
// preserved after the new trailer. The input buffer is not modified.
//
// The result is exactly len(data) + 4 + len(payload) bytes.
func AppendTrailer(data, payload []byte) ([]byte, error) {
	insert, err := findIEND(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(data)+4+len(payload))
	out = append(out, data[:insert]...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	out = append(out, data[insert:]...)
	return out, nil
}

// ExtractTrailer reads back a trailer written by AppendTrailer.
//
// A buffer ending exactly at IEND yields ErrNoTrailer, the ordinary
// "nothing to extract" result. Trailing bytes that do not form a
// consistent length-prefixed payload yield ErrCorruptTrailer. The
// returned slice is a copy and safe to retain.
func ExtractTrailer(data []byte) ([]byte, error) {
	start, err := findIEND(data)
	if err != nil {
		return nil, err
	}
	if len(data) == start {
		return nil, ErrNoTrailer
	}
	if len(data)-start < 4 {
		return nil, fmt.Errorf("%w: length prefix truncated", ErrCorruptTrailer)
	}
	length := int(binary.BigEndian.Uint32(data[start : start+4]))
	if len(data)-start-4 < length {
		return nil, fmt.Errorf("%w: declared length %d exceeds available %d bytes",
			ErrCorruptTrailer, length, len(data)-start-4)
	}
	return bytes.Clone(data[start+4 : start+4+length]), nil
}

// ExtractTrailerText extracts the trailer and interprets it as UTF-8 text.
// Fails with ErrEncoding if the bytes are not valid UTF-8; callers that
// can handle arbitrary bytes should use ExtractTrailer instead.
func ExtractTrailerText(data []byte) (string, error) {
	payload, err := ExtractTrailer(data)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(payload) {
		return "", ErrEncoding
	}
	return string(payload), nil
}
