// Package pngstream edits PNG files at the chunk-stream level.
//
// It parses the PNG container format (signature plus a sequence of
// length-prefixed, CRC-32-protected chunks) without decoding pixel data.
// The package supports appending a length-prefixed trailer after the IEND
// chunk, extracting such a trailer, reading the IHDR header fields, and
// rewriting the stored width/height with a recomputed CRC.
//
// All operations take a byte buffer and return a new buffer or scalar
// result; the input is never mutated, so concurrent calls on independent
// buffers are safe.
package pngstream

import "errors"

// Sentinel errors for chunk-stream operations.
var (
	// ErrInvalidFormat indicates a missing PNG signature or IEND chunk.
	ErrInvalidFormat = errors.New("pngstream: invalid PNG format")

	// ErrMissingHeader indicates the chunk stream contains no IHDR chunk.
	ErrMissingHeader = errors.New("pngstream: missing IHDR chunk")

	// ErrChunkNotFound indicates the walker exhausted the stream without
	// finding a required chunk type.
	ErrChunkNotFound = errors.New("pngstream: chunk not found")

	// ErrNoTrailer indicates the buffer ends exactly at the IEND chunk.
	// This is the "nothing to extract" result, not a corruption.
	ErrNoTrailer = errors.New("pngstream: no trailer present")

	// ErrCorruptTrailer indicates trailing bytes exist after IEND but the
	// length prefix is inconsistent with the remaining data.
	ErrCorruptTrailer = errors.New("pngstream: corrupt trailer")

	// ErrInvalidSpec indicates an empty or ambiguous dimension spec.
	ErrInvalidSpec = errors.New("pngstream: invalid dimension spec")

	// ErrEncoding indicates trailer bytes requested as text are not valid UTF-8.
	ErrEncoding = errors.New("pngstream: trailer is not valid UTF-8")

	// ErrCancelled indicates the caller's confirmation callback declined
	// the mutation.
	ErrCancelled = errors.New("pngstream: operation cancelled")
)
