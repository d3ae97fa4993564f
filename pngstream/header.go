package pngstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// ihdrSize is the fixed length of the IHDR data region.
const ihdrSize = 13

// Header holds the fields of the IHDR chunk.
type Header struct {
	Width       int
	Height      int
	BitDepth    byte
	ColorType   byte
	Compression byte
	Filter      byte
	Interlace   byte
}

// findHeader locates the IHDR chunk, mapping walker exhaustion to
// ErrMissingHeader: a PNG without IHDR is invalid, not merely incomplete.
func findHeader(data []byte) (Chunk, error) {
	c, err := FindChunk(data, TypeIHDR)
	if err != nil {
		if errors.Is(err, ErrChunkNotFound) {
			return Chunk{}, fmt.Errorf("%w: walker exhausted", ErrMissingHeader)
		}
		return Chunk{}, err
	}
	if c.DataLength < ihdrSize {
		return Chunk{}, fmt.Errorf("%w: IHDR data is %d bytes, want %d",
			ErrInvalidFormat, c.DataLength, ihdrSize)
	}
	return c, nil
}

// ReadHeader parses the IHDR chunk.
// Fails with ErrInvalidFormat on a bad signature and ErrMissingHeader if
// the chunk stream contains no IHDR.
func ReadHeader(data []byte) (Header, error) {
	c, err := findHeader(data)
	if err != nil {
		return Header{}, err
	}
	d := data[c.DataOffset : c.DataOffset+ihdrSize]
	return Header{
		Width:       int(binary.BigEndian.Uint32(d[0:4])),
		Height:      int(binary.BigEndian.Uint32(d[4:8])),
		BitDepth:    d[8],
		ColorType:   d[9],
		Compression: d[10],
		Filter:      d[11],
		Interlace:   d[12],
	}, nil
}

// QueryDimensions returns the stored width and height.
func QueryDimensions(data []byte) (width, height int, err error) {
	h, err := ReadHeader(data)
	if err != nil {
		return 0, 0, err
	}
	return h.Width, h.Height, nil
}

// DimensionSpec describes a target size for PatchDimensions. Exactly one
// mode must be used: both Width and Height, a single dimension (with or
// without LockAspect), or Scale alone.
type DimensionSpec struct {
	// Width and Height are target dimensions; zero means unset.
	Width  int
	Height int

	// Scale resizes both dimensions by a uniform factor; zero means unset.
	Scale float64

	// LockAspect derives the unset dimension from the set one, preserving
	// the original aspect ratio. Without it, a single-dimension spec
	// leaves the other dimension at its original value.
	LockAspect bool

	// Confirm, when non-nil, is consulted with the current and target
	// dimensions before the buffer is touched. Returning false aborts the
	// patch with ErrCancelled. Interactive callers hang their warning
	// prompt here; the patch itself never prompts.
	Confirm func(oldW, oldH, newW, newH int) bool
}

// Resolve computes the target dimensions for an image currently sized
// origW by origH. Every result is floored at 1.
// This is a pure function with no side effects.
func (s DimensionSpec) Resolve(origW, origH int) (int, int, error) {
	if s.Width < 0 || s.Height < 0 || s.Scale < 0 {
		return 0, 0, fmt.Errorf("%w: negative dimension or scale", ErrInvalidSpec)
	}
	switch {
	case s.Scale > 0:
		if s.Width != 0 || s.Height != 0 {
			return 0, 0, fmt.Errorf("%w: scale cannot be combined with explicit dimensions", ErrInvalidSpec)
		}
		return atLeastOne(math.Round(float64(origW) * s.Scale)),
			atLeastOne(math.Round(float64(origH) * s.Scale)), nil
	case s.Width > 0 && s.Height > 0:
		if s.LockAspect {
			return 0, 0, fmt.Errorf("%w: aspect lock is ambiguous with both dimensions set", ErrInvalidSpec)
		}
		return s.Width, s.Height, nil
	case s.Width > 0:
		h := origH
		if s.LockAspect {
			h = atLeastOne(math.Round(float64(origH) * float64(s.Width) / float64(origW)))
		}
		return s.Width, h, nil
	case s.Height > 0:
		w := origW
		if s.LockAspect {
			w = atLeastOne(math.Round(float64(origW) * float64(s.Height) / float64(origH)))
		}
		return w, s.Height, nil
	default:
		return 0, 0, fmt.Errorf("%w: no width, height, or scale given", ErrInvalidSpec)
	}
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// PatchDimensions returns a copy of data with the IHDR width and height
// replaced by the spec's target and the chunk CRC recomputed over the new
// type tag + data. Every other byte, pixel data included, is untouched:
// this is a metadata-only edit and decoders will stretch the image to the
// new size. All remaining chunks are byte-identical to the input.
func PatchDimensions(data []byte, spec DimensionSpec) ([]byte, error) {
	c, err := findHeader(data)
	if err != nil {
		return nil, err
	}
	origW := int(binary.BigEndian.Uint32(data[c.DataOffset : c.DataOffset+4]))
	origH := int(binary.BigEndian.Uint32(data[c.DataOffset+4 : c.DataOffset+8]))

	newW, newH, err := spec.Resolve(origW, origH)
	if err != nil {
		return nil, err
	}
	if spec.Confirm != nil && !spec.Confirm(origW, origH, newW, newH) {
		return nil, ErrCancelled
	}

	out := make([]byte, len(data))
	copy(out, data)
	binary.BigEndian.PutUint32(out[c.DataOffset:], uint32(newW))
	binary.BigEndian.PutUint32(out[c.DataOffset+4:], uint32(newH))

	// CRC covers the type tag and the (rewritten) data region.
	crc := crc32.ChecksumIEEE(out[c.DataOffset-4 : c.CRCOffset])
	binary.BigEndian.PutUint32(out[c.CRCOffset:], crc)
	return out, nil
}
