package transcode

import (
	"errors"
	"fmt"
	"strconv"
)

// ColorMode selects how input bytes are laid out as pixels. The numeric values match
// the -t option.
type ColorMode int

const (
	Bitwise ColorMode = iota
	Grayscale
	RGB
	// Indexed is reserved and has no descriptor of its own.
	Indexed
	GrayscaleAlpha
	RGBA
)

func (m ColorMode) String() string {
	switch m {
	case Bitwise:
		return "bitwise"
	case Grayscale:
		return "grayscale"
	case RGB:
		return "rgb"
	case Indexed:
		return "indexed"
	case GrayscaleAlpha:
		return "grayscale-alpha"
	case RGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// CompressionLevel is an opaque hint handed to the raster sink.
type CompressionLevel int

const (
	CompressionDefault CompressionLevel = iota
	CompressionFast
	CompressionBest
	// Deprecated: kept for command line compatibility.
	CompressionHuffman
	// Deprecated: kept for command line compatibility.
	CompressionRLE
)

func (c CompressionLevel) String() string {
	switch c {
	case CompressionFast:
		return "fast"
	case CompressionBest:
		return "best"
	case CompressionHuffman:
		return "huffman"
	case CompressionRLE:
		return "rle"
	default:
		return "default"
	}
}

// Descriptor is the per-mode sizing data.
type Descriptor struct {
	BytesPerPixel uint32
	Multiplier    float64
}

// Describe returns the descriptor for m. Modes without an entry of their own,
// Indexed included, behave like Grayscale.
func Describe(m ColorMode) Descriptor {
	switch m {
	case Bitwise:
		return Descriptor{BytesPerPixel: 1, Multiplier: 8.0}
	case RGB:
		return Descriptor{BytesPerPixel: 3, Multiplier: 0.3}
	case GrayscaleAlpha:
		return Descriptor{BytesPerPixel: 2, Multiplier: 0.5}
	case RGBA:
		return Descriptor{BytesPerPixel: 4, Multiplier: 0.25}
	default:
		return Descriptor{BytesPerPixel: 1, Multiplier: 1.0}
	}
}

var (
	ErrInvalidValue  = errors.New("invalid value")
	ErrUnimplemented = errors.New("unimplemented")
)

// ParseColorMode parses the numeric -t value. Callers substitute Grayscale on error.
func ParseColorMode(s string) (ColorMode, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Grayscale, fmt.Errorf("%w %q for colour type", ErrInvalidValue, s)
	}
	switch ColorMode(n) {
	case Bitwise, Grayscale, RGB, GrayscaleAlpha, RGBA:
		return ColorMode(n), nil
	case Indexed:
		return Grayscale, fmt.Errorf("colour type %q (indexed) is %w", s, ErrUnimplemented)
	default:
		return Grayscale, fmt.Errorf("%w %q for colour type", ErrInvalidValue, s)
	}
}

// ParseCompression parses the numeric -c value. Callers substitute
// CompressionDefault on error.
func ParseCompression(s string) (CompressionLevel, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n > uint64(CompressionRLE) {
		return CompressionDefault, fmt.Errorf("%w %q for compression", ErrInvalidValue, s)
	}
	return CompressionLevel(n), nil
}
