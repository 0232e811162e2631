package pngsink

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ColorType is the PNG IHDR colour type.
type ColorType byte

const (
	ColorGrayscale      ColorType = 0
	ColorRGB            ColorType = 2
	ColorIndexed        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorRGBA           ColorType = 6
)

// Channels is the number of samples per pixel, 0 for unknown types.
func (c ColorType) Channels() int {
	switch c {
	case ColorGrayscale, ColorIndexed:
		return 1
	case ColorGrayscaleAlpha:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

func (c ColorType) String() string {
	switch c {
	case ColorGrayscale:
		return "grayscale"
	case ColorRGB:
		return "rgb"
	case ColorIndexed:
		return "indexed"
	case ColorGrayscaleAlpha:
		return "grayscale-alpha"
	case ColorRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("colortype(%d)", byte(c))
	}
}

const (
	maxDimension = 1<<31 - 1
	maxIDATSize  = 32 * 1024
	filterNone   = 0
)

var Signature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

var (
	ErrInvalidHeader   = errors.New("invalid PNG header")
	ErrStreamInit      = errors.New("failed initialising PNG stream writer")
	ErrTooMuchData     = errors.New("too much pixel data for image")
	ErrIncompleteImage = errors.New("image data incomplete")
	ErrClosed          = errors.New("png writer closed")
)

type Config struct {
	Width     uint32
	Height    uint32
	ColorType ColorType
	// BitDepth defaults to 8, the only supported depth.
	BitDepth uint8
	// Level is a zlib compression level.
	Level int
	// Exif is an optional TIFF-structured payload written as an eXIf chunk.
	Exif []byte
}

// Writer is a streaming PNG encoder. Pixel bytes are appended with Write, row
// filtering and IDAT chunking are handled internally.
type Writer struct {
	w      io.Writer
	idat   *chunkWriter
	zw     *zlib.Writer
	rowLen uint64
	rowPos uint64
	rows   uint64
	height uint64
	closed bool
	err    error
}

// NewWriter writes the PNG signature and header chunks to w and prepares the
// compressed pixel stream.
func NewWriter(w io.Writer, cfg Config) (*Writer, error) {
	if cfg.BitDepth == 0 {
		cfg.BitDepth = 8
	}
	if cfg.Width == 0 || cfg.Height == 0 || cfg.Width > maxDimension || cfg.Height > maxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeader, cfg.Width, cfg.Height)
	}
	if cfg.BitDepth != 8 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidHeader, cfg.BitDepth)
	}
	channels := cfg.ColorType.Channels()
	if channels == 0 || cfg.ColorType == ColorIndexed {
		return nil, fmt.Errorf("%w: unsupported colour type %s", ErrInvalidHeader, cfg.ColorType)
	}

	if _, err := w.Write(Signature); err != nil {
		return nil, err
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], cfg.Width)
	binary.BigEndian.PutUint32(ihdr[4:8], cfg.Height)
	ihdr[8] = cfg.BitDepth
	ihdr[9] = byte(cfg.ColorType)
	if err := writeChunk(w, "IHDR", ihdr); err != nil {
		return nil, err
	}

	if len(cfg.Exif) > 0 {
		if err := writeChunk(w, "eXIf", cfg.Exif); err != nil {
			return nil, err
		}
	}

	idat := &chunkWriter{w: w, name: "IDAT", buf: make([]byte, 0, maxIDATSize)}
	zw, err := zlib.NewWriterLevel(idat, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamInit, err)
	}

	return &Writer{
		w:      w,
		idat:   idat,
		zw:     zw,
		rowLen: uint64(cfg.Width) * uint64(channels) * uint64(cfg.BitDepth) / 8,
		height: uint64(cfg.Height),
	}, nil
}

// Write appends pixel bytes. Bytes past the end of the last row are rejected with
// ErrTooMuchData.
func (pw *Writer) Write(p []byte) (int, error) {
	if pw.closed {
		return 0, ErrClosed
	}
	if pw.err != nil {
		return 0, pw.err
	}

	written := 0
	for len(p) > 0 {
		if pw.rows == pw.height {
			return written, ErrTooMuchData
		}
		if pw.rowPos == 0 {
			if _, err := pw.zw.Write([]byte{filterNone}); err != nil {
				pw.err = err
				return written, err
			}
		}

		n := min(uint64(len(p)), pw.rowLen-pw.rowPos)
		if _, err := pw.zw.Write(p[:n]); err != nil {
			pw.err = err
			return written, err
		}
		written += int(n)
		p = p[n:]
		pw.rowPos += n
		if pw.rowPos == pw.rowLen {
			pw.rowPos = 0
			pw.rows++
		}
	}
	return written, nil
}

// Remaining is the number of pixel bytes still expected.
func (pw *Writer) Remaining() uint64 {
	return (pw.height-pw.rows)*pw.rowLen - pw.rowPos
}

// Close completes the pixel stream and writes IEND. It fails if fewer bytes than
// the declared raster holds were written.
func (pw *Writer) Close() error {
	if pw.closed {
		return ErrClosed
	}
	pw.closed = true
	if pw.err != nil {
		return pw.err
	}
	if rem := pw.Remaining(); rem > 0 {
		return fmt.Errorf("%w: %d bytes missing", ErrIncompleteImage, rem)
	}

	if err := pw.zw.Close(); err != nil {
		return err
	}
	if err := pw.idat.Flush(); err != nil {
		return err
	}
	return writeChunk(pw.w, "IEND", nil)
}

// chunkWriter buffers data and emits it as chunks of at most maxIDATSize bytes.
type chunkWriter struct {
	w    io.Writer
	name string
	buf  []byte
}

func (cw *chunkWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), cap(cw.buf)-len(cw.buf))
		cw.buf = append(cw.buf, p[:n]...)
		p = p[n:]
		written += n
		if len(cw.buf) == cap(cw.buf) {
			if err := cw.Flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (cw *chunkWriter) Flush() error {
	if len(cw.buf) == 0 {
		return nil
	}
	err := writeChunk(cw.w, cw.name, cw.buf)
	cw.buf = cw.buf[:0]
	return err
}

func writeChunk(w io.Writer, name string, data []byte) error {
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], name)

	crc := crc32.NewIEEE()
	_, _ = crc.Write(header[4:])
	_, _ = crc.Write(data)
	footer := make([]byte, 4)
	binary.BigEndian.PutUint32(footer, crc.Sum32())

	if _, err := w.Write(header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := w.Write(footer)
	return err
}
