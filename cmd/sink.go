package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zlib"

	"oculurum/internal/pngsink"
	"oculurum/internal/transcode"
)

const software = "oculurum"

var errCreateOutput = errors.New("output file couldn't be created")

// fileSink writes the PNG to a temporary file that replaces dest on Finalize.
type fileSink struct {
	dest   string
	tmp    *os.File
	bw     *bufio.Writer
	png    *pngsink.Writer
	closed bool
}

func pngOpener(dest string) transcode.SinkOpener {
	return func(width, height uint32, mode transcode.ColorMode, compression transcode.CompressionLevel) (transcode.Sink, error) {
		tmp, err := os.CreateTemp(filepath.Dir(dest), ".oculurum-*.tmp")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errCreateOutput, err)
		}

		meta, err := pngsink.BuildExif(software, fmt.Sprintf("type=%s compression=%s", mode, compression))
		if err != nil {
			slog.Warn("could not build EXIF metadata, omitting it", "error", err)
			meta = nil
		}

		bw := bufio.NewWriter(tmp)
		pw, err := pngsink.NewWriter(bw, pngsink.Config{
			Width:     width,
			Height:    height,
			ColorType: colorType(mode),
			Level:     zlibLevel(compression),
			Exif:      meta,
		})
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return nil, err
		}

		return &fileSink{dest: dest, tmp: tmp, bw: bw, png: pw}, nil
	}
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.png.Write(p)
}

func (s *fileSink) Finalize() error {
	if err := s.png.Close(); err != nil {
		return err
	}
	if err := s.bw.Flush(); err != nil {
		return err
	}
	if err := s.tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := s.tmp.Sync(); err != nil {
		return err
	}
	s.closed = true
	if err := s.tmp.Close(); err != nil {
		return err
	}
	return replaceFile(s.tmp.Name(), s.dest)
}

func (s *fileSink) Discard() error {
	if !s.closed {
		s.closed = true
		_ = s.tmp.Close()
	}
	if err := os.Remove(s.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func colorType(mode transcode.ColorMode) pngsink.ColorType {
	switch mode {
	case transcode.RGB:
		return pngsink.ColorRGB
	case transcode.GrayscaleAlpha:
		return pngsink.ColorGrayscaleAlpha
	case transcode.RGBA:
		return pngsink.ColorRGBA
	default:
		return pngsink.ColorGrayscale
	}
}

// zlibLevel maps a compression hint to a zlib level. zlib has no run-length
// strategy, RLE uses the fastest level instead.
func zlibLevel(c transcode.CompressionLevel) int {
	switch c {
	case transcode.CompressionFast, transcode.CompressionRLE:
		return zlib.BestSpeed
	case transcode.CompressionBest:
		return zlib.BestCompression
	case transcode.CompressionHuffman:
		return zlib.HuffmanOnly
	default:
		return zlib.DefaultCompression
	}
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
