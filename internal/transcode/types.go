package transcode

import (
	"io"
	"log/slog"
	"os"
)

// DefaultChunkSize bounds each read from an input file.
const DefaultChunkSize = 4096

// Sink is an opened raster sink. Write appends pixel bytes, Finalize completes the
// encoded raster and Discard throws a partial one away.
type Sink interface {
	io.Writer
	Finalize() error
	Discard() error
}

// SinkOpener opens a sink for a width×height raster.
type SinkOpener func(width, height uint32, mode ColorMode, compression CompressionLevel) (Sink, error)

type Options struct {
	// OpenFile opens an input file. Defaults to os.Open.
	OpenFile  func(path string) (io.ReadCloser, error)
	ChunkSize int
	Logger    *slog.Logger
}

func (o Options) openFile(path string) (io.ReadCloser, error) {
	if o.OpenFile != nil {
		return o.OpenFile(path)
	}
	return os.Open(path)
}

func (o Options) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return DefaultChunkSize
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

type Summary struct {
	Dimension    uint32
	Files        int
	Skipped      int
	ReadErrors   int
	PixelBytes   uint64
	PaddingBytes uint64
	DroppedBytes uint64
}

type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	SkippedDelta   int
	CapacityDelta  uint64
	BytesDelta     uint64
}
