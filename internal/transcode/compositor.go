package transcode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	ErrSinkInit     = errors.New("failed initialising raster sink")
	ErrSinkWrite    = errors.New("failed writing to raster sink")
	ErrSinkFinalize = errors.New("failed finalising raster sink")
)

// Run streams every file of plan through the transcoder into a sink obtained from
// open, pads the raster to its full capacity and finalises it. Files that can't be
// opened or read are skipped; sink failures abort the run.
func Run(plan Plan, open SinkOpener, opts Options, updates chan<- ProgressUpdate) (Summary, error) {
	summary := Summary{Dimension: plan.Dimension}

	sink, err := open(plan.Dimension, plan.Dimension, plan.Mode, plan.Compression)
	if err != nil {
		return summary, fmt.Errorf("%w: %w", ErrSinkInit, err)
	}

	chunkSize := opts.chunkSize()
	c := &compositor{
		sink:     sink,
		mode:     plan.Mode,
		capacity: plan.Capacity(),
		logger:   opts.logger(),
		updates:  updates,
		buf:      make([]byte, chunkSize),
		out:      make([]byte, 0, TranscodedLen(chunkSize, plan.Mode)),
	}
	c.send(ProgressUpdate{TotalDelta: len(plan.Files), CapacityDelta: c.capacity})

	for _, path := range plan.Files {
		opened, err := c.writeFile(path, opts)
		if err != nil {
			c.discard()
			return c.summarize(summary), err
		}
		if opened {
			summary.Files++
			c.send(ProgressUpdate{ProcessedDelta: 1})
		} else {
			summary.Skipped++
			c.send(ProgressUpdate{SkippedDelta: 1})
		}
	}

	if err := c.pad(chunkSize); err != nil {
		c.discard()
		return c.summarize(summary), err
	}

	if err := sink.Finalize(); err != nil {
		c.discard()
		return c.summarize(summary), fmt.Errorf("%w: %w", ErrSinkFinalize, err)
	}

	return c.summarize(summary), nil
}

type compositor struct {
	sink     Sink
	mode     ColorMode
	capacity uint64
	logger   *slog.Logger
	updates  chan<- ProgressUpdate

	buf []byte
	out []byte

	// written never exceeds capacity.
	written    uint64
	padding    uint64
	dropped    uint64
	readErrors int
}

// writeFile reports whether path could be opened. The returned error is always
// a sink failure.
func (c *compositor) writeFile(path string, opts Options) (bool, error) {
	logger := c.logger.With("file", path)
	logger.Info("writing data")

	f, err := opts.openFile(path)
	if err != nil {
		logger.Error("couldn't open file", "error", err)
		return false, nil
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Error("could not close file", "error", closeErr)
		}
	}()

	chunks := 0
	for {
		n, readErr := f.Read(c.buf)
		if n > 0 {
			if err := c.emit(c.buf[:n]); err != nil {
				return true, err
			}
			chunks++
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			c.readErrors++
			logger.Error("read failed, moving to next file", "chunk", chunks, "error", readErr)
			break
		}
	}

	logger.Debug("file written", "chunks", chunks)
	return true, nil
}

func (c *compositor) emit(chunk []byte) error {
	c.out = AppendTranscoded(c.out[:0], chunk, c.mode)
	out := c.out

	if room := c.capacity - c.written; uint64(len(out)) > room {
		if c.dropped == 0 {
			c.logger.Warn("input exceeds raster capacity, truncating", "capacity", c.capacity)
		}
		c.dropped += uint64(len(out)) - room
		out = out[:room]
	}
	if len(out) == 0 {
		return nil
	}

	if _, err := c.sink.Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	c.written += uint64(len(out))
	c.send(ProgressUpdate{BytesDelta: uint64(len(out))})
	return nil
}

// pad fills the raster up to its capacity with zero bytes.
func (c *compositor) pad(chunkSize int) error {
	remaining := c.capacity - c.written
	if remaining == 0 {
		return nil
	}

	zeros := make([]byte, min(remaining, uint64(chunkSize)))
	for remaining > 0 {
		n := min(remaining, uint64(len(zeros)))
		if _, err := c.sink.Write(zeros[:n]); err != nil {
			return fmt.Errorf("%w: padding: %w", ErrSinkWrite, err)
		}
		remaining -= n
		c.padding += n
		c.send(ProgressUpdate{BytesDelta: n})
	}
	return nil
}

func (c *compositor) discard() {
	if err := c.sink.Discard(); err != nil {
		c.logger.Error("could not discard partial raster", "error", err)
	}
}

func (c *compositor) summarize(s Summary) Summary {
	s.ReadErrors = c.readErrors
	s.PixelBytes = c.written
	s.PaddingBytes = c.padding
	s.DroppedBytes = c.dropped
	return s
}

func (c *compositor) send(u ProgressUpdate) {
	if c.updates != nil {
		c.updates <- u
	}
}
