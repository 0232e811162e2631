package transcode

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
)

var (
	ErrMetadataUnavailable = errors.New("couldn't get file metadata")
	ErrTraversalFailed     = errors.New("error in calculating directory size")
)

// Plan fixes every parameter of one conversion run. It is computed once and
// never modified.
type Plan struct {
	Dimension     uint32
	BytesPerPixel uint32
	TotalBytes    uint64
	Files         []string
	Mode          ColorMode
	Compression   CompressionLevel
}

// Capacity is the number of pixel channel bytes the raster holds.
func (p Plan) Capacity() uint64 {
	d := uint64(p.Dimension)
	return d * d * uint64(p.BytesPerPixel)
}

// Dimension returns the side of the square raster for total input bytes.
func Dimension(total uint64, mode ColorMode) uint32 {
	return uint32(math.Sqrt(Describe(mode).Multiplier*float64(total))) + 1
}

// NewPlan sizes input, a regular file or a directory tree.
func NewPlan(input string, mode ColorMode, compression CompressionLevel) (Plan, error) {
	info, err := os.Stat(input)
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}

	var (
		total uint64
		files []string
	)
	if info.IsDir() {
		total, files, err = walkSizes(input)
		if err != nil {
			return Plan{}, err
		}
	} else {
		total = uint64(info.Size())
		files = []string{input}
	}

	return Plan{
		Dimension:     Dimension(total, mode),
		BytesPerPixel: Describe(mode).BytesPerPixel,
		TotalBytes:    total,
		Files:         files,
		Mode:          mode,
		Compression:   compression,
	}, nil
}

// walkSizes sums the sizes of every regular file below root. Symlinks and other
// special files are not followed or counted. Any I/O failure aborts the walk.
func walkSizes(root string) (uint64, []string, error) {
	var (
		total uint64
		files []string
	)

	fsys := os.DirFS(root)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += uint64(info.Size())
		files = append(files, filepath.Join(root, filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrTraversalFailed, err)
	}

	return total, files, nil
}
