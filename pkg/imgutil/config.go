package imgutil

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Config is the decoded header of an image file.
type Config struct {
	Format string
	Width  int
	Height int
	Model  string
}

// DecodeConfig reads the dimensions and colour model of the image at path.
func DecodeConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return DecodeConfigReader(f)
}

func DecodeConfigReader(r io.Reader) (Config, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Config{}, fmt.Errorf("could not read image config: %w", err)
	}
	return Config{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Model:  modelName(cfg.ColorModel),
	}, nil
}

func modelName(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "gray"
	case color.Gray16Model:
		return "gray16"
	case color.RGBAModel:
		return "rgba"
	case color.RGBA64Model:
		return "rgba64"
	case color.NRGBAModel:
		return "nrgba"
	case color.NRGBA64Model:
		return "nrgba64"
	case color.YCbCrModel:
		return "ycbcr"
	case color.CMYKModel:
		return "cmyk"
	}
	if _, ok := m.(color.Palette); ok {
		return "paletted"
	}
	return "other"
}
