package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestDetectHeader(t *testing.T) {
	cases := []struct {
		header []byte
		want   Kind
	}{
		{[]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, KindPNG},
		{[]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0}, KindJPEG},
		{[]byte{'I', 'I', 0x2a, 0, 8, 0, 0, 0}, KindTIFF},
		{[]byte{'M', 'M', 0, 0x2a, 0, 0, 0, 8}, KindTIFF},
		{[]byte("BM\x00\x00\x00\x00\x00\x00"), KindBMP},
		{[]byte("RIFF\x10\x00\x00\x00WEBP"), KindWebP},
		{[]byte("RIFF\x10\x00\x00\x00WAVE"), KindUnknown},
		{[]byte("plain text"), KindUnknown},
	}

	for _, tc := range cases {
		got, err := DetectHeader(tc.header)
		if err != nil || got != tc.want {
			t.Fatalf("DetectHeader(%q) = %s, %v; want %s", tc.header, got, err, tc.want)
		}
	}

	if _, err := DetectHeader([]byte{0x89, 'P'}); err == nil {
		t.Fatalf("expected error for short header")
	}
}

func TestSniffShortReader(t *testing.T) {
	kind, err := SniffReader(bytes.NewReader([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0}))
	if err != nil || kind != KindPNG {
		t.Fatalf("SniffReader = %s, %v; want png", kind, err)
	}
}

func TestDecodeConfig(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 7, 3))
	img.SetGray(1, 1, color.Gray{Y: 0x80})

	pngPath := filepath.Join(dir, "a.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := DecodeConfig(pngPath)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Format != "png" || cfg.Width != 7 || cfg.Height != 3 || cfg.Model != "gray" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	bmpPath := filepath.Join(dir, "a.bmp")
	buf.Reset()
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	if err := os.WriteFile(bmpPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	kind, err := SniffFile(bmpPath)
	if err != nil || kind != KindBMP {
		t.Fatalf("SniffFile = %s, %v; want bmp", kind, err)
	}
	cfg, err = DecodeConfig(bmpPath)
	if err != nil {
		t.Fatalf("decode bmp config: %v", err)
	}
	if cfg.Format != "bmp" || cfg.Width != 7 || cfg.Height != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
