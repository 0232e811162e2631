package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oculurum/internal/transcode"
)

func TestConvertDirectoryToPNG(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "a"), []byte("abcd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "nested", "b"), []byte("efghij"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	output := filepath.Join(t.TempDir(), "out.png")
	plan, summary, got, err := convert(convertOptions{
		Input:       root,
		Output:      output,
		Mode:        transcode.Grayscale,
		Compression: compressionLevelArg("99"),
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != output || plan.Dimension != 4 || summary.PaddingBytes != 6 {
		t.Fatalf("unexpected result %q %+v %+v", got, plan, summary)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray", img)
	}
	if string(gray.Pix[:10]) != "abcdefghij" || !bytes.Equal(gray.Pix[10:], make([]byte, 6)) {
		t.Fatalf("unexpected pixels %q", gray.Pix)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(output), ".oculurum-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}

	report, err := inspectImage(output)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.PNG == nil || report.Config.Width != 4 || report.PNG.Chunks["eXIf"] != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	if !strings.Contains(buf.String(), "IDAT") {
		t.Fatalf("report lacks chunk listing:\n%s", buf.String())
	}
}

func TestConvertBitwiseFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bits")
	if err := os.WriteFile(input, []byte{0b00000001, 0b11111111}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	output := filepath.Join(t.TempDir(), "bits.png")

	if _, _, _, err := convert(convertOptions{Input: input, Output: output, Mode: transcode.Bitwise}); err != nil {
		t.Fatalf("convert: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	gray := img.(*image.Gray)
	if gray.Rect.Dx() != 5 || gray.Pix[0] != 0xff || gray.Pix[1] != 0 || gray.Pix[15] != 0xff || gray.Pix[16] != 0 {
		t.Fatalf("unexpected bitwise raster %v", gray.Pix)
	}
}

func TestConvertFailures(t *testing.T) {
	_, _, _, err := convert(convertOptions{Input: filepath.Join(t.TempDir(), "missing"), Mode: transcode.Grayscale})
	if exitCode(err) != exitPlanning {
		t.Fatalf("missing input: code %d (%v)", exitCode(err), err)
	}

	input := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(input, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	output := filepath.Join(t.TempDir(), "no", "such", "dir", "out.png")
	_, _, _, err = convert(convertOptions{Input: input, Output: output, Mode: transcode.RGB})
	if !errors.Is(err, errCreateOutput) || exitCode(err) != exitCreateOutput {
		t.Fatalf("uncreatable output: code %d (%v)", exitCode(err), err)
	}
}
