package transcode

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDimensionFormula(t *testing.T) {
	for _, mode := range []ColorMode{Bitwise, Grayscale, RGB, GrayscaleAlpha, RGBA} {
		for _, n := range []uint64{0, 1, 2, 9, 10, 16, 100, 1000, 4096, 123457} {
			want := uint32(math.Floor(math.Sqrt(Describe(mode).Multiplier*float64(n)))) + 1
			got := Dimension(n, mode)
			if got != want || got < 1 {
				t.Fatalf("Dimension(%d, %s) = %d, want %d", n, mode, got, want)
			}
		}
	}

	if d := Dimension(10, Grayscale); d != 4 {
		t.Fatalf("10 bytes grayscale: got %d want 4", d)
	}
	if d := Dimension(2, Bitwise); d != 5 {
		t.Fatalf("2 bytes bitwise: got %d want 5", d)
	}
}

func TestPlanSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	writeFile(t, path, 10)

	plan, err := NewPlan(path, Grayscale, CompressionBest)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Dimension != 4 || plan.BytesPerPixel != 1 || plan.TotalBytes != 10 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if !reflect.DeepEqual(plan.Files, []string{path}) {
		t.Fatalf("unexpected files: %v", plan.Files)
	}
	if plan.Capacity() != 16 || plan.Compression != CompressionBest {
		t.Fatalf("unexpected capacity/compression: %d %s", plan.Capacity(), plan.Compression)
	}
}

func TestPlanDirectoryAggregatesNestedFiles(t *testing.T) {
	root := t.TempDir()
	want := []string{
		filepath.Join(root, "a.bin"),
		filepath.Join(root, "sub", "b.bin"),
		filepath.Join(root, "sub", "deeper", "still", "c.bin"),
	}
	writeFile(t, want[0], 7)
	writeFile(t, want[1], 100)
	writeFile(t, want[2], 1)
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	plan, err := NewPlan(root, RGBA, CompressionDefault)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.TotalBytes != 108 {
		t.Fatalf("total = %d, want 108", plan.TotalBytes)
	}
	if plan.Dimension != Dimension(108, RGBA) || plan.BytesPerPixel != 4 {
		t.Fatalf("unexpected plan: %+v", plan)
	}

	got := append([]string(nil), plan.Files...)
	sort.Strings(got)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("files = %v, want a permutation of %v", plan.Files, want)
	}
}

func TestPlanEmptyDirectory(t *testing.T) {
	plan, err := NewPlan(t.TempDir(), Bitwise, CompressionDefault)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.Dimension != 1 || plan.TotalBytes != 0 || len(plan.Files) != 0 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "x"), 33)
	writeFile(t, filepath.Join(root, "y", "z"), 12)

	first, err := NewPlan(root, RGB, CompressionFast)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	second, err := NewPlan(root, RGB, CompressionFast)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ: %+v vs %+v", first, second)
	}
}

func TestPlanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.bin")
	writeFile(t, target, 20)
	if err := os.Symlink(target, filepath.Join(root, "link.bin")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	plan, err := NewPlan(root, Grayscale, CompressionDefault)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.TotalBytes != 20 || len(plan.Files) != 1 {
		t.Fatalf("symlink was counted: %+v", plan)
	}
}

func TestPlanMissingInput(t *testing.T) {
	_, err := NewPlan(filepath.Join(t.TempDir(), "missing"), Grayscale, CompressionDefault)
	if !errors.Is(err, ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}
