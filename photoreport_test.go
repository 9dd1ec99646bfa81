package photoreport

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcsoft/photoreport/pkg/report"
	"github.com/rcsoft/photoreport/pkg/scanner"
	"github.com/rcsoft/photoreport/pkg/transcoder"
)

// createTestImage creates a test image with an alpha channel
func createTestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := uint8(255)
			if x%2 == 0 {
				a = 0
			}
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, a})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testPipeline(workers int) *Pipeline {
	return NewWithConfig(
		scanner.Config{},
		transcoder.Params{Width: 800, Height: 600, Quality: 80},
		report.DefaultOptions(),
		workers,
	)
}

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.scanner == nil || p.transcoder == nil || p.builder == nil {
		t.Error("Pipeline components not initialized")
	}
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "photos")
	output := filepath.Join(root, "out")
	docPath := filepath.Join(root, "report.docx")

	// One folder with an alpha-channel PNG, one folder without images
	writePNG(t, filepath.Join(input, "trip", "a.png"), createTestImage(300, 200))
	if err := os.MkdirAll(filepath.Join(input, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	stats, err := testPipeline(2).Run(context.Background(), input, output, docPath)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Folders != 1 || stats.Images != 1 {
		t.Errorf("Expected 1 folder / 1 image, got %d / %d", stats.Folders, stats.Images)
	}

	// Transcoded file mirrors the input path, extension untouched
	outFile := filepath.Join(output, "trip", "a.png")
	f, err := os.Open(outFile)
	if err != nil {
		t.Fatalf("Transcoded file missing: %v", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("Transcoded file does not decode: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected jpeg content, got %s", format)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 600 {
		t.Errorf("Expected 800x600, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if _, err := os.Stat(docPath); err != nil {
		t.Errorf("Report document missing: %v", err)
	}

	// The empty folder must not be mirrored
	if _, err := os.Stat(filepath.Join(output, "empty")); !os.IsNotExist(err) {
		t.Error("Expected no output folder for image-less input folder")
	}
}

func TestRunSequential(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "photos")
	writePNG(t, filepath.Join(input, "a.png"), createTestImage(40, 40))
	writePNG(t, filepath.Join(input, "b.png"), createTestImage(40, 40))

	stats, err := testPipeline(1).Run(context.Background(), input, filepath.Join(root, "out"), filepath.Join(root, "r.docx"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Images != 2 {
		t.Errorf("Expected 2 images, got %d", stats.Images)
	}
}

func TestRunMissingInputRoot(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "out")
	docPath := filepath.Join(root, "report.docx")

	_, err := testPipeline(2).Run(context.Background(), filepath.Join(root, "no-such-dir"), output, docPath)
	if err == nil {
		t.Fatal("Expected error for missing input root")
	}

	// The run must abort before anything is written
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("Expected no output tree after failed scan")
	}
	if _, err := os.Stat(docPath); !os.IsNotExist(err) {
		t.Error("Expected no document after failed scan")
	}
}

func TestRunCorruptSiblingAborts(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "photos")
	docPath := filepath.Join(root, "report.docx")

	writePNG(t, filepath.Join(input, "trip", "good.png"), createTestImage(40, 40))
	if err := os.WriteFile(filepath.Join(input, "trip", "bad.jpg"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := testPipeline(2).Run(context.Background(), input, filepath.Join(root, "out"), docPath)
	if err == nil {
		t.Fatal("Expected error from corrupt image")
	}

	// Whether the valid sibling was processed depends on scheduling, but
	// no document may be produced.
	if _, err := os.Stat(docPath); !os.IsNotExist(err) {
		t.Error("Expected no document after aborted run")
	}
}

func TestRunCancelledContext(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "photos")
	writePNG(t, filepath.Join(input, "a.png"), createTestImage(40, 40))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPipeline(2).Run(ctx, input, filepath.Join(root, "out"), filepath.Join(root, "r.docx"))
	if err == nil {
		t.Error("Expected error from cancelled context")
	}
}
