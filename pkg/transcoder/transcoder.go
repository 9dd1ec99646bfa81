// Package transcoder normalizes source images to fixed-size JPEG files.
package transcoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/rcsoft/photoreport/internal/utils"
)

// Params holds the normalization parameters applied to every image.
type Params struct {
	// Width and Height are the exact output dimensions in pixels. The
	// resize is forced: aspect ratio is intentionally not preserved.
	Width  int
	Height int
	// Quality is the JPEG quality, conventionally 1-95. Default 85.
	// It is passed through to the encoder without range checks.
	Quality int
}

// DefaultParams returns the default normalization parameters.
func DefaultParams() Params {
	return Params{
		Width:   1280,
		Height:  720,
		Quality: 85,
	}
}

// Transcoder converts images of any supported format into JPEG files at a
// fixed resolution and quality.
type Transcoder struct {
	params Params
}

// New creates a new Transcoder with default parameters
func New() *Transcoder {
	return &Transcoder{params: DefaultParams()}
}

// NewWithParams creates a new Transcoder with custom parameters
func NewWithParams(params Params) *Transcoder {
	return &Transcoder{params: params}
}

// Params returns the parameters the transcoder applies.
func (t *Transcoder) Params() Params {
	return t.params
}

// Transcode decodes the image at src, resizes it to exactly Width x Height,
// and writes it to dst as JPEG at the configured quality, creating missing
// destination directories. The destination filename is used verbatim; the
// content is JPEG even when dst carries a different extension. Transparency
// is dropped at encode time, leaving the raw color channel values.
func (t *Transcoder) Transcode(src, dst string) error {
	img, err := t.load(src)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", src, err)
	}

	resized := imaging.Resize(img, t.params.Width, t.params.Height, imaging.Lanczos)

	// JPEG encoders read pixels alpha-premultiplied, which would blend
	// transparent pixels to black. Force full opacity so the raw color
	// channel values survive.
	for i := 3; i < len(resized.Pix); i += 4 {
		resized.Pix[i] = 0xff
	}

	if err := utils.EnsureDir(filepath.Dir(dst)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := imaging.Encode(f, resized, imaging.JPEG, imaging.JPEGQuality(t.params.Quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", dst, err)
	}
	return nil
}

// load opens an image file with WebP support
func (t *Transcoder) load(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(strings.ToLower(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("image: unknown format for %s", path)
	}
	return img, nil
}
