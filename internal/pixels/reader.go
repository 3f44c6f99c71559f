// Package pixels turns image files into raw RGBA8 pixel buffers and finds the
// image files of a corpus.
package pixels

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kamusis/chroma/internal/colormath"
)

// ErrUnsupportedPixelFormat indicates that no decoder could read an image.
var ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")

// Reader reads the pixels of an image.
type Reader interface {
	ReadPixels(path string) ([]colormath.RGBA8, error)
}

// FileReader decodes image files from disk.
type FileReader struct {
	// MaxDimension, when positive, shrinks larger images so that neither
	// side exceeds it before the pixels are returned.
	MaxDimension int
}

// ReadPixels decodes the file at path into non-premultiplied RGBA8 pixels in
// row-major order.
func (fr FileReader) ReadPixels(path string) ([]colormath.RGBA8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrUnsupportedPixelFormat, err)
	}
	if fr.MaxDimension > 0 {
		img = shrink(img, fr.MaxDimension)
	}
	return ImagePixels(img), nil
}

// ImagePixels converts any image to RGBA8 pixels.
func ImagePixels(img image.Image) []colormath.RGBA8 {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(nrgba, nrgba.Bounds(), img, b.Min, xdraw.Src)
	}

	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	out := make([]colormath.RGBA8, 0, w*h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*w]
		for x := 0; x < len(row); x += 4 {
			out = append(out, colormath.RGBA8{R: row[x], G: row[x+1], B: row[x+2], A: row[x+3]})
		}
	}
	return out
}

func shrink(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
}
