package mask

import (
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes any of the registered raster formats.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode line art: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode line art (%s): %w", format, ErrEmptySource)
	}
	return img, nil
}

// Decode reads line art from r and builds a mask from it.
func Decode(r io.Reader, width, height int, opts Options) (*Mask, error) {
	img, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return Build(img, width, height, opts)
}
