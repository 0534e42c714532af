package imagepkg

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DecodeImage decodes PNG, JPEG, GIF, BMP or TIFF bytes, honouring EXIF
// orientation.
func DecodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Encode serializes img in the given format.
func Encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// FitCanvas scales and centre-crops img to exactly w x h. Non-positive
// targets return img as an NRGBA copy.
func FitCanvas(img image.Image, w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}
