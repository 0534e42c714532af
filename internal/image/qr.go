package imagepkg

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/healthposter/internal/layout"
)

const (
	DefaultQRSize = 80
	qrMargin      = 10
)

// GenerateQRImage returns a square QR code for text at size pixels.
func GenerateQRImage(text string, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true
	return q.Image(size), nil
}

// StampQR overlays a QR code in the bottom-right corner of the footer strip
// and returns the result. The canvas passed in is not modified. Canvases too
// small to hold the code are returned as a copy, unchanged.
func StampQR(canvas *image.NRGBA, text string, size int) (*image.NRGBA, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	b := canvas.Bounds()
	if b.Dx() < size+2*qrMargin || b.Dy() < int(layout.FooterHeight) || size > int(layout.FooterHeight)-qrMargin {
		return imaging.Clone(canvas), nil
	}
	q, err := GenerateQRImage(text, size)
	if err != nil {
		return nil, err
	}
	footerTop := b.Max.Y - int(layout.FooterHeight)
	pos := image.Pt(
		b.Max.X-qrMargin-size,
		footerTop+(int(layout.FooterHeight)-size)/2,
	)
	return imaging.Overlay(canvas, q, pos, 1.0), nil
}
