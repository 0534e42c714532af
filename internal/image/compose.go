// Package imagepkg renders text boxes onto poster backgrounds.
package imagepkg

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/youruser/healthposter/internal/layout"
)

const lineSpacing = 1.2

// Compositor draws layout boxes over a background.
type Compositor struct {
	fonts *FontBook
}

// NewCompositor returns a compositor using book for glyphs. A nil book
// falls back to the built-in families.
func NewCompositor(book *FontBook) (*Compositor, error) {
	if book == nil {
		b, err := NewFontBook()
		if err != nil {
			return nil, err
		}
		book = b
	}
	return &Compositor{fonts: book}, nil
}

// Fonts exposes the compositor's font book.
func (c *Compositor) Fonts() *FontBook { return c.fonts }

// Composite returns a copy of bg with every box painted in order: the
// rounded background first, then the wrapped text centred vertically.
// bg is never modified. A nil or empty background yields a 1x1 canvas.
func (c *Compositor) Composite(bg image.Image, boxes []layout.TextBox) (*image.NRGBA, error) {
	var canvas *image.NRGBA
	if bg == nil || bg.Bounds().Empty() {
		canvas = imaging.New(1, 1, color.NRGBA{})
	} else {
		canvas = imaging.Clone(bg)
	}

	faces := newFaceSet(c.fonts)
	defer faces.close()

	var errs []error
	for _, b := range boxes {
		fillRoundedRect(canvas, b.X, b.Y, b.Width, b.Height, b.CornerRadiusPx, b.BackgroundColor)
		if err := drawBoxText(canvas, faces, b); err != nil {
			errs = append(errs, err)
		}
	}
	return canvas, errors.Join(errs...)
}

func drawBoxText(dst draw.Image, faces *faceSet, b layout.TextBox) error {
	if b.Text == "" || b.TextColor.A == 0 {
		return nil
	}
	face, err := faces.face(b.FontFamily, b.FontSizePx)
	if err != nil {
		return err
	}

	inner := math.Max(1, b.Width-2*b.PaddingPx)
	lines := WrapText(face, b.Text, inner)
	if len(lines) == 0 {
		return nil
	}

	lh := math.Max(1, b.FontSizePx) * lineSpacing
	top := b.Y + (b.Height-float64(len(lines))*lh)/2

	ink := image.NewUniform(b.TextColor)
	for i, line := range lines {
		lw := face.Measure(line)
		var x float64
		switch b.Align {
		case layout.AlignLeft:
			x = b.X + b.PaddingPx
		case layout.AlignRight:
			x = b.X + b.Width - b.PaddingPx - lw
		default:
			x = b.X + (b.Width-lw)/2
		}
		baseline := top + float64(i)*lh + (lh+face.ascent-face.descent)/2
		face.DrawString(dst, line, x, baseline, ink)
	}
	return nil
}
