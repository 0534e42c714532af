package imagepkg

import (
	"image"
	"image/draw"
	"math"
	"slices"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"
)

// Face shapes and draws single lines of text at one pixel size. Arabic is
// joined by the shaper and mixed-direction lines are reordered for display.
type Face struct {
	face   *font.Face
	shaper *shaping.HarfbuzzShaper
	size   float64
	scale  float64 // pixels per font unit

	// pixels; descent grows downwards from the baseline
	ascent, descent float64
}

func newFace(f *font.Face, shaper *shaping.HarfbuzzShaper, size float64) *Face {
	// the shaper works in whole pixels
	size = math.Ceil(size)
	upem := float64(f.Upem())
	if upem == 0 {
		upem = 1000
	}
	fc := &Face{face: f, shaper: shaper, size: size, scale: size / upem}
	if ext, ok := f.FontHExtents(); ok {
		fc.ascent = float64(ext.Ascender) * fc.scale
		fc.descent = -float64(ext.Descender) * fc.scale
	} else {
		fc.ascent, fc.descent = 0.8*size, 0.2*size
	}
	return fc
}

// textRun is a rune range of one line with a single direction.
type textRun struct {
	start, end int
	rtl        bool
}

// baseRTL reports whether the first strong character is right-to-left.
func baseRTL(runes []rune) bool {
	for _, r := range runes {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return false
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

// visualRuns splits a line into directional runs in left-to-right display
// order. Glyph order inside a run is left to the shaper.
func visualRuns(runes []rune) []textRun {
	if len(runes) == 0 {
		return nil
	}
	rtl := baseRTL(runes)
	whole := []textRun{{start: 0, end: len(runes), rtl: rtl}}

	var p bidi.Paragraph
	var opts []bidi.Option
	if rtl {
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	}
	if _, err := p.SetString(string(runes), opts...); err != nil {
		return whole
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return whole
	}

	runs := make([]textRun, 0, o.NumRuns())
	for i := 0; i < o.NumRuns(); i++ {
		r := o.Run(i)
		start, last := r.Pos()
		runs = append(runs, textRun{
			start: start,
			end:   min(last+1, len(runes)),
			rtl:   r.Direction() == bidi.RightToLeft,
		})
	}
	if rtl {
		slices.Reverse(runs)
	}
	return runs
}

// scriptOf picks the first specific script in runes.
func scriptOf(runes []rune, rtl bool) language.Script {
	for _, r := range runes {
		switch s := language.LookupScript(r); s {
		case language.Common, language.Inherited, language.Unknown:
		default:
			return s
		}
	}
	if rtl {
		return language.Arabic
	}
	return language.Latin
}

// shape runs the shaper over one run, keeping the whole line as context so
// joining works across run boundaries.
func (f *Face) shape(runes []rune, run textRun) shaping.Output {
	dir := di.DirectionLTR
	if run.rtl {
		dir = di.DirectionRTL
	}
	return f.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  run.start,
		RunEnd:    run.end,
		Direction: dir,
		Face:      f.face,
		Size:      fixed.Int26_6(f.size * 64),
		Script:    scriptOf(runes[run.start:run.end], run.rtl),
	})
}

func (f *Face) shapeLine(s string) ([]shaping.Output, float64) {
	runes := []rune(s)
	runs := visualRuns(runes)
	outs := make([]shaping.Output, len(runs))
	var adv fixed.Int26_6
	for i, run := range runs {
		outs[i] = f.shape(runes, run)
		adv += outs[i].Advance
	}
	return outs, float64(adv) / 64
}

// Measure returns the shaped advance width of s in pixels.
func (f *Face) Measure(s string) float64 {
	_, w := f.shapeLine(s)
	return w
}

// Glyphs returns the shaped glyph ids of s in display order.
func (f *Face) Glyphs(s string) []font.GID {
	outs, _ := f.shapeLine(s)
	var ids []font.GID
	for _, o := range outs {
		for _, g := range o.Glyphs {
			ids = append(ids, g.GlyphID)
		}
	}
	return ids
}

// DrawString paints s with its left edge at x and its baseline at y using
// src as the ink. It returns the advance width. Glyphs outside dst are
// dropped.
func (f *Face) DrawString(dst draw.Image, s string, x, y float64, src image.Image) float64 {
	outs, width := f.shapeLine(s)
	if len(outs) == 0 {
		return 0
	}

	// marks and swashes may leave the nominal line box
	margin := f.size/2 + 2
	bbox := image.Rect(
		int(math.Floor(x-margin)), int(math.Floor(y-f.ascent-margin)),
		int(math.Ceil(x+width+margin)), int(math.Ceil(y+f.descent+margin)),
	)
	if bbox.Intersect(dst.Bounds()).Empty() {
		return width
	}

	z := vector.NewRasterizer(bbox.Dx(), bbox.Dy())
	pen := x - float64(bbox.Min.X)
	baseline := y - float64(bbox.Min.Y)
	for _, o := range outs {
		for _, g := range o.Glyphs {
			ox := pen + float64(g.XOffset)/64
			oy := baseline - float64(g.YOffset)/64
			f.outline(z, g.GlyphID, ox, oy)
			pen += float64(g.XAdvance) / 64
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, bbox.Dx(), bbox.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, bbox, src, image.Point{}, mask, image.Point{}, draw.Over)
	return width
}

// outline adds the glyph's contours to z with the glyph origin at (ox, oy).
// Font units grow upwards; raster rows grow downwards.
func (f *Face) outline(z *vector.Rasterizer, gid font.GID, ox, oy float64) {
	data, ok := f.face.GlyphData(gid).(font.GlyphOutline)
	if !ok || len(data.Segments) == 0 {
		return
	}
	pt := func(p font.SegmentPoint) (float32, float32) {
		return float32(ox + float64(p.X)*f.scale), float32(oy - float64(p.Y)*f.scale)
	}

	open := false
	for _, seg := range data.Segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pt(seg.Args[0]))
			open = true
		case ot.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case ot.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}
}
