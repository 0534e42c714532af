package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Op is a path drawing primitive.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpQuad
	OpClose
)

// Segment is one path command. Line and move use P; quad uses C as the
// control point and P as the end point.
type Segment struct {
	Op   Op
	C, P [2]float64
}

// Path is a closed outline built from line and quadratic-curve primitives.
type Path []Segment

// PathSink receives path commands. *vector.Rasterizer satisfies it.
type PathSink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	QuadTo(cx, cy, x, y float32)
	ClosePath()
}

// RoundedRectPath outlines a rectangle whose corners are approximated with
// quadratic curves. The radius is clamped to half the shorter side.
func RoundedRectPath(x, y, w, h, r float64) Path {
	w, h = math.Max(0, w), math.Max(0, h)
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))

	if r == 0 {
		return Path{
			{Op: OpMove, P: [2]float64{x, y}},
			{Op: OpLine, P: [2]float64{x + w, y}},
			{Op: OpLine, P: [2]float64{x + w, y + h}},
			{Op: OpLine, P: [2]float64{x, y + h}},
			{Op: OpClose},
		}
	}

	return Path{
		{Op: OpMove, P: [2]float64{x + r, y}},
		{Op: OpLine, P: [2]float64{x + w - r, y}},
		{Op: OpQuad, C: [2]float64{x + w, y}, P: [2]float64{x + w, y + r}},
		{Op: OpLine, P: [2]float64{x + w, y + h - r}},
		{Op: OpQuad, C: [2]float64{x + w, y + h}, P: [2]float64{x + w - r, y + h}},
		{Op: OpLine, P: [2]float64{x + r, y + h}},
		{Op: OpQuad, C: [2]float64{x, y + h}, P: [2]float64{x, y + h - r}},
		{Op: OpLine, P: [2]float64{x, y + r}},
		{Op: OpQuad, C: [2]float64{x, y}, P: [2]float64{x + r, y}},
		{Op: OpClose},
	}
}

// Replay sends the path to s.
func (p Path) Replay(s PathSink) {
	for _, seg := range p {
		switch seg.Op {
		case OpMove:
			s.MoveTo(float32(seg.P[0]), float32(seg.P[1]))
		case OpLine:
			s.LineTo(float32(seg.P[0]), float32(seg.P[1]))
		case OpQuad:
			s.QuadTo(float32(seg.C[0]), float32(seg.C[1]), float32(seg.P[0]), float32(seg.P[1]))
		case OpClose:
			s.ClosePath()
		}
	}
}

// clipSink translates canvas coordinates into a rasterizer covering only
// the visible part of a shape and clamps everything into that window.
type clipSink struct {
	dst          PathSink
	ox, oy, w, h float64
}

func (c clipSink) pt(x, y float32) (float32, float32) {
	cx := math.Max(0, math.Min(c.w, float64(x)-c.ox))
	cy := math.Max(0, math.Min(c.h, float64(y)-c.oy))
	return float32(cx), float32(cy)
}

func (c clipSink) MoveTo(x, y float32) { c.dst.MoveTo(c.pt(x, y)) }
func (c clipSink) LineTo(x, y float32) { c.dst.LineTo(c.pt(x, y)) }
func (c clipSink) QuadTo(cx, cy, x, y float32) {
	ax, ay := c.pt(cx, cy)
	bx, by := c.pt(x, y)
	c.dst.QuadTo(ax, ay, bx, by)
}
func (c clipSink) ClosePath() { c.dst.ClosePath() }

// fillRoundedRect paints a rounded rectangle over dst. Parts outside dst
// are dropped.
func fillRoundedRect(dst draw.Image, x, y, w, h, r float64, fill color.NRGBA) {
	if fill.A == 0 || w <= 0 || h <= 0 {
		return
	}
	bbox := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	clip := bbox.Intersect(dst.Bounds())
	if clip.Empty() {
		return
	}

	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	z.DrawOp = draw.Over
	RoundedRectPath(x, y, w, h, r).Replay(clipSink{
		dst: z,
		ox:  float64(clip.Min.X),
		oy:  float64(clip.Min.Y),
		w:   float64(clip.Dx()),
		h:   float64(clip.Dy()),
	})
	z.Draw(dst, clip, image.NewUniform(fill), image.Point{})
}
