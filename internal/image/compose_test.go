package imagepkg

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/healthposter/internal/layout"
)

func newCompositor(t *testing.T) *Compositor {
	t.Helper()
	c, err := NewCompositor(nil)
	require.NoError(t, err)
	return c
}

func testFaces(t *testing.T) *faceSet {
	t.Helper()
	book, err := NewFontBook()
	require.NoError(t, err)
	fs := newFaceSet(book)
	t.Cleanup(fs.close)
	return fs
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	if diff(want.R, got.R) > 2 || diff(want.G, got.G) > 2 || diff(want.B, got.B) > 2 || diff(want.A, got.A) > 2 {
		t.Errorf("color %v not near %v", got, want)
	}
}

func TestWrapText(t *testing.T) {
	fs := testFaces(t)
	face, err := fs.face(layout.FamilyRegular, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"Wash hands"}, WrapText(face, "Wash hands", 500))

	long := "Wash your hands with soap and water for at least twenty seconds every time"
	lines := WrapText(face, long, 150)
	assert.Greater(t, len(lines), 1)
	for _, l := range lines {
		if len(strings.Fields(l)) > 1 {
			assert.LessOrEqual(t, face.Measure(l), 150.0, l)
		}
	}

	word := "Supercalifragilisticexpialidocious"
	assert.Equal(t, []string{"a", word, "b"}, WrapText(face, "a "+word+" b", 40))
	assert.Empty(t, WrapText(face, "   ", 100))
}

func TestComposite_EmptyCanvas(t *testing.T) {
	c := newCompositor(t)
	boxes := layout.Compute(layout.Timeline, []string{"a", "b"}, "title", "footer", 0, 0)

	out, err := c.Composite(nil, boxes)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1, 1), out.Bounds())

	out, err = c.Composite(image.NewNRGBA(image.Rect(0, 0, 0, 0)), boxes)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Bounds().Dx())
}

func TestComposite_DoesNotMutateBackground(t *testing.T) {
	c := newCompositor(t)
	white := color.NRGBA{255, 255, 255, 255}
	bg := imaging.New(600, 800, white)
	before := append([]uint8(nil), bg.Pix...)

	boxes := layout.Compute(layout.Grid, []string{"one", "two", "three"}, "Title", "Org", 600, 800)
	out, err := c.Composite(bg, boxes)
	require.NoError(t, err)

	assert.Equal(t, before, bg.Pix)
	assert.NotEqual(t, bg.Pix, out.Pix)
	assert.Equal(t, bg.Bounds(), out.Bounds())
}

func TestComposite_FillsBoxAndDrawsText(t *testing.T) {
	c := newCompositor(t)
	bg := imaging.New(200, 200, color.NRGBA{255, 255, 255, 255})
	fill := color.NRGBA{10, 20, 200, 255}
	box := layout.TextBox{
		X: 20, Y: 20, Width: 160, Height: 100,
		FontSizePx: 20, FontFamily: layout.FamilyBold,
		TextColor:       color.NRGBA{255, 255, 0, 255},
		BackgroundColor: fill,
		CornerRadiusPx:  16, PaddingPx: 10, Align: layout.AlignCenter,
		Text: "Hi",
	}
	out, err := c.Composite(bg, []layout.TextBox{box})
	require.NoError(t, err)

	// Inside the fill, away from the text.
	assertNear(t, fill, out.NRGBAAt(100, 112))
	// Rounded corner stays background.
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(20, 20))
	// Outside the box.
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(5, 150))

	yellow := 0
	for y := 20; y < 120; y++ {
		for x := 20; x < 180; x++ {
			p := out.NRGBAAt(x, y)
			if p.R > 200 && p.G > 200 && p.B < 100 {
				yellow++
			}
		}
	}
	assert.Positive(t, yellow, "text pixels drawn")
}

func TestComposite_LaterBoxesPaintOver(t *testing.T) {
	c := newCompositor(t)
	bg := imaging.New(100, 100, color.NRGBA{0, 0, 0, 255})
	red := color.NRGBA{255, 0, 0, 255}
	green := color.NRGBA{0, 255, 0, 255}
	boxes := []layout.TextBox{
		{X: 10, Y: 10, Width: 80, Height: 80, BackgroundColor: red},
		{X: 30, Y: 30, Width: 40, Height: 40, BackgroundColor: green},
	}
	out, err := c.Composite(bg, boxes)
	require.NoError(t, err)
	assertNear(t, red, out.NRGBAAt(15, 15))
	assertNear(t, green, out.NRGBAAt(50, 50))
}

func TestComposite_OffCanvasBoxIsClipped(t *testing.T) {
	c := newCompositor(t)
	bg := imaging.New(50, 50, color.NRGBA{0, 0, 0, 255})
	red := color.NRGBA{255, 0, 0, 255}
	boxes := []layout.TextBox{
		{X: -20, Y: -20, Width: 40, Height: 40, BackgroundColor: red, Text: "overflowing text that will not fit", FontSizePx: 12, TextColor: red},
		{X: 500, Y: 500, Width: 40, Height: 40, BackgroundColor: red},
	}
	out, err := c.Composite(bg, boxes)
	require.NoError(t, err)
	assertNear(t, red, out.NRGBAAt(5, 5))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(45, 45))
}

type recordSink struct{ ops []Op }

func (r *recordSink) MoveTo(x, y float32)         { r.ops = append(r.ops, OpMove) }
func (r *recordSink) LineTo(x, y float32)         { r.ops = append(r.ops, OpLine) }
func (r *recordSink) QuadTo(cx, cy, x, y float32) { r.ops = append(r.ops, OpQuad) }
func (r *recordSink) ClosePath()                  { r.ops = append(r.ops, OpClose) }

func TestRoundedRectPath(t *testing.T) {
	p := RoundedRectPath(0, 0, 100, 40, 16)
	var quads int
	for _, s := range p {
		if s.Op == OpQuad {
			quads++
		}
	}
	assert.Equal(t, 4, quads)
	assert.Equal(t, [2]float64{16, 0}, p[0].P)

	// Radius clamped to half the shorter side.
	p = RoundedRectPath(0, 0, 100, 40, 90)
	assert.Equal(t, [2]float64{20, 0}, p[0].P)

	// Zero radius is a plain rectangle.
	var rec recordSink
	RoundedRectPath(5, 5, 10, 10, 0).Replay(&rec)
	assert.Equal(t, []Op{OpMove, OpLine, OpLine, OpLine, OpClose}, rec.ops)
}

func TestFontBook_Fallback(t *testing.T) {
	book, err := NewFontBook()
	require.NoError(t, err)
	assert.True(t, book.Has(layout.FamilyRegular))
	assert.True(t, book.Has(layout.FamilyBold))
	assert.True(t, book.Has(FamilyGo))
	assert.True(t, book.Has(FamilyGoBold))
	assert.False(t, book.Has("custom"))
	assert.NotNil(t, book.lookup("custom"))

	assert.Error(t, book.Register("broken", []byte("not a font")))
	assert.Error(t, book.LoadFile("missing", "/nonexistent/font.ttf"))
}
