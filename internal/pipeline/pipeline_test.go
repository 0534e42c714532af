package pipeline

import (
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imagepkg "github.com/youruser/healthposter/internal/image"
	"github.com/youruser/healthposter/internal/layout"
	"github.com/youruser/healthposter/internal/research"
	"github.com/youruser/healthposter/internal/synth"
)

const handwashingReply = `{
  "microLearningPoints": ["اغسل يديك بالماء والصابون", "افرك يديك لمدة 20 ثانية على الأقل", "جفف يديك بمنشفة نظيفة"],
  "summary": "غسل اليدين يقي من العدوى",
  "sources": ["World Health Organization (WHO)"],
  "recommendedTitle": "غسل اليدين"
}`

type fakeSynth struct {
	w, h    int
	prompts []string
}

func (f *fakeSynth) Synthesize(_ context.Context, p string) (*synth.Image, error) {
	f.prompts = append(f.prompts, p)
	img := imaging.New(f.w, f.h, color.NRGBA{R: 0xcc, G: 0xe5, B: 0xff, A: 0xff})
	data, err := imagepkg.Encode(img, imaging.PNG)
	if err != nil {
		return nil, err
	}
	return &synth.Image{Raster: img, Data: data, MimeType: "image/png"}, nil
}

func newGenerator(t *testing.T, reply string, s synth.Synthesizer, opts Options) *Generator {
	t.Helper()
	r, err := research.NewResearcher(research.StaticGenerator{Reply: reply})
	require.NoError(t, err)
	c, err := imagepkg.NewCompositor(nil)
	require.NoError(t, err)
	g, err := NewGenerator(r, s, c, opts)
	require.NoError(t, err)
	return g
}

func TestGenerateInfographic_GridNumbered(t *testing.T) {
	fs := &fakeSynth{w: 600, h: 800}
	g := newGenerator(t, handwashingReply, fs, Options{})

	res, err := g.GenerateInfographic(context.Background(), Request{
		Topic:      "غسل اليدين",
		Layout:     layout.Grid,
		PointStyle: layout.Numbered,
	})
	require.NoError(t, err)

	require.Len(t, res.Points, 3)
	assert.True(t, strings.HasPrefix(res.Points[0], "1. "), res.Points[0])
	assert.True(t, strings.HasPrefix(res.Points[2], "3. "), res.Points[2])
	assert.Equal(t, "غسل اليدين", res.Title)
	assert.False(t, res.Degraded)

	require.Len(t, res.Layout, 4, "title plus three points, no footer")
	assert.Equal(t, res.Title, res.Layout[0].Text)
	assert.Equal(t, res.Points[0], res.Layout[1].Text)
	// Two rows: the first two cells share a row, the third starts the next.
	assert.Equal(t, res.Layout[1].Y, res.Layout[2].Y)
	assert.Greater(t, res.Layout[3].Y, res.Layout[1].Y)
	assert.Equal(t, res.Layout[1].X, res.Layout[3].X)

	assert.True(t, strings.HasPrefix(res.FinalImage, "data:image/png;base64,"))
	assert.True(t, strings.HasPrefix(res.BackgroundImage, "data:image/png;base64,"))
	assert.NotEqual(t, res.FinalImage, res.BackgroundImage)
	assert.NotEmpty(t, res.PNG)

	require.Len(t, fs.prompts, 1)
	assert.Equal(t, fs.prompts[0], res.PromptUsed)
	assert.Contains(t, res.PromptUsed, "غسل اليدين")
}

func TestGenerateInfographic_FooterFitAndQR(t *testing.T) {
	fs := &fakeSynth{w: 300, h: 300}
	g := newGenerator(t, handwashingReply, fs, Options{CanvasWidth: 480, CanvasHeight: 640, QRSize: 60})

	res, err := g.GenerateInfographic(context.Background(), Request{
		Topic:      "hand hygiene",
		Layout:     layout.Central,
		PointStyle: layout.Iconic,
		OrgName:    "  City Clinic ",
		QRText:     "https://example.org",
	})
	require.NoError(t, err)

	require.Len(t, res.Layout, 5)
	assert.Equal(t, "City Clinic", res.Layout[4].Text)
	for _, p := range res.Points {
		assert.True(t, strings.HasPrefix(p, "✓ "), p)
	}

	img, err := imagepkg.DecodeImage(res.PNG)
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 640, img.Bounds().Dy())
}

func TestGenerateInfographic_DegradedResearchStillRenders(t *testing.T) {
	g := newGenerator(t, "the service is having a bad day", &fakeSynth{w: 200, h: 300}, Options{})

	res, err := g.GenerateInfographic(context.Background(), Request{Topic: "vaccines", Layout: layout.Timeline, PointStyle: layout.Bulleted})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	require.Len(t, res.Points, 3)
	for _, p := range res.Points {
		assert.True(t, strings.HasPrefix(p, "• "), p)
	}
}

func TestGenerateInfographic_ImageSynthesisFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
	}))
	defer srv.Close()

	client := synth.NewImagenClient(synth.Config{APIKey: "k", BaseURL: srv.URL})
	g := newGenerator(t, handwashingReply, client, Options{})

	res, err := g.GenerateInfographic(context.Background(), Request{Topic: "غسل اليدين", Layout: layout.Grid, PointStyle: layout.Numbered})
	assert.Nil(t, res)
	var se *synth.ImageSynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.ErrorIs(t, err, synth.ErrImageSynthesis)
}

func TestGenerateInfographic_EmptyTopic(t *testing.T) {
	fs := &fakeSynth{w: 10, h: 10}
	g := newGenerator(t, handwashingReply, fs, Options{})

	res, err := g.GenerateInfographic(context.Background(), Request{Topic: "   "})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Empty(t, fs.prompts)
}

func TestNewGenerator_RequiresCollaborators(t *testing.T) {
	_, err := NewGenerator(nil, &fakeSynth{}, nil, Options{})
	assert.Error(t, err)
}
