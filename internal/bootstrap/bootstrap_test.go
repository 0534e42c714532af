package bootstrap

import (
	"context"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/healthposter/internal/config"
	imagepkg "github.com/youruser/healthposter/internal/image"
	"github.com/youruser/healthposter/internal/layout"
	"github.com/youruser/healthposter/internal/pipeline"
	"github.com/youruser/healthposter/internal/synth"
)

func TestNew_StaticProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Research.Provider = "static"
	cfg.Research.StaticReply = `{"microLearningPoints":["a","b","c"],"summary":"s","sources":["WHO"],"recommendedTitle":"t"}`

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Generator)
	assert.NotNil(t, app.Compositor)
}

func TestNew_WithSynthesizer(t *testing.T) {
	cfg := config.Default()
	cfg.Research.Provider = "static"
	cfg.Render.Width, cfg.Render.Height = 300, 400

	bg := imaging.New(50, 50, color.NRGBA{0, 0x80, 0x80, 0xff})
	data, err := imagepkg.Encode(bg, imaging.PNG)
	require.NoError(t, err)
	s, err := synth.NewStaticSynthesizer(data)
	require.NoError(t, err)

	app, err := New(context.Background(), cfg, WithSynthesizer(s))
	require.NoError(t, err)
	defer app.Close()

	res, err := app.Generator.GenerateInfographic(context.Background(), pipeline.Request{Topic: "sleep", Layout: layout.Grid})
	require.NoError(t, err)
	assert.True(t, res.Degraded, "static provider with no reply degrades")
	assert.Len(t, res.Layout, 4)
}

func TestNew_MissingFont(t *testing.T) {
	cfg := config.Default()
	cfg.Research.Provider = "static"
	cfg.Render.FontPath = "/nonexistent/Amiri-Regular.ttf"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Research.Provider = "llama"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
