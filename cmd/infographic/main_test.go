package main

import (
	"bytes"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imagepkg "github.com/youruser/healthposter/internal/image"
	"github.com/youruser/healthposter/internal/layout"
)

func TestLayoutCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"layout", "--layout", "grid", "-p", "a", "-p", "b", "-p", "c", "--title", "T", "--width", "600", "--height", "800"})
	require.NoError(t, root.Execute())

	var boxes []layout.TextBox
	require.NoError(t, json.Unmarshal(out.Bytes(), &boxes))
	assert.Equal(t, layout.Compute(layout.Grid, []string{"a", "b", "c"}, "T", "", 600, 800), boxes)
}

func TestLayoutCmd_UnknownLayout(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"layout", "--layout", "spiral"})
	assert.ErrorIs(t, root.Execute(), layout.ErrUnknownType)
}

func TestRenderCmd_RequiresTopic(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render"})
	assert.Error(t, root.Execute())
}

func TestRenderCmd_OverLocalBackground(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
research:
  provider: static
  static_reply: '{"microLearningPoints":["Drink water","Eat vegetables","Sleep well"],"summary":"s","sources":["WHO"],"recommendedTitle":"Healthy habits"}'
render:
  width: 360
  height: 480
`), 0o644))

	bgPath := filepath.Join(dir, "bg.png")
	require.NoError(t, imaging.Save(imaging.New(90, 120, color.NRGBA{0xdd, 0xee, 0xff, 0xff}), bgPath))

	outPath := filepath.Join(dir, "out", "poster.png")
	metaPath := filepath.Join(dir, "out", "poster.json")
	root := newRootCmd()
	root.SetArgs([]string{"render", "--config", cfgPath, "--topic", "habits", "--layout", "central",
		"--background", bgPath, "--out", outPath, "--json", metaPath, "--org", "Clinic"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	img, err := imagepkg.DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, 360, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	var meta struct {
		Title  string   `json:"title"`
		Points []string `json:"points"`
	}
	raw, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "Healthy habits", meta.Title)
	assert.Equal(t, "1. Drink water", meta.Points[0])
}
