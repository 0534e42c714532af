package imagepkg

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := imaging.New(12, 7, color.NRGBA{200, 10, 10, 255})
	data, err := Encode(src, imaging.PNG)
	require.NoError(t, err)

	img, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	_, err = DecodeImage([]byte("nope"))
	assert.Error(t, err)
}

func TestFitCanvas(t *testing.T) {
	src := imaging.New(300, 300, color.NRGBA{0, 0, 0, 255})

	out := FitCanvas(src, 120, 160)
	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 160, out.Bounds().Dy())

	same := FitCanvas(src, 0, 0)
	assert.Equal(t, src.Bounds(), same.Bounds())
	same.Pix[0] = 1
	assert.Equal(t, uint8(0), src.Pix[0])
}
