package synth

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSynthesizer(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(pngBase64(t, 8, 6))
	require.NoError(t, err)

	s, err := NewStaticSynthesizer(data)
	require.NoError(t, err)
	img, err := s.Synthesize(context.Background(), "ignored")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Raster.Bounds().Dx())
	assert.Equal(t, "image/png", img.MimeType)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Synthesize(ctx, "p")
	assert.ErrorIs(t, err, ErrImageSynthesis)
}

func TestStaticSynthesizer_BadInput(t *testing.T) {
	_, err := NewStaticSynthesizer(nil)
	var se *ImageSynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindEmpty, se.Kind)

	_, err = NewStaticSynthesizer([]byte("not an image"))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindDecode, se.Kind)
}
