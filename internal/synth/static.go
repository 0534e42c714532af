package synth

import (
	"bytes"
	"context"
	"net/http"

	"github.com/disintegration/imaging"
)

// StaticSynthesizer returns the same background for every prompt. It lets
// posters be rendered over a supplied image without the remote service.
type StaticSynthesizer struct {
	img *Image
}

func NewStaticSynthesizer(data []byte) (*StaticSynthesizer, error) {
	if len(data) == 0 {
		return nil, &ImageSynthesisError{Kind: KindEmpty, Message: "background is empty"}
	}
	raster, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageSynthesisError{Kind: KindDecode, Message: "background", Err: err}
	}
	return &StaticSynthesizer{img: &Image{Raster: raster, Data: data, MimeType: http.DetectContentType(data)}}, nil
}

func (s *StaticSynthesizer) Synthesize(ctx context.Context, _ string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ImageSynthesisError{Kind: KindTransport, Err: err}
	}
	return s.img, nil
}

var _ Synthesizer = (*StaticSynthesizer)(nil)
