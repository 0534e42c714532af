// Package synth requests the textless background illustration from an
// Imagen-style image generation endpoint.
package synth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultModel       = "imagen-3.0-generate-002"
	DefaultTimeout     = 120 * time.Second
	PosterAspectRatio  = "3:4"
	defaultMimeType    = "image/png"
	maxErrorBodyLength = 512
)

// Image is a decoded background plus the bytes it came from.
type Image struct {
	Raster   image.Image
	Data     []byte
	MimeType string
}

// Synthesizer produces one background image for a prompt.
type Synthesizer interface {
	Synthesize(ctx context.Context, prompt string) (*Image, error)
}

type Config struct {
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	Interval time.Duration // minimum spacing between requests, 0 = unlimited
}

// ImagenClient talks to the :predict endpoint.
type ImagenClient struct {
	client  *resty.Client
	apiKey  string
	model   string
	limiter *rate.Limiter
}

func NewImagenClient(cfg Config) *ImagenClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "healthposter/1.0")

	return &ImagenClient{
		client:  client,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: limiter,
	}
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// Synthesize requests exactly one 3:4 image. Every failure is an
// *ImageSynthesisError and no retry is attempted.
func (c *ImagenClient) Synthesize(ctx context.Context, prompt string) (*Image, error) {
	if c.apiKey == "" {
		return nil, &ImageSynthesisError{Kind: KindUnconfigured, Message: "image API key is not set"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ImageSynthesisError{Kind: KindTransport, Message: "rate limiter", Err: err}
	}

	started := time.Now()
	var out predictResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(predictRequest{
			Instances:  []predictInstance{{Prompt: prompt}},
			Parameters: predictParameters{SampleCount: 1, AspectRatio: PosterAspectRatio},
		}).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:predict", c.model))
	if err != nil {
		return nil, &ImageSynthesisError{Kind: KindTransport, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &ImageSynthesisError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode(),
			Message:    truncate(resp.String(), maxErrorBodyLength),
		}
	}

	for _, p := range out.Predictions {
		if p.BytesBase64Encoded == "" {
			continue
		}
		data, err := decodeBase64(p.BytesBase64Encoded)
		if err != nil {
			return nil, &ImageSynthesisError{Kind: KindDecode, Message: "base64 payload", Err: err}
		}
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &ImageSynthesisError{Kind: KindDecode, Message: "image payload", Err: err}
		}
		mime := p.MimeType
		if mime == "" {
			mime = http.DetectContentType(data)
		}
		if !strings.HasPrefix(mime, "image/") {
			mime = defaultMimeType
		}
		slog.InfoContext(ctx, "background image synthesized",
			"model", c.model,
			"width", img.Bounds().Dx(), "height", img.Bounds().Dy(),
			"duration", time.Since(started).Round(time.Millisecond))
		return &Image{Raster: img, Data: data, MimeType: mime}, nil
	}

	return nil, &ImageSynthesisError{Kind: KindEmpty, StatusCode: resp.StatusCode(), Message: "response contains no image"}
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if data, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return data, nil
	}
	return base64.URLEncoding.DecodeString(payload)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Synthesizer = (*ImagenClient)(nil)
