// Package pipeline runs one poster render end to end: research, prompt,
// background synthesis, layout and compositing.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	imagepkg "github.com/youruser/healthposter/internal/image"
	"github.com/youruser/healthposter/internal/layout"
	"github.com/youruser/healthposter/internal/prompt"
	"github.com/youruser/healthposter/internal/research"
	"github.com/youruser/healthposter/internal/synth"
	"github.com/youruser/healthposter/internal/util"
)

// ErrEmptyTopic rejects requests whose topic is blank.
var ErrEmptyTopic = errors.New("topic is required")

// Researcher is the research step. *research.Researcher satisfies it.
type Researcher interface {
	Research(ctx context.Context, topic, orgName string) research.Result
}

type Request struct {
	Topic      string
	Layout     layout.Type
	PointStyle layout.PointStyle
	OrgName    string
	// QRText, when set, is encoded as a badge in the footer strip.
	QRText string
}

// Result is JSON-serializable; both images are data URLs.
type Result struct {
	FinalImage      string           `json:"final_image"`
	BackgroundImage string           `json:"background_image"`
	Title           string           `json:"title"`
	Points          []string         `json:"points"`
	Summary         string           `json:"summary"`
	Sources         []string         `json:"sources"`
	PromptUsed      string           `json:"prompt_used"`
	Layout          []layout.TextBox `json:"layout"`
	Degraded        bool             `json:"degraded"`

	// PNG holds the encoded final image.
	PNG []byte `json:"-"`
}

type Options struct {
	// CanvasWidth and CanvasHeight crop-fit the background. Zero keeps the
	// synthesized size.
	CanvasWidth  int
	CanvasHeight int
	// FontFamily replaces the family of every box when set.
	FontFamily string
	QRSize     int
}

type Generator struct {
	researcher Researcher
	synth      synth.Synthesizer
	compositor *imagepkg.Compositor
	opts       Options
}

func NewGenerator(r Researcher, s synth.Synthesizer, c *imagepkg.Compositor, opts Options) (*Generator, error) {
	if r == nil || s == nil || c == nil {
		return nil, errors.New("pipeline: researcher, synthesizer and compositor are required")
	}
	return &Generator{researcher: r, synth: s, compositor: c, opts: opts}, nil
}

// GenerateInfographic renders one poster. Research failures degrade to
// placeholder content; an image synthesis failure aborts with the
// *synth.ImageSynthesisError and no result.
func (g *Generator) GenerateInfographic(ctx context.Context, req Request) (*Result, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	started := time.Now()

	facts := g.researcher.Research(ctx, topic, req.OrgName)
	if facts.Degraded {
		slog.WarnContext(ctx, "rendering with degraded research", "topic", topic)
	}

	promptUsed := prompt.Synthesize(topic, req.Layout, facts.Points)
	bg, err := g.synth.Synthesize(ctx, promptUsed)
	if err != nil {
		return nil, err
	}
	if bg == nil || bg.Raster == nil {
		return nil, &synth.ImageSynthesisError{Kind: synth.KindEmpty, Message: "synthesizer returned no image"}
	}

	canvas := imagepkg.FitCanvas(bg.Raster, g.opts.CanvasWidth, g.opts.CanvasHeight)
	w, h := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	footer := strings.TrimSpace(req.OrgName)

	plan := layout.Compute(req.Layout, facts.Points, facts.RecommendedTitle, footer, w, h)
	slog.DebugContext(ctx, "layout planned", "layout", req.Layout, "boxes", len(plan))

	points := layout.ApplyPointStyle(facts.Points, req.PointStyle)
	boxes := layout.Compute(req.Layout, points, facts.RecommendedTitle, footer, w, h)
	if g.opts.FontFamily != "" {
		for i := range boxes {
			boxes[i].FontFamily = g.opts.FontFamily
		}
	}

	final, err := g.compositor.Composite(canvas, boxes)
	if err != nil {
		return nil, fmt.Errorf("composite: %w", err)
	}
	if req.QRText != "" {
		final, err = imagepkg.StampQR(final, req.QRText, g.opts.QRSize)
		if err != nil {
			return nil, fmt.Errorf("stamp qr: %w", err)
		}
	}

	finalPNG, err := imagepkg.Encode(final, imaging.PNG)
	if err != nil {
		return nil, err
	}
	bgURL, err := backgroundURL(canvas, bg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "infographic generated",
		"topic", topic, "layout", req.Layout, "style", req.PointStyle,
		"width", w, "height", h, "degraded", facts.Degraded,
		"duration", time.Since(started).Round(time.Millisecond))

	return &Result{
		FinalImage:      util.DataURL("image/png", finalPNG),
		BackgroundImage: bgURL,
		Title:           facts.RecommendedTitle,
		Points:          points,
		Summary:         facts.Summary,
		Sources:         facts.Sources,
		PromptUsed:      promptUsed,
		Layout:          boxes,
		Degraded:        facts.Degraded,
		PNG:             finalPNG,
	}, nil
}

// backgroundURL reuses the synthesized bytes when the canvas was not
// resized.
func backgroundURL(canvas image.Image, bg *synth.Image) (string, error) {
	if len(bg.Data) > 0 && bg.Raster != nil && canvas.Bounds().Size() == bg.Raster.Bounds().Size() {
		return util.DataURL(bg.MimeType, bg.Data), nil
	}
	data, err := imagepkg.Encode(canvas, imaging.PNG)
	if err != nil {
		return "", err
	}
	return util.DataURL("image/png", data), nil
}
