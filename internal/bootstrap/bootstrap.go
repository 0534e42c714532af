// Package bootstrap wires configured adapters into a poster generator.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/youruser/healthposter/internal/config"
	imagepkg "github.com/youruser/healthposter/internal/image"
	"github.com/youruser/healthposter/internal/pipeline"
	"github.com/youruser/healthposter/internal/research"
	"github.com/youruser/healthposter/internal/synth"
)

type Option func(*options)

type options struct {
	synth synth.Synthesizer
}

// WithSynthesizer replaces the configured image service.
func WithSynthesizer(s synth.Synthesizer) Option {
	return func(o *options) { o.synth = s }
}

type App struct {
	Generator  *pipeline.Generator
	Compositor *imagepkg.Compositor

	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	gen, err := research.NewGenerator(ctx, research.Settings{
		Provider:    cfg.Research.Provider,
		Model:       cfg.Research.Model,
		APIKey:      cfg.Research.APIKey(),
		BaseURL:     cfg.Research.BaseURL,
		StaticReply: cfg.Research.StaticReply,
	})
	if err != nil {
		return nil, fmt.Errorf("new text generator: %w", err)
	}
	app := &App{}
	if c, ok := gen.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}

	researcher, err := research.NewResearcher(gen,
		research.WithTimeout(cfg.Research.Timeout),
		research.WithCache(cfg.Research.CacheTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("new researcher: %w", err)
	}

	fonts, err := imagepkg.NewFontBook()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	family := ""
	if cfg.Render.FontPath != "" {
		if err := fonts.LoadFile(cfg.Render.FontFamily, cfg.Render.FontPath); err != nil {
			return nil, err
		}
		family = cfg.Render.FontFamily
		slog.InfoContext(ctx, "custom font loaded", "family", family, "path", cfg.Render.FontPath)
	}
	compositor, err := imagepkg.NewCompositor(fonts)
	if err != nil {
		return nil, err
	}

	images := o.synth
	if images == nil {
		images = synth.NewImagenClient(synth.Config{
			APIKey:   cfg.Image.APIKey,
			Model:    cfg.Image.Model,
			BaseURL:  cfg.Image.BaseURL,
			Timeout:  cfg.Image.Timeout,
			Interval: cfg.Image.Interval,
		})
		if cfg.Image.APIKey == "" {
			slog.WarnContext(ctx, "image API key is not set; every render will fail until it is configured")
		}
	}

	generator, err := pipeline.NewGenerator(researcher, images, compositor, pipeline.Options{
		CanvasWidth:  cfg.Render.Width,
		CanvasHeight: cfg.Render.Height,
		FontFamily:   family,
		QRSize:       cfg.Render.QRSize,
	})
	if err != nil {
		return nil, err
	}
	app.Generator = generator
	app.Compositor = compositor
	return app, nil
}

// Close releases upstream clients.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
