package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youruser/healthposter/internal/bootstrap"
	"github.com/youruser/healthposter/internal/config"
	"github.com/youruser/healthposter/internal/layout"
	"github.com/youruser/healthposter/internal/pipeline"
	"github.com/youruser/healthposter/internal/synth"
	"github.com/youruser/healthposter/internal/util"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "infographic",
		Short:         "Health awareness poster generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")

	root.AddCommand(newRenderCmd(&configPath))
	root.AddCommand(newLayoutCmd())
	return root
}

type renderOptions struct {
	topic    string
	layout   string
	style    string
	org      string
	qr       string
	out      string
	jsonPath string
	bg       string
}

func newRenderCmd(configPath *string) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a poster and write it to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), *configPath, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.topic, "topic", "t", "", "health topic")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", string(layout.Timeline), "timeline, grid or central")
	cmd.Flags().StringVarP(&opts.style, "style", "s", string(layout.Numbered), "numbered, bulleted or iconic")
	cmd.Flags().StringVar(&opts.org, "org", "", "organization name shown in the footer")
	cmd.Flags().StringVar(&opts.qr, "qr", "", "text or URL encoded as a QR badge")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "output/poster.png", "PNG output path")
	cmd.Flags().StringVar(&opts.jsonPath, "json", "", "also write the result metadata as JSON")
	cmd.Flags().StringVar(&opts.bg, "background", "", "render over this image file or URL instead of calling the image service")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func runRender(ctx context.Context, configPath string, opts renderOptions) error {
	t, err := layout.ParseType(opts.layout)
	if err != nil {
		return err
	}
	style, err := layout.ParsePointStyle(opts.style)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	var bopts []bootstrap.Option
	if opts.bg != "" {
		s, err := loadBackground(ctx, opts.bg)
		if err != nil {
			return err
		}
		bopts = append(bopts, bootstrap.WithSynthesizer(s))
	}
	app, err := bootstrap.New(ctx, cfg, bopts...)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Generator.GenerateInfographic(ctx, pipeline.Request{
		Topic:      opts.topic,
		Layout:     t,
		PointStyle: style,
		OrgName:    opts.org,
		QRText:     opts.qr,
	})
	if err != nil {
		return err
	}
	if err := util.WriteFile(opts.out, res.PNG); err != nil {
		return fmt.Errorf("write poster: %w", err)
	}
	if opts.jsonPath != "" {
		meta, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := util.WriteFile(opts.jsonPath, meta); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
	}
	slog.Info("poster written", "path", opts.out, "title", res.Title, "degraded", res.Degraded)
	return nil
}

func loadBackground(ctx context.Context, src string) (*synth.StaticSynthesizer, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		data, err = util.GetBytes(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("load background: %w", err)
	}
	return synth.NewStaticSynthesizer(data)
}

func newLayoutCmd() *cobra.Command {
	var (
		kind          string
		points        []string
		title, footer string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the computed text boxes as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := layout.ParseType(kind)
			if err != nil {
				return err
			}
			for i := range points {
				points[i] = strings.TrimSpace(points[i])
			}
			boxes := layout.Compute(t, points, title, footer, width, height)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(boxes)
		},
	}
	cmd.Flags().StringVarP(&kind, "layout", "l", string(layout.Timeline), "timeline, grid or central")
	cmd.Flags().StringArrayVarP(&points, "points", "p", nil, "point text, repeatable")
	cmd.Flags().StringVar(&title, "title", "", "title text")
	cmd.Flags().StringVar(&footer, "footer", "", "footer text")
	cmd.Flags().IntVar(&width, "width", config.DefaultCanvasWidth, "canvas width")
	cmd.Flags().IntVar(&height, "height", config.DefaultCanvasHeight, "canvas height")
	return cmd
}
