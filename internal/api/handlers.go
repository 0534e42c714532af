// Package api exposes the poster pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/youruser/healthposter/internal/layout"
	"github.com/youruser/healthposter/internal/pipeline"
	"github.com/youruser/healthposter/internal/synth"
)

const (
	defaultPreviewWidth  = 768
	defaultPreviewHeight = 1024
)

// Infographics renders posters. *pipeline.Generator satisfies it.
type Infographics interface {
	GenerateInfographic(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type Handler struct {
	gen Infographics
}

func NewHandler(gen Infographics) *Handler {
	return &Handler{gen: gen}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type infographicRequest struct {
	Topic      string `json:"topic" form:"topic"`
	Layout     string `json:"layout" form:"layout"`
	PointStyle string `json:"point_style" form:"style"`
	OrgName    string `json:"org_name" form:"org"`
	QRText     string `json:"qr_text" form:"qr"`
}

func (r infographicRequest) toPipeline() (pipeline.Request, error) {
	t, err := layout.ParseType(r.Layout)
	if err != nil {
		return pipeline.Request{}, err
	}
	style, err := layout.ParsePointStyle(r.PointStyle)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.Request{
		Topic:      r.Topic,
		Layout:     t,
		PointStyle: style,
		OrgName:    r.OrgName,
		QRText:     r.QRText,
	}, nil
}

// POST /api/infographic
func (h *Handler) infographic(c *gin.Context) {
	var body infographicRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, ok := h.render(c, body)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/infographic/image?topic=..&layout=..&style=..
func (h *Handler) infographicImage(c *gin.Context) {
	var q infographicRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, ok := h.render(c, q)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/png", res.PNG)
}

func (h *Handler) render(c *gin.Context, body infographicRequest) (*pipeline.Result, bool) {
	req, err := body.toPipeline()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	res, err := h.gen.GenerateInfographic(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		if !errors.Is(err, pipeline.ErrEmptyTopic) {
			slog.ErrorContext(c.Request.Context(), "infographic failed",
				"request_id", c.GetString(requestIDKey), "topic", req.Topic, "error", err)
		}
		return nil, false
	}
	return res, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrEmptyTopic):
		return http.StatusBadRequest
	case errors.Is(err, synth.ErrImageSynthesis):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type layoutRequest struct {
	Layout string   `json:"layout"`
	Points []string `json:"points"`
	Title  string   `json:"title"`
	Footer string   `json:"footer"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// POST /api/layout previews box geometry without calling any service.
func (h *Handler) layoutPreview(c *gin.Context) {
	var body layoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := layout.ParseType(body.Layout)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Width == 0 && body.Height == 0 {
		body.Width, body.Height = defaultPreviewWidth, defaultPreviewHeight
	}
	boxes := layout.Compute(t, body.Points, body.Title, body.Footer, body.Width, body.Height)
	c.JSON(http.StatusOK, gin.H{"layout": t, "width": body.Width, "height": body.Height, "boxes": boxes})
}
