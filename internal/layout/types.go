package layout

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Type selects one of the three geometric arrangements.
type Type string

const (
	Timeline Type = "timeline"
	Grid     Type = "grid"
	Central  Type = "central"
)

var ErrUnknownType = errors.New("unknown layout type")

// ParseType maps a request tag onto a Type. Matching ignores case and
// surrounding spaces; an empty tag means Timeline.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case "", Timeline:
		return Timeline, nil
	case Grid:
		return Grid, nil
	case Central:
		return Central, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Align is the horizontal placement of each wrapped line inside a box.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextBox is one positioned, styled rectangle of text. Boxes are produced
// by Compute and handed straight to the compositor.
type TextBox struct {
	Text            string      `json:"text"`
	X               float64     `json:"x"`
	Y               float64     `json:"y"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	FontSizePx      float64     `json:"font_size_px"`
	FontFamily      string      `json:"font_family"`
	TextColor       color.NRGBA `json:"text_color"`
	BackgroundColor color.NRGBA `json:"background_color"`
	CornerRadiusPx  float64     `json:"corner_radius_px"`
	PaddingPx       float64     `json:"padding_px"`
	Align           Align       `json:"align"`
}

// Font families understood by the compositor's font book.
const (
	FamilyRegular = "sans"
	FamilyBold    = "sans-bold"
)
