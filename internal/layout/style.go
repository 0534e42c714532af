package layout

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PointStyle is the cosmetic marker written in front of every point.
type PointStyle string

const (
	Numbered PointStyle = "numbered"
	Bulleted PointStyle = "bulleted"
	Iconic   PointStyle = "iconic"
)

var ErrUnknownPointStyle = errors.New("unknown point style")

// Leading markers a model or a previous styling pass may have left behind.
// ASCII-ish bullets need a following space so "-10%" or "*Always*" survive.
var markerRe = regexp.MustCompile(`^\s*(?:[0-9٠-٩]+[.)\-:]\s+|[*–-]\s+|[•✓✔]\s*)`)

// ParsePointStyle maps a request tag onto a PointStyle. An empty tag means
// Numbered.
func ParsePointStyle(s string) (PointStyle, error) {
	switch PointStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", Numbered:
		return Numbered, nil
	case Bulleted:
		return Bulleted, nil
	case Iconic:
		return Iconic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPointStyle, s)
}

// Marker returns the prefix for the point at index i.
func (s PointStyle) Marker(i int) string {
	switch s {
	case Bulleted:
		return "• "
	case Iconic:
		return "✓ "
	default:
		return strconv.Itoa(i+1) + ". "
	}
}

// ApplyPointStyle returns a new slice where every point carries exactly one
// marker of the given style. The input slice is left untouched.
func ApplyPointStyle(points []string, style PointStyle) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = style.Marker(i) + StripMarker(p)
	}
	return out
}

// StripMarker removes a leading ordinal, bullet or check mark.
func StripMarker(p string) string {
	return strings.TrimSpace(markerRe.ReplaceAllString(p, ""))
}
