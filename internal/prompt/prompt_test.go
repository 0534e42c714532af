package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youruser/healthposter/internal/layout"
)

func TestSynthesize_EmbedsPointsVerbatim(t *testing.T) {
	points := []string{"اغسل يديك 20 ثانية", "استخدم الصابون", "جفف يديك جيداً"}
	got := Synthesize("غسل اليدين", layout.Grid, points)

	for _, p := range points {
		assert.Contains(t, got, p)
	}
	assert.Contains(t, got, "غسل اليدين")
	assert.Contains(t, got, "20%")
	assert.Contains(t, got, "25%")
	assert.Contains(t, got, "NO text")
	assert.Contains(t, got, "2-column grid")
}

func TestSynthesize_Deterministic(t *testing.T) {
	points := []string{"a", "b", "c"}
	assert.Equal(t, Synthesize("flu", layout.Central, points), Synthesize("flu", layout.Central, points))
}

func TestSynthesize_LayoutHints(t *testing.T) {
	points := []string{"a", "b", "c"}
	timeline := Synthesize("flu", layout.Timeline, points)
	central := Synthesize("flu", layout.Central, points)
	assert.NotEqual(t, timeline, central)
	assert.Contains(t, timeline, "timeline")
	assert.Contains(t, central, "focal illustration")
}

func TestSynthesize_BlankPoints(t *testing.T) {
	got := Synthesize("", layout.Timeline, []string{"", "", ""})
	assert.True(t, strings.HasPrefix(got, preamble))
	assert.Contains(t, got, "3) \n")
}
