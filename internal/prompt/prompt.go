// Package prompt builds the instruction sent to the image-generation
// service. Everything here is pure string assembly.
package prompt

import (
	"fmt"
	"strings"

	"github.com/youruser/healthposter/internal/layout"
)

const preamble = `You are a medical illustrator producing the background artwork for a public health poster.
Visual style:
- Flat design illustration, clean vector shapes, soft gradients only.
- Medical color palette: calm blues, teals, greens and white, with one warm accent.
- Portrait poster composition.
- Keep the top 20% of the image as calm, uncluttered header space.
- Keep the bottom 25% of the image as calm, uncluttered footer space.
- Leave soft, low-detail areas where text panels will be placed later.
- The image must contain NO text: no letters, words, numbers, captions, labels, signs or logos.`

// NegativeHints lists what the artwork must avoid.
const NegativeHints = "Avoid: any written text, typography, watermarks, logos, realistic gore, needles close-up, frightening imagery, cluttered backgrounds."

// compositionHint describes where the text panels will sit for each layout.
func compositionHint(t layout.Type) string {
	switch t {
	case layout.Grid:
		return "Composition: four balanced quadrants around a light central area, so a 2-column grid of panels can sit on top."
	case layout.Central:
		return "Composition: one strong focal illustration in the middle, with supporting small motifs arranged in a ring around it."
	default:
		return "Composition: a gentle vertical flow from top to bottom, like a path or timeline, with quiet bands for stacked panels."
	}
}

// Synthesize returns the image-generation instruction for a topic, layout
// and its three points. Points are embedded verbatim and may be blank.
func Synthesize(topic string, t layout.Type, points []string) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n\n")
	sb.WriteString(compositionHint(t))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Health topic: %s\n", strings.TrimSpace(topic)))
	sb.WriteString("Illustrate the ideas behind these key messages (do not write them in the image):\n")
	for i, p := range points {
		sb.WriteString(fmt.Sprintf("%d) %s\n", i+1, p))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Depict everyday people and objects that make the topic \"%s\" easy to understand at a glance for a general community audience.\n", strings.TrimSpace(topic)))
	sb.WriteString(NegativeHints)
	return sb.String()
}
