package imagepkg

import "strings"

// Measurer reports the rendered width of a line in pixels. *Face measures
// shaped advances, so joined Arabic and kerned Latin wrap where they draw.
type Measurer interface {
	Measure(s string) float64
}

// WrapText breaks text into lines no wider than maxWidth using greedy word
// fill. A single word wider than maxWidth keeps a line of its own. Explicit
// newlines always break.
func WrapText(m Measurer, text string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if m.Measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}
