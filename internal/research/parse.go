package research

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/youruser/healthposter/internal/layout"
)

// maxLineRunes bounds the lines salvaged from a non-JSON reply.
const maxLineRunes = 100

// ParseError reports why a model reply could not be read as a research
// result.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "research: parse response: " + e.Reason
}

// reply is the JSON shape the summarization service is asked for.
type reply struct {
	MicroLearningPoints []string `json:"microLearningPoints"`
	Summary             string   `json:"summary"`
	Sources             []string `json:"sources"`
	RecommendedTitle    string   `json:"recommendedTitle"`
}

var requiredKeys = []string{"microLearningPoints", "summary", "sources", "recommendedTitle"}

// ParseResponse extracts the first balanced JSON object from raw and
// validates it. Field values are returned as sent, without normalization.
func ParseResponse(raw string) (Result, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return Result{}, &ParseError{Reason: "no JSON object found", Raw: raw}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return Result{}, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: raw}
	}
	for _, k := range requiredKeys {
		if _, ok := fields[k]; !ok {
			return Result{}, &ParseError{Reason: "missing field " + k, Raw: raw}
		}
	}

	var r reply
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return Result{}, &ParseError{Reason: fmt.Sprintf("wrong field shape: %v", err), Raw: raw}
	}

	usable := 0
	for _, p := range r.MicroLearningPoints {
		if strings.TrimSpace(p) != "" {
			usable++
		}
	}
	if usable == 0 {
		return Result{}, &ParseError{Reason: "microLearningPoints has no usable entries", Raw: raw}
	}

	return Result{
		Points:           r.MicroLearningPoints,
		Summary:          r.Summary,
		Sources:          r.Sources,
		RecommendedTitle: r.RecommendedTitle,
	}, nil
}

// extractObject returns the first balanced {...} substring. Braces inside
// JSON strings are ignored.
func extractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}

// ExtractLines salvages up to limit short lines from free text. Markdown
// fences, headings, JSON fragments and list markers are dropped.
func ExtractLines(raw string, limit int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if len(out) >= limit {
			break
		}
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "```") || strings.ContainsAny(s[:1], "{}[]") || strings.Contains(s, `":`) {
			continue
		}
		s = strings.TrimLeft(s, "# ")
		s = layout.StripMarker(s)
		s = strings.TrimRight(s, ",")
		s = strings.Trim(s, `"' `)
		if s == "" || utf8.RuneCountInString(s) >= maxLineRunes {
			continue
		}
		out = append(out, s)
	}
	return out
}
