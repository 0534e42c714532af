package research

import (
	"fmt"
	"strings"
)

// BuildPrompt is the fixed-structure request for the summarization service.
func BuildPrompt(topic, orgName string) string {
	var sb strings.Builder
	sb.WriteString("You are a public health educator writing content for a community awareness poster.\n")
	sb.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	if orgName != "" {
		sb.WriteString(fmt.Sprintf("Publishing organization: %s\n", orgName))
	}
	sb.WriteString(`Requirements:
- microLearningPoints: exactly 3 short, actionable facts, each under 15 words.
- summary: one sentence describing the poster.
- sources: recognized health authorities that support the facts.
- recommendedTitle: a poster title under 8 words.
- Write every value in the same language as the topic.

Reply with ONLY this JSON object, no markdown:
{
  "microLearningPoints": ["...", "...", "..."],
  "summary": "...",
  "sources": ["..."],
  "recommendedTitle": "..."
}`)
	return sb.String()
}
