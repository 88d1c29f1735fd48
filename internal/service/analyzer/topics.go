package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/prepground/mockview/backend/internal/model/interview"
)

// TopicsResult tags whether the analysis text decoded as JSON. An Unparsed
// result carries the documented fallback: an empty topic plan, which the
// orchestrator later replaces with a default topic count for pacing.
type TopicsResult struct {
	Parsed bool
	Topics []interview.Topic
}

var validPriorities = map[string]struct{}{"high": {}, "medium": {}, "low": {}}
var validCategories = map[string]struct{}{"technical": {}, "behavioral": {}, "project": {}, "general": {}}

// ParseTopics opportunistically re-parses the model's analysis output to
// recover the interview topic plan. The analysis text itself is returned to
// the client untouched either way.
func ParseTopics(analysis string) TopicsResult {
	var payload struct {
		InterviewTopics []interview.Topic `json:"interview_topics"`
	}

	if err := json.Unmarshal([]byte(stripCodeFence(analysis)), &payload); err != nil {
		return TopicsResult{Parsed: false}
	}

	topics := make([]interview.Topic, 0, len(payload.InterviewTopics))
	for _, t := range payload.InterviewTopics {
		if strings.TrimSpace(t.Name) == "" {
			continue
		}
		topics = append(topics, normalizeTopic(t))
	}

	return TopicsResult{Parsed: true, Topics: topics}
}

// normalizeTopic clamps stray priority/category strings to the known sets.
func normalizeTopic(t interview.Topic) interview.Topic {
	priority := strings.ToLower(strings.TrimSpace(t.Priority))
	if _, ok := validPriorities[priority]; !ok {
		priority = "medium"
	}

	category := strings.ToLower(strings.TrimSpace(t.Category))
	if _, ok := validCategories[category]; !ok {
		category = "general"
	}

	return interview.Topic{Name: strings.TrimSpace(t.Name), Priority: priority, Category: category}
}

// stripCodeFence tolerates models that wrap the JSON in a markdown fence
// despite instructions not to.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
