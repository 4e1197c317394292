package domain

import (
	"encoding/json"
	"time"
)

// SuggestionKind tags the variant stored in a Suggestion payload.
type SuggestionKind string

const (
	SuggestionAssignee  SuggestionKind = "assignee"
	SuggestionDeadline  SuggestionKind = "deadline"
	SuggestionPriority  SuggestionKind = "priority"
	SuggestionBreakdown SuggestionKind = "breakdown"
)

func (k SuggestionKind) IsValid() bool {
	switch k {
	case SuggestionAssignee, SuggestionDeadline, SuggestionPriority, SuggestionBreakdown:
		return true
	}
	return false
}

// Suggestion is an AI recommendation appended to a task's history. Payload is
// kind-specific: a user id for assignee, an RFC 3339 date for deadline, a
// priority value, or a subtask array for breakdown.
type Suggestion struct {
	ID         string          `json:"id"`
	Kind       SuggestionKind  `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Reasoning  string          `json:"reasoning"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}
