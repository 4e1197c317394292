package suggest

import (
	"encoding/json"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

// Per-kind model replies. Each variant is parsed strictly; a reply missing
// required fields or out of range surfaces as an invalid-response error
// instead of flowing through untyped.

type assigneeReply struct {
	SuggestedUserID string  `json:"suggestedUserId"`
	Reasoning       string  `json:"reasoning"`
	Confidence      float64 `json:"confidence"`
}

type deadlineReply struct {
	SuggestedDays int     `json:"suggestedDays"`
	Reasoning     string  `json:"reasoning"`
	Confidence    float64 `json:"confidence"`
}

type priorityReply struct {
	SuggestedPriority string  `json:"suggestedPriority"`
	Reasoning         string  `json:"reasoning"`
	Confidence        float64 `json:"confidence"`
}

type subtaskReply struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	EstimatedHours float64 `json:"estimatedHours"`
}

type breakdownReply struct {
	Subtasks   []subtaskReply `json:"subtasks"`
	Reasoning  string         `json:"reasoning"`
	Confidence float64        `json:"confidence"`
}

func parseAssigneeReply(payload []byte) (*assigneeReply, error) {
	var reply assigneeReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return nil, domain.ErrAIBadResponse
	}
	if reply.SuggestedUserID == "" || !validConfidence(reply.Confidence) {
		return nil, domain.ErrAIBadResponse
	}
	return &reply, nil
}

func parseDeadlineReply(payload []byte) (*deadlineReply, error) {
	var reply deadlineReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return nil, domain.ErrAIBadResponse
	}
	if reply.SuggestedDays <= 0 || !validConfidence(reply.Confidence) {
		return nil, domain.ErrAIBadResponse
	}
	return &reply, nil
}

func parsePriorityReply(payload []byte) (*priorityReply, error) {
	var reply priorityReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		return nil, domain.ErrAIBadResponse
	}
	if !domain.Priority(reply.SuggestedPriority).IsValid() || !validConfidence(reply.Confidence) {
		return nil, domain.ErrAIBadResponse
	}
	return &reply, nil
}

func parseBreakdownReply(payload []byte) (*breakdownReply, error) {
	var reply breakdownReply
	if err := json.Unmarshal(payload, &reply); err != nil {
		// the model sometimes returns the bare subtask array
		var subtasks []subtaskReply
		if err := json.Unmarshal(payload, &subtasks); err != nil {
			return nil, domain.ErrAIBadResponse
		}
		reply = breakdownReply{Subtasks: subtasks, Confidence: 0.5}
	}
	if !validConfidence(reply.Confidence) {
		return nil, domain.ErrAIBadResponse
	}
	for _, st := range reply.Subtasks {
		if st.Title == "" {
			return nil, domain.ErrAIBadResponse
		}
	}
	return &reply, nil
}

func validConfidence(c float64) bool {
	return c >= 0 && c <= 1
}
