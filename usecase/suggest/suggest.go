// Package suggest orchestrates AI-assisted suggestions for tasks: it
// assembles context from the task graph and analytics, prompts the generative
// model, validates the typed reply, and appends the result to the task's
// suggestion history.
//
// Failure handling is deliberately asymmetric. When the model replies but the
// assignee it picked fails validation, the orchestrator repairs the result
// deterministically and the repaired suggestion IS persisted. When the
// external call itself fails, a canned per-kind fallback is returned to the
// caller WITHOUT touching the task's history.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
	"github.com/ayush17112005/TaskWiseAI/usecase/analytics"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
)

const (
	fallbackConfidence = 0.3
	fallbackDays       = 3
)

// Generator produces a JSON-shaped model reply for a prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) ([]byte, error)
}

// PerformanceSource supplies per-member history and workload for the
// assignee and deadline context. Implemented by the analytics usecase.
type PerformanceSource interface {
	PerformanceForMember(ctx context.Context, teamID, userID string) (*analytics.MemberPerformance, error)
	ActiveAssignedCount(ctx context.Context, teamID, userID string) (int, error)
}

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	gate     *authz.Gate
	perf     PerformanceSource
	model    Generator
	logger   *zap.Logger
	now      func() time.Time
}

func New(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, gate *authz.Gate, perf PerformanceSource, model Generator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		users:    users,
		gate:     gate,
		perf:     perf,
		model:    model,
		logger:   logger,
		now:      time.Now,
	}
}

// Result is what a suggestion request returns to the caller. Persisted
// reports whether the suggestion was appended to the task's history;
// Fallback marks results produced without a usable model reply.
type Result struct {
	Kind       domain.SuggestionKind `json:"kind"`
	Payload    any                   `json:"payload"`
	Reasoning  string                `json:"reasoning"`
	Confidence float64               `json:"confidence"`
	IsNewTeam  bool                  `json:"is_new_team,omitempty"`
	Fallback   bool                  `json:"fallback"`
	Persisted  bool                  `json:"persisted"`
}

// AssigneePayload is the typed payload for assignee suggestions.
type AssigneePayload struct {
	SuggestedUserID string `json:"suggested_user_id"`
}

// DeadlinePayload is the typed payload for deadline suggestions.
type DeadlinePayload struct {
	SuggestedDays     int       `json:"suggested_days"`
	SuggestedDeadline time.Time `json:"suggested_deadline"`
}

// PriorityPayload is the typed payload for priority suggestions.
type PriorityPayload struct {
	SuggestedPriority domain.Priority `json:"suggested_priority"`
}

// Subtask is one entry of a breakdown suggestion.
type Subtask struct {
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
}

// BreakdownPayload is the typed payload for breakdown suggestions.
type BreakdownPayload struct {
	Subtasks []Subtask `json:"subtasks"`
}

// Suggest runs one synchronous suggestion request for the task.
func (uc *UseCase) Suggest(ctx context.Context, userID, taskID string, kind domain.SuggestionKind) (*Result, error) {
	if !kind.IsValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown suggestion kind")
	}

	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := uc.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	team, _, err := uc.gate.Require(ctx, userID, project.TeamID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.SuggestionAssignee:
		return uc.suggestAssignee(ctx, task, project, team)
	case domain.SuggestionDeadline:
		return uc.suggestDeadline(ctx, task, project, team)
	case domain.SuggestionPriority:
		return uc.suggestPriority(ctx, task, project)
	default:
		return uc.suggestBreakdown(ctx, task, project)
	}
}

func (uc *UseCase) suggestAssignee(ctx context.Context, task *domain.Task, project *domain.Project, team *domain.Team) (*Result, error) {
	members, isNewTeam, err := uc.memberContexts(ctx, team)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "the team has no members to assign")
	}

	prompt := buildAssigneePrompt(task, project, members, isNewTeam)
	raw, err := uc.model.GenerateJSON(ctx, prompt)
	if err != nil {
		if recoverable(err) {
			// call failed outright: canned fallback, not persisted
			fallback := lowestWorkload(members)
			uc.logger.Warn("assignee suggestion fell back to workload heuristic", zap.Error(err))
			return &Result{
				Kind:       domain.SuggestionAssignee,
				Payload:    AssigneePayload{SuggestedUserID: fallback.UserID},
				Reasoning:  fmt.Sprintf("AI service unavailable. Suggested %s as the member with the lowest current workload (%d active tasks).", fallback.Name, fallback.ActiveTasks),
				Confidence: fallbackConfidence,
				IsNewTeam:  isNewTeam,
				Fallback:   true,
			}, nil
		}
		return nil, err
	}

	reply, err := parseAssigneeReply(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Kind:       domain.SuggestionAssignee,
		Payload:    AssigneePayload{SuggestedUserID: reply.SuggestedUserID},
		Reasoning:  reply.Reasoning,
		Confidence: reply.Confidence,
		IsNewTeam:  isNewTeam,
	}
	if !team.HasMember(reply.SuggestedUserID) {
		// model picked someone outside the team: repair deterministically
		// and persist the repaired suggestion
		fallback := lowestWorkload(members)
		result.Payload = AssigneePayload{SuggestedUserID: fallback.UserID}
		result.Reasoning = fmt.Sprintf("The model suggested a user outside the team. Reassigned to %s, the member with the lowest current workload (%d active tasks).", fallback.Name, fallback.ActiveTasks)
		result.Confidence = fallbackConfidence
		result.Fallback = true
	}

	if err := uc.persist(ctx, task.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) suggestDeadline(ctx context.Context, task *domain.Task, project *domain.Project, team *domain.Team) (*Result, error) {
	members, isNewTeam, err := uc.memberContexts(ctx, team)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	prompt := buildDeadlinePrompt(task, project, members, isNewTeam, now)
	raw, err := uc.model.GenerateJSON(ctx, prompt)
	if err != nil {
		if recoverable(err) {
			uc.logger.Warn("deadline suggestion fell back to default window", zap.Error(err))
			return &Result{
				Kind: domain.SuggestionDeadline,
				Payload: DeadlinePayload{
					SuggestedDays:     fallbackDays,
					SuggestedDeadline: now.AddDate(0, 0, fallbackDays),
				},
				Reasoning:  "AI service unavailable. Suggested a default three-day window.",
				Confidence: fallbackConfidence,
				IsNewTeam:  isNewTeam,
				Fallback:   true,
			}, nil
		}
		return nil, err
	}

	reply, err := parseDeadlineReply(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Kind: domain.SuggestionDeadline,
		Payload: DeadlinePayload{
			SuggestedDays:     reply.SuggestedDays,
			SuggestedDeadline: now.AddDate(0, 0, reply.SuggestedDays),
		},
		Reasoning:  reply.Reasoning,
		Confidence: reply.Confidence,
		IsNewTeam:  isNewTeam,
	}
	if err := uc.persist(ctx, task.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) suggestPriority(ctx context.Context, task *domain.Task, project *domain.Project) (*Result, error) {
	prompt := buildPriorityPrompt(task, project)
	raw, err := uc.model.GenerateJSON(ctx, prompt)
	if err != nil {
		if recoverable(err) {
			uc.logger.Warn("priority suggestion fell back to medium", zap.Error(err))
			return &Result{
				Kind:       domain.SuggestionPriority,
				Payload:    PriorityPayload{SuggestedPriority: domain.PriorityMedium},
				Reasoning:  "AI service unavailable. Suggested the default medium priority.",
				Confidence: fallbackConfidence,
				Fallback:   true,
			}, nil
		}
		return nil, err
	}

	reply, err := parsePriorityReply(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Kind:       domain.SuggestionPriority,
		Payload:    PriorityPayload{SuggestedPriority: domain.Priority(reply.SuggestedPriority)},
		Reasoning:  reply.Reasoning,
		Confidence: reply.Confidence,
	}
	if err := uc.persist(ctx, task.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) suggestBreakdown(ctx context.Context, task *domain.Task, project *domain.Project) (*Result, error) {
	prompt := buildBreakdownPrompt(task, project)
	raw, err := uc.model.GenerateJSON(ctx, prompt)
	if err != nil {
		if recoverable(err) {
			uc.logger.Warn("breakdown suggestion fell back to empty list", zap.Error(err))
			return &Result{
				Kind:       domain.SuggestionBreakdown,
				Payload:    BreakdownPayload{Subtasks: []Subtask{}},
				Reasoning:  "AI service unavailable. No breakdown could be generated.",
				Confidence: 0,
				Fallback:   true,
			}, nil
		}
		return nil, err
	}

	reply, err := parseBreakdownReply(raw)
	if err != nil {
		return nil, err
	}

	subtasks := make([]Subtask, 0, len(reply.Subtasks))
	for _, st := range reply.Subtasks {
		subtasks = append(subtasks, Subtask{
			Title:          st.Title,
			Description:    st.Description,
			EstimatedHours: st.EstimatedHours,
		})
	}
	result := &Result{
		Kind:       domain.SuggestionBreakdown,
		Payload:    BreakdownPayload{Subtasks: subtasks},
		Reasoning:  reply.Reasoning,
		Confidence: reply.Confidence,
	}
	if err := uc.persist(ctx, task.ID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// memberContexts assembles per-member history and workload. isNewTeam is true
// when no member has ever completed a task.
func (uc *UseCase) memberContexts(ctx context.Context, team *domain.Team) ([]memberContext, bool, error) {
	members := make([]memberContext, 0, len(team.Members))
	isNewTeam := true
	for _, m := range team.Members {
		entry := memberContext{UserID: m.UserID}
		if user, err := uc.users.GetByID(ctx, m.UserID); err == nil {
			entry.Name = user.Name
		}

		perf, err := uc.perf.PerformanceForMember(ctx, team.ID, m.UserID)
		if err != nil {
			return nil, false, err
		}
		entry.CompletedTasks = perf.TasksCompleted
		entry.AvgCompletionDays = perf.AvgCompletionDays
		entry.Accuracy = perf.EstimationAccuracy
		for _, tc := range perf.CommonTags {
			entry.TopTags = append(entry.TopTags, tc.Tag)
		}
		if perf.TasksCompleted > 0 {
			isNewTeam = false
		}

		active, err := uc.perf.ActiveAssignedCount(ctx, team.ID, m.UserID)
		if err != nil {
			return nil, false, err
		}
		entry.ActiveTasks = active

		members = append(members, entry)
	}
	return members, isNewTeam, nil
}

func (uc *UseCase) persist(ctx context.Context, taskID string, result *Result) error {
	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to encode suggestion payload", err)
	}
	suggestion := domain.Suggestion{
		ID:         uuid.NewString(),
		Kind:       result.Kind,
		Payload:    payload,
		Reasoning:  result.Reasoning,
		Confidence: result.Confidence,
		CreatedAt:  uc.now(),
	}
	if err := uc.tasks.AppendSuggestion(ctx, taskID, suggestion); err != nil {
		return err
	}
	result.Persisted = true
	return nil
}

// recoverable reports whether the model error is an external-call failure,
// the only kind substituted with a canned fallback. Malformed payloads are
// terminal.
func recoverable(err error) bool {
	return domain.IsDomainError(err, domain.ErrCodeExternal)
}

func lowestWorkload(members []memberContext) memberContext {
	best := members[0]
	for _, m := range members[1:] {
		if m.ActiveTasks < best.ActiveTasks {
			best = m
		}
	}
	return best
}
