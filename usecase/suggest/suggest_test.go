package suggest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository/memory"
	"github.com/ayush17112005/TaskWiseAI/usecase/analytics"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
)

// fakeModel returns a canned reply or error and records the prompts it saw.
type fakeModel struct {
	reply   []byte
	err     error
	prompts []string
}

func (m *fakeModel) GenerateJSON(_ context.Context, prompt string) ([]byte, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

type fixture struct {
	store *memory.Store
	model *fakeModel
	uc    *UseCase
	task  *domain.Task
}

// newFixture seeds a team of alice (owner) and bob (contributor), one project
// and one unassigned task. No member has completed anything, so the team
// counts as new.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	for _, id := range []string{"alice", "bob"} {
		_, err := store.Users().Create(ctx, &domain.User{
			ID: id, Name: id, Email: id + "@example.com",
			Role: domain.UserRoleMember, IsActive: true,
		})
		require.NoError(t, err)
	}
	_, err := store.Teams().Create(ctx, &domain.Team{
		ID: "team-1", Name: "Platform", CreatedBy: "alice",
		Members: []domain.TeamMember{
			{UserID: "alice", Role: domain.TeamRoleOwner},
			{UserID: "bob", Role: domain.TeamRoleContributor},
		},
		IsActive: true,
	})
	require.NoError(t, err)
	_, err = store.Projects().Create(ctx, &domain.Project{
		ID: "proj-1", Name: "API", TeamID: "team-1", CreatedBy: "alice",
		Status: domain.ProjectStatusActive, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	task, err := store.Tasks().Create(ctx, &domain.Task{
		ID: "task-1", Title: "Build the ingest pipeline", ProjectID: "proj-1",
		CreatedBy: "alice", Status: domain.TaskStatusTodo, Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)

	gate := authz.NewGate(store.Teams())
	perf := analytics.New(store.Tasks(), store.Projects(), store.Teams(), store.Users(), gate, nil)
	model := &fakeModel{}
	return &fixture{
		store: store,
		model: model,
		uc:    New(store.Tasks(), store.Projects(), store.Users(), gate, perf, model, nil),
		task:  task,
	}
}

func (f *fixture) suggestions(t *testing.T) []domain.Suggestion {
	t.Helper()
	task, err := f.store.Tasks().GetByID(context.Background(), f.task.ID)
	require.NoError(t, err)
	return task.Suggestions
}

func TestDeadlineQuotaFailureFallsBackWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	f.model.err = domain.ErrAIQuota

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionDeadline)
	require.NoError(t, err)

	payload, ok := result.Payload.(DeadlinePayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.SuggestedDays)
	assert.InDelta(t, 0.3, result.Confidence, 0.001)
	assert.True(t, result.Fallback)
	assert.False(t, result.Persisted)
	assert.Empty(t, f.suggestions(t), "call failures leave the history untouched")
}

func TestAssigneeOutOfTeamIsRepairedAndPersisted(t *testing.T) {
	f := newFixture(t)
	f.model.reply = []byte(`{"suggestedUserId":"stranger","reasoning":"seems good","confidence":0.9}`)

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionAssignee)
	require.NoError(t, err)

	payload, ok := result.Payload.(AssigneePayload)
	require.True(t, ok)
	assert.Contains(t, []string{"alice", "bob"}, payload.SuggestedUserID)
	assert.InDelta(t, 0.3, result.Confidence, 0.001)
	assert.Contains(t, result.Reasoning, "outside the team")
	assert.True(t, result.Fallback)
	assert.True(t, result.Persisted)
	assert.Len(t, f.suggestions(t), 1, "repaired suggestions are appended")
}

func TestAssigneeValidReplyPersistedWithNewTeamPrompt(t *testing.T) {
	f := newFixture(t)
	f.model.reply = []byte(`{"suggestedUserId":"bob","reasoning":"even split","confidence":0.8}`)

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionAssignee)
	require.NoError(t, err)

	assert.Equal(t, AssigneePayload{SuggestedUserID: "bob"}, result.Payload)
	assert.InDelta(t, 0.8, result.Confidence, 0.001)
	assert.True(t, result.IsNewTeam, "no member has completed a task yet")
	assert.False(t, result.Fallback)
	assert.True(t, result.Persisted)

	stored := f.suggestions(t)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.SuggestionAssignee, stored[0].Kind)
	assert.NotEmpty(t, stored[0].ID)
	assert.False(t, stored[0].CreatedAt.IsZero())
}

func TestInvalidReplyIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.model.reply = []byte(`{"reasoning":"no id","confidence":0.9}`)

	_, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionAssignee)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeAIResponse))
	assert.Empty(t, f.suggestions(t), "invalid replies are never persisted")
}

func TestPriorityFallsBackToMedium(t *testing.T) {
	f := newFixture(t)
	f.model.err = domain.ErrAIUnavailable

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionPriority)
	require.NoError(t, err)

	payload, ok := result.Payload.(PriorityPayload)
	require.True(t, ok)
	assert.Equal(t, domain.PriorityMedium, payload.SuggestedPriority)
	assert.InDelta(t, 0.3, result.Confidence, 0.001)
	assert.False(t, result.Persisted)
	assert.Empty(t, f.suggestions(t))
}

func TestBreakdownFallsBackEmpty(t *testing.T) {
	f := newFixture(t)
	f.model.err = domain.ErrAIKeyInvalid

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionBreakdown)
	require.NoError(t, err)

	payload, ok := result.Payload.(BreakdownPayload)
	require.True(t, ok)
	assert.Empty(t, payload.Subtasks)
	assert.Zero(t, result.Confidence)
	assert.False(t, result.Persisted)
	assert.Empty(t, f.suggestions(t))
}

func TestBreakdownReplyPersisted(t *testing.T) {
	f := newFixture(t)
	f.model.reply = []byte(`{"subtasks":[{"title":"Design schema","estimatedHours":4},{"title":"Wire handlers"}],"reasoning":"two phases","confidence":0.7}`)

	result, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionBreakdown)
	require.NoError(t, err)

	payload, ok := result.Payload.(BreakdownPayload)
	require.True(t, ok)
	require.Len(t, payload.Subtasks, 2)
	assert.Equal(t, "Design schema", payload.Subtasks[0].Title)
	assert.True(t, result.Persisted)
	assert.Len(t, f.suggestions(t), 1)
}

func TestSuggestRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Suggest(context.Background(), "alice", f.task.ID, domain.SuggestionKind("vibes"))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSuggestRequiresTeamMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Users().Create(ctx, &domain.User{
		ID: "dave", Name: "dave", Email: "dave@example.com",
		Role: domain.UserRoleMember, IsActive: true,
	})
	require.NoError(t, err)

	_, err = f.uc.Suggest(ctx, "dave", f.task.ID, domain.SuggestionPriority)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
	assert.Empty(t, f.model.prompts, "the model is never called for unauthorized users")
}

func TestDeadlinePromptCarriesWorkload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// give bob an active task so the prompt reflects a non-zero workload
	_, err := f.store.Tasks().Create(ctx, &domain.Task{
		Title: "Busy work", ProjectID: "proj-1", CreatedBy: "alice",
		AssignedTo: "bob", Status: domain.TaskStatusInProgress, Priority: domain.PriorityLow,
	})
	require.NoError(t, err)
	f.model.reply = []byte(`{"suggestedDays":5,"reasoning":"moderate scope","confidence":0.6}`)

	before := time.Now()
	result, err := f.uc.Suggest(ctx, "alice", f.task.ID, domain.SuggestionDeadline)
	require.NoError(t, err)

	payload, ok := result.Payload.(DeadlinePayload)
	require.True(t, ok)
	assert.Equal(t, 5, payload.SuggestedDays)
	assert.False(t, payload.SuggestedDeadline.Before(before.AddDate(0, 0, 4)))
	assert.True(t, result.Persisted)
	require.Len(t, f.model.prompts, 1)
	assert.Contains(t, f.model.prompts[0], f.task.Title)
}
