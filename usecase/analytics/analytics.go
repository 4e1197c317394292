// Package analytics computes read-only rollups over the task graph. Every
// result is recomputed from current state on each call; nothing is cached or
// maintained incrementally.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/domain"
	"github.com/ayush17112005/TaskWiseAI/repository"
	"github.com/ayush17112005/TaskWiseAI/usecase/authz"
)

const performanceWindow = 50

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	teams    repository.TeamRepository
	users    repository.UserRepository
	gate     *authz.Gate
	logger   *zap.Logger
	now      func() time.Time
}

func New(tasks repository.TaskRepository, projects repository.ProjectRepository, teams repository.TeamRepository, users repository.UserRepository, gate *authz.Gate, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		teams:    teams,
		users:    users,
		gate:     gate,
		logger:   logger,
		now:      time.Now,
	}
}

// MemberWorkload is one row of the team workload report.
type MemberWorkload struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Total          int     `json:"total_tasks"`
	Completed      int     `json:"completed_tasks"`
	InProgress     int     `json:"in_progress_tasks"`
	Todo           int     `json:"todo_tasks"`
	Overdue        int     `json:"overdue_tasks"`
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	CompletionRate float64 `json:"completion_rate"`
}

// TeamWorkload groups every assigned task in the team's projects by assignee.
func (uc *UseCase) TeamWorkload(ctx context.Context, actorID, teamID string) ([]MemberWorkload, error) {
	team, _, err := uc.gate.Require(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.teamTasks(ctx, teamID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	byAssignee := make(map[string]*MemberWorkload)
	for i := range tasks {
		t := &tasks[i]
		if t.AssignedTo == "" {
			continue
		}
		row, ok := byAssignee[t.AssignedTo]
		if !ok {
			row = &MemberWorkload{UserID: t.AssignedTo}
			byAssignee[t.AssignedTo] = row
		}
		row.Total++
		row.EstimatedHours += t.EstimatedHours
		row.ActualHours += t.ActualHours
		switch t.Status {
		case domain.TaskStatusCompleted:
			row.Completed++
		case domain.TaskStatusInProgress:
			row.InProgress++
		case domain.TaskStatusTodo:
			row.Todo++
		}
		if t.IsOverdue(now) {
			row.Overdue++
		}
	}

	rows := make([]MemberWorkload, 0, len(byAssignee))
	for _, member := range team.Members {
		row, ok := byAssignee[member.UserID]
		if !ok {
			continue
		}
		if user, err := uc.users.GetByID(ctx, member.UserID); err == nil {
			row.Name = user.Name
			row.Email = user.Email
		}
		if row.Total > 0 {
			row.CompletionRate = float64(row.Completed) / float64(row.Total) * 100
		}
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows, nil
}

// AssigneeCount is one entry of the per-assignee task count facet.
type AssigneeCount struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Count  int    `json:"count"`
}

// OverallStats is the scalar facet shared by project and dashboard reports.
type OverallStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Overdue        int     `json:"overdue"`
	EstimatedHours float64 `json:"estimated_hours"`
	AvgEstimated   float64 `json:"avg_estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	AvgActual      float64 `json:"avg_actual_hours"`
}

// ProjectStats carries four parallel facets over a project's tasks.
type ProjectStats struct {
	ByStatus   map[domain.TaskStatus]int `json:"by_status"`
	ByPriority map[domain.Priority]int   `json:"by_priority"`
	Overall    OverallStats              `json:"overall"`
	ByAssignee []AssigneeCount           `json:"by_assignee"`
}

// ProjectStats facets the project's tasks by status, priority, assignee and
// an overall scalar block. Overdue is evaluated at query time.
func (uc *UseCase) ProjectStats(ctx context.Context, actorID, projectID string) (*ProjectStats, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.gate.Require(ctx, actorID, project.TeamID); err != nil {
		return nil, err
	}
	tasks, _, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.Priority]int),
	}
	counts := make(map[string]int)
	now := uc.now()
	for i := range tasks {
		t := &tasks[i]
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		stats.Overall.Total++
		stats.Overall.EstimatedHours += t.EstimatedHours
		stats.Overall.ActualHours += t.ActualHours
		if t.IsCompleted() {
			stats.Overall.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overall.Overdue++
		}
		if t.AssignedTo != "" {
			counts[t.AssignedTo]++
		}
	}
	if stats.Overall.Total > 0 {
		stats.Overall.AvgEstimated = stats.Overall.EstimatedHours / float64(stats.Overall.Total)
		stats.Overall.AvgActual = stats.Overall.ActualHours / float64(stats.Overall.Total)
	}

	stats.ByAssignee = make([]AssigneeCount, 0, len(counts))
	for userID, count := range counts {
		entry := AssigneeCount{UserID: userID, Count: count}
		if user, err := uc.users.GetByID(ctx, userID); err == nil {
			entry.Name = user.Name
		}
		stats.ByAssignee = append(stats.ByAssignee, entry)
	}
	sort.Slice(stats.ByAssignee, func(i, j int) bool {
		if stats.ByAssignee[i].Count != stats.ByAssignee[j].Count {
			return stats.ByAssignee[i].Count > stats.ByAssignee[j].Count
		}
		return stats.ByAssignee[i].UserID < stats.ByAssignee[j].UserID
	})
	return stats, nil
}

// Dashboard summarizes the caller's own assigned work across all teams.
type Dashboard struct {
	ByStatus       map[domain.TaskStatus]int `json:"by_status"`
	ByPriority     map[domain.Priority]int   `json:"by_priority"`
	Overall        OverallStats              `json:"overall"`
	Upcoming       []domain.Task             `json:"upcoming_tasks"`
	TasksCreated   int                       `json:"tasks_created"`
	ActiveProjects int                       `json:"active_projects"`
}

// UserDashboard facets the user's assigned tasks and reports the next five
// upcoming deadlines, the number of tasks the user created, and the count of
// currently-active projects across the user's teams.
func (uc *UseCase) UserDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	tasks, _, err := uc.tasks.List(ctx, repository.TaskFilter{AssigneeID: userID})
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		ByStatus:   make(map[domain.TaskStatus]int),
		ByPriority: make(map[domain.Priority]int),
		Upcoming:   []domain.Task{},
	}
	now := uc.now()
	for i := range tasks {
		t := &tasks[i]
		dash.ByStatus[t.Status]++
		dash.ByPriority[t.Priority]++
		dash.Overall.Total++
		dash.Overall.EstimatedHours += t.EstimatedHours
		dash.Overall.ActualHours += t.ActualHours
		if t.IsCompleted() {
			dash.Overall.Completed++
		}
		if t.IsOverdue(now) {
			dash.Overall.Overdue++
		}
		if !t.IsCompleted() && t.Deadline != nil && t.Deadline.After(now) {
			dash.Upcoming = append(dash.Upcoming, *t)
		}
	}
	if dash.Overall.Total > 0 {
		dash.Overall.AvgEstimated = dash.Overall.EstimatedHours / float64(dash.Overall.Total)
		dash.Overall.AvgActual = dash.Overall.ActualHours / float64(dash.Overall.Total)
	}
	sort.Slice(dash.Upcoming, func(i, j int) bool {
		return dash.Upcoming[i].Deadline.Before(*dash.Upcoming[j].Deadline)
	})
	if len(dash.Upcoming) > 5 {
		dash.Upcoming = dash.Upcoming[:5]
	}

	created, err := uc.tasks.CountByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	dash.TasksCreated = created

	teams, _, err := uc.teams.List(ctx, repository.TeamFilter{MemberID: userID})
	if err != nil {
		return nil, err
	}
	teamIDs := make([]string, 0, len(teams))
	for i := range teams {
		teamIDs = append(teamIDs, teams[i].ID)
	}
	if len(teamIDs) > 0 {
		active, err := uc.projects.CountActive(ctx, teamIDs)
		if err != nil {
			return nil, err
		}
		dash.ActiveProjects = active
	}
	return dash, nil
}

// TagCount pairs a tag with its frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// MemberPerformance summarizes a member's last completed tasks in one team.
// A member with no completed tasks gets the zero value, never an error.
type MemberPerformance struct {
	UserID             string          `json:"user_id"`
	TasksCompleted     int             `json:"tasks_completed"`
	AvgCompletionDays  float64         `json:"avg_completion_days"`
	EstimationAccuracy float64         `json:"estimation_accuracy"`
	CommonTags         []TagCount      `json:"common_tags"`
	TopPriority        domain.Priority `json:"top_priority,omitempty"`
}

// MemberPerformanceHistory is the gated surface over PerformanceForMember.
func (uc *UseCase) MemberPerformanceHistory(ctx context.Context, actorID, teamID, userID string) (*MemberPerformance, error) {
	team, _, err := uc.gate.Require(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) {
		return nil, domain.ErrMemberNotFound
	}
	return uc.PerformanceForMember(ctx, teamID, userID)
}

// PerformanceForMember computes the performance summary over the member's
// last 50 completed tasks in the team, most recently updated first. The
// suggestion orchestrator calls this directly for every team member.
func (uc *UseCase) PerformanceForMember(ctx context.Context, teamID, userID string) (*MemberPerformance, error) {
	projectIDs, err := uc.projects.ListIDsByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	perf := &MemberPerformance{UserID: userID, CommonTags: []TagCount{}}
	if len(projectIDs) == 0 {
		return perf, nil
	}

	completed, _, err := uc.tasks.List(ctx, repository.TaskFilter{
		ProjectIDs: projectIDs,
		AssigneeID: userID,
		Status:     domain.TaskStatusCompleted,
		Sort:       repository.TaskSortUpdatedDesc,
		Limit:      performanceWindow,
	})
	if err != nil {
		return nil, err
	}
	perf.TasksCompleted = len(completed)
	if len(completed) == 0 {
		return perf, nil
	}

	var (
		daysSum       float64
		daysSamples   int
		accuracySum   float64
		accuracyCount int
		tagCounts     = make(map[string]int)
		prioCounts    = make(map[domain.Priority]int)
	)
	for i := range completed {
		t := &completed[i]
		if !t.CreatedAt.IsZero() && !t.UpdatedAt.IsZero() {
			daysSum += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
			daysSamples++
		}
		if t.EstimatedHours > 0 && t.ActualHours > 0 {
			accuracy := 1 - math.Abs(t.ActualHours-t.EstimatedHours)/t.EstimatedHours
			if accuracy < 0 {
				accuracy = 0
			}
			accuracySum += accuracy
			accuracyCount++
		}
		for _, tag := range t.Tags {
			tagCounts[tag]++
		}
		prioCounts[t.Priority]++
	}
	if daysSamples > 0 {
		perf.AvgCompletionDays = daysSum / float64(daysSamples)
	}
	if accuracyCount > 0 {
		perf.EstimationAccuracy = accuracySum / float64(accuracyCount) * 100
	}
	perf.CommonTags = topTags(tagCounts, 5)
	perf.TopPriority = topPriority(prioCounts)
	return perf, nil
}

// ActiveAssignedCount is the member's current workload: non-completed tasks
// assigned to them within the team's projects.
func (uc *UseCase) ActiveAssignedCount(ctx context.Context, teamID, userID string) (int, error) {
	projectIDs, err := uc.projects.ListIDsByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if len(projectIDs) == 0 {
		return 0, nil
	}
	tasks, _, err := uc.tasks.List(ctx, repository.TaskFilter{
		ProjectIDs: projectIDs,
		AssigneeID: userID,
	})
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range tasks {
		if !tasks[i].IsCompleted() {
			count++
		}
	}
	return count, nil
}

// TrendPoint is one day of the completion trend series.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TaskCompletionTrends buckets the project's tasks completed in the trailing
// 30 days by UTC calendar day, ascending. Days with zero completions are not
// filled in.
func (uc *UseCase) TaskCompletionTrends(ctx context.Context, actorID, projectID string) ([]TrendPoint, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.gate.Require(ctx, actorID, project.TeamID); err != nil {
		return nil, err
	}

	since := uc.now().AddDate(0, 0, -30)
	completed, _, err := uc.tasks.List(ctx, repository.TaskFilter{
		ProjectID:      projectID,
		Status:         domain.TaskStatusCompleted,
		CompletedSince: since,
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	for i := range completed {
		day := completed[i].UpdatedAt.UTC().Format("2006-01-02")
		byDay[day]++
	}
	points := make([]TrendPoint, 0, len(byDay))
	for day, count := range byDay {
		points = append(points, TrendPoint{Date: day, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func (uc *UseCase) teamTasks(ctx context.Context, teamID string) ([]domain.Task, error) {
	projectIDs, err := uc.projects.ListIDsByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	tasks, _, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectIDs: projectIDs})
	return tasks, err
}

func topTags(counts map[string]int, n int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topPriority(counts map[domain.Priority]int) domain.Priority {
	var best domain.Priority
	bestCount := 0
	for prio, count := range counts {
		if count > bestCount || (count == bestCount && string(prio) < string(best)) {
			best, bestCount = prio, count
		}
	}
	return best
}
