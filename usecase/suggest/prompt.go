package suggest

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayush17112005/TaskWiseAI/domain"
)

// memberContext is one team member's slice of the prompt context for the
// assignee and deadline paths.
type memberContext struct {
	UserID            string
	Name              string
	ActiveTasks       int
	CompletedTasks    int
	AvgCompletionDays float64
	Accuracy          float64
	TopTags           []string
}

func buildAssigneePrompt(task *domain.Task, project *domain.Project, members []memberContext, isNewTeam bool) string {
	var b strings.Builder
	if isNewTeam {
		b.WriteString("You are helping a newly formed team distribute work fairly. ")
		b.WriteString("No member has completed any task yet, so base your choice on current workload balance alone.\n\n")
	} else {
		b.WriteString("You are helping assign a task to the most suitable team member ")
		b.WriteString("based on their track record and current workload.\n\n")
	}

	writeTaskBlock(&b, task, project)

	b.WriteString("Team members:\n")
	for _, m := range members {
		if isNewTeam {
			fmt.Fprintf(&b, "- id=%s name=%q active_tasks=%d\n", m.UserID, m.Name, m.ActiveTasks)
			continue
		}
		fmt.Fprintf(&b, "- id=%s name=%q active_tasks=%d completed_tasks=%d avg_completion_days=%.1f estimation_accuracy=%.0f%% frequent_tags=%s\n",
			m.UserID, m.Name, m.ActiveTasks, m.CompletedTasks, m.AvgCompletionDays, m.Accuracy, strings.Join(m.TopTags, ","))
	}

	if isNewTeam {
		b.WriteString("\nPick the member with the most capacity. ")
	} else {
		b.WriteString("\nPick the member whose history best matches this task, balancing expertise against workload. ")
	}
	b.WriteString(`Respond with JSON only: {"suggestedUserId": "<member id>", "reasoning": "<one or two sentences>", "confidence": <0..1>}`)
	return b.String()
}

func buildDeadlinePrompt(task *domain.Task, project *domain.Project, members []memberContext, isNewTeam bool, now time.Time) string {
	var b strings.Builder
	if isNewTeam {
		b.WriteString("You are estimating a realistic deadline for a task owned by a team with no completion history. ")
		b.WriteString("Base the estimate on the task itself and the assignee's current workload only.\n\n")
	} else {
		b.WriteString("You are estimating a realistic deadline for a task, ")
		b.WriteString("informed by how quickly this team historically completes similar work.\n\n")
	}

	writeTaskBlock(&b, task, project)
	fmt.Fprintf(&b, "Today is %s.\n", now.UTC().Format("2006-01-02"))

	if !isNewTeam {
		b.WriteString("Team completion history:\n")
		for _, m := range members {
			fmt.Fprintf(&b, "- %q completes tasks in %.1f days on average (%d completed)\n",
				m.Name, m.AvgCompletionDays, m.CompletedTasks)
		}
	}
	if task.AssignedTo != "" {
		for _, m := range members {
			if m.UserID == task.AssignedTo {
				fmt.Fprintf(&b, "The assignee currently has %d active tasks.\n", m.ActiveTasks)
			}
		}
	}

	b.WriteString(`
Respond with JSON only: {"suggestedDays": <whole days from today>, "reasoning": "<one or two sentences>", "confidence": <0..1>}`)
	return b.String()
}

func buildPriorityPrompt(task *domain.Task, project *domain.Project) string {
	var b strings.Builder
	b.WriteString("You are triaging a task's priority within its project.\n\n")
	writeTaskBlock(&b, task, project)
	fmt.Fprintf(&b, "The project's own priority is %q.\n", project.Priority)
	b.WriteString(`
Choose one of: low, medium, high, urgent.
Respond with JSON only: {"suggestedPriority": "<value>", "reasoning": "<one or two sentences>", "confidence": <0..1>}`)
	return b.String()
}

func buildBreakdownPrompt(task *domain.Task, project *domain.Project) string {
	var b strings.Builder
	b.WriteString("You are decomposing a task into smaller actionable subtasks.\n\n")
	writeTaskBlock(&b, task, project)
	b.WriteString(`
Produce between 2 and 7 subtasks that together cover the work. Keep titles short and imperative.
Respond with JSON only: {"subtasks": [{"title": "<short>", "description": "<one sentence>", "estimatedHours": <number>}], "reasoning": "<one or two sentences>", "confidence": <0..1>}`)
	return b.String()
}

func writeTaskBlock(b *strings.Builder, task *domain.Task, project *domain.Project) {
	fmt.Fprintf(b, "Project: %q (status %s)\n", project.Name, project.Status)
	fmt.Fprintf(b, "Task: %q\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(b, "Description: %s\n", task.Description)
	}
	fmt.Fprintf(b, "Priority: %s, status: %s\n", task.Priority, task.Status)
	if task.Deadline != nil {
		fmt.Fprintf(b, "Deadline: %s\n", task.Deadline.UTC().Format("2006-01-02"))
	}
	if task.EstimatedHours > 0 {
		fmt.Fprintf(b, "Estimated hours: %.1f\n", task.EstimatedHours)
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(b, "Tags: %s\n", strings.Join(task.Tags, ", "))
	}
	b.WriteString("\n")
}
