package domain

import "time"

type NotificationKind string

const (
	NotificationTaskAssigned  NotificationKind = "task_assigned"
	NotificationTaskCompleted NotificationKind = "task_completed"
	NotificationCommentAdded  NotificationKind = "comment_added"
	NotificationTeamInvite    NotificationKind = "team_invitation"
	NotificationDeadlineSoon  NotificationKind = "deadline_reminder"
)

// Notification is a fire-and-forget record addressed to a single user.
// ReadAt is set exactly once, on the first transition to read.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    string           `json:"related_task,omitempty"`
	ProjectID string           `json:"related_project,omitempty"`
	TeamID    string           `json:"related_team,omitempty"`
	IsRead    bool             `json:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// MarkRead flips the read flag and stamps ReadAt on the first call only.
func (n *Notification) MarkRead(now time.Time) {
	if n == nil || n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
}
