package entity

import "time"

type TaskEntity struct {
	ID          string       `json:"id"`
	ListID      string       `json:"list_id"`
	Title       string       `json:"title"`
	Notes       *string      `json:"notes,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Priority    TaskPriority `json:"priority"`
	IsCompleted bool         `json:"is_completed"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
}

// AssigneeEntity ist die Zeile aus task_assignees, angereichert um die
// Benutzerdaten, die für die Zimbra-Synchronisierung gebraucht werden.
type AssigneeEntity struct {
	TaskID            string    `json:"task_id"`
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"display_name"`
	ZimbraSyncEnabled bool      `json:"zimbra_sync_enabled"`
	IsCompleted       bool      `json:"is_completed"`
	AssignedAt        time.Time `json:"assigned_at"`
	ExternalTaskID    *string   `json:"external_task_id,omitempty"`
}

// Syncable: Zimbra-Sync aktiv und eine Adresse vorhanden.
func (a *AssigneeEntity) Syncable() bool {
	return a != nil && a.ZimbraSyncEnabled && a.Email != ""
}

func (a *AssigneeEntity) HasExternalTask() bool {
	return a != nil && a.ExternalTaskID != nil && *a.ExternalTaskID != ""
}

// TaskAssignment verbindet eine Aufgabe mit einer ihrer Zuweisungen.
type TaskAssignment struct {
	Task     TaskEntity     `json:"task"`
	Assignee AssigneeEntity `json:"assignee"`
}

type CommentEntity struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
