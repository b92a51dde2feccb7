package task_dto

import "time"

type ParamTaskID struct {
	ID string `params:"task_id" validate:"required,uuid"`
}

type ParamAssignee struct {
	TaskID string `params:"task_id" validate:"required,uuid"`
	UserID string `params:"user_id" validate:"required,uuid"`
}

type ParamComment struct {
	TaskID    string `params:"task_id" validate:"required,uuid"`
	CommentID string `params:"comment_id" validate:"required,uuid"`
}

// CreateTaskRequest: Zuweisungen wahlweise per Benutzer-ID oder E-Mail.
type CreateTaskRequest struct {
	Title          string     `json:"title" validate:"required,min=1,max=200"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=4000"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Priority       string     `json:"priority,omitempty" validate:"omitempty,taskPriority"`
	AssigneeIDs    []string   `json:"assignee_ids,omitempty" validate:"omitempty,max=20,dive,uuid"`
	AssigneeEmails []string   `json:"assignee_emails,omitempty" validate:"omitempty,max=20,dive,email"`
}

type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=4000"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	Priority     *string    `json:"priority,omitempty" validate:"omitempty,taskPriority"`
}

type SetCompletedRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// AssigneeRequest identifiziert einen Benutzer per ID oder E-Mail.
type AssigneeRequest struct {
	UserID string `json:"user_id,omitempty" validate:"required_without=Email,omitempty,uuid"`
	Email  string `json:"email,omitempty" validate:"required_without=UserID,omitempty,email"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}
