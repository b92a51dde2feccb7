package entity

import "time"

type SyncAction string

const (
	SyncCreate SyncAction = "CREATE"
	SyncUpdate SyncAction = "UPDATE"
	SyncDelete SyncAction = "DELETE"
)

func (a SyncAction) IsValid() bool {
	switch a {
	case SyncCreate, SyncUpdate, SyncDelete:
		return true
	}
	return false
}

// SyncStatus: PENDING -> IN_PROGRESS -> DONE | FAILED. Nach DONE/FAILED wird
// ein Eintrag nie wieder verändert; ein Retry ist ein neuer Eintrag.
type SyncStatus string

const (
	SyncPending    SyncStatus = "PENDING"
	SyncInProgress SyncStatus = "IN_PROGRESS"
	SyncDone       SyncStatus = "DONE"
	SyncFailed     SyncStatus = "FAILED"
)

func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncPending, SyncInProgress, SyncDone, SyncFailed:
		return true
	}
	return false
}

// SyncPayload ist der Schnappschuss, aus dem das externe VTODO gebaut wird.
type SyncPayload struct {
	Title          string       `json:"title"`
	Notes          string       `json:"notes,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	Priority       TaskPriority `json:"priority"`
	Completed      bool         `json:"completed"`
	ExternalTaskID string       `json:"external_task_id,omitempty"`
}

func NewSyncPayload(task *TaskEntity, assignee *AssigneeEntity) SyncPayload {
	p := SyncPayload{
		Title:    task.Title,
		DueDate:  task.DueDate,
		Priority: task.Priority,
	}
	if task.Notes != nil {
		p.Notes = *task.Notes
	}
	p.Completed = task.IsCompleted
	if assignee != nil {
		p.Completed = p.Completed || assignee.IsCompleted
		if assignee.ExternalTaskID != nil {
			p.ExternalTaskID = *assignee.ExternalTaskID
		}
	}
	return p
}

type SyncQueueEntry struct {
	ID               string      `json:"id"`
	TaskID           string      `json:"task_id"`
	UserEmail        string      `json:"user_email"`
	Action           SyncAction  `json:"action_type"`
	Payload          SyncPayload `json:"payload"`
	Status           SyncStatus  `json:"status"`
	Attempt          int         `json:"attempt"`
	RetryOf          *string     `json:"retry_of,omitempty"`
	AvailableAt      time.Time   `json:"available_at"`
	ClaimedAt        *time.Time  `json:"claimed_at,omitempty"`
	ProcessedAt      *time.Time  `json:"processed_at,omitempty"`
	LastError        *string     `json:"last_error,omitempty"`
	ResultExternalID *string     `json:"result_external_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

type SyncResultStatus string

const (
	SyncResultCreated   SyncResultStatus = "created"
	SyncResultUpdated   SyncResultStatus = "updated"
	SyncResultRecreated SyncResultStatus = "re-created"
	SyncResultDeleted   SyncResultStatus = "deleted"
	SyncResultSkipped   SyncResultStatus = "skipped"
	SyncResultFailed    SyncResultStatus = "failed"
)

// SyncResult ist das Ergebnis pro Zuweisung, wie es der Admin-Endpunkt anzeigt.
type SyncResult struct {
	UserID     string           `json:"user_id,omitempty"`
	Email      string           `json:"email"`
	Status     SyncResultStatus `json:"status"`
	ExternalID string           `json:"external_id,omitempty"`
	Error      string           `json:"error,omitempty"`
	Err        error            `json:"-"`
}

type SyncQueueStats struct {
	Status SyncStatus `json:"status"`
	Count  int64      `json:"count"`
}
