package task_dto

import "github.com/neolist/neolist/internal/entity"

type TaskWithAssignees struct {
	entity.TaskEntity
	Assignees []entity.AssigneeEntity `json:"assignees"`
}

type ListTasksResponse struct {
	List  *entity.ListEntity  `json:"list"`
	Tasks []TaskWithAssignees `json:"tasks"`
}

type TaskDetailResponse struct {
	Task      *entity.TaskEntity      `json:"task"`
	Assignees []entity.AssigneeEntity `json:"assignees"`
	Comments  []entity.CommentEntity  `json:"comments"`
	CanManage bool                    `json:"can_manage"`
}

// TaskMutationResponse: QueuedSyncOps zählt die in die Zimbra-Queue gestellten Einträge.
type TaskMutationResponse struct {
	Task          *entity.TaskEntity      `json:"task"`
	Assignees     []entity.AssigneeEntity `json:"assignees"`
	QueuedSyncOps int                     `json:"queued_sync_ops"`
}

type AssigneeMutationResponse struct {
	Assignee      *entity.AssigneeEntity `json:"assignee"`
	QueuedSyncOps int                    `json:"queued_sync_ops"`
}

type ReassignResponse struct {
	TaskID      string                 `json:"task_id"`
	Assignee    *entity.AssigneeEntity `json:"assignee"`
	SyncResults []entity.SyncResult    `json:"sync_results"`
}

type ImportIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportTasksResponse struct {
	ListID        string        `json:"list_id"`
	Imported      int           `json:"imported"`
	Issues        []ImportIssue `json:"issues"`
	QueuedSyncOps int           `json:"queued_sync_ops"`
}
