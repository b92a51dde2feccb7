package task_repo

import (
	"context"
	"time"

	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

// TaskUpdate: nil-Felder bleiben unverändert, ClearDueDate entfernt das Fälligkeitsdatum.
type TaskUpdate struct {
	Title        *string
	Notes        *string
	DueDate      *time.Time
	ClearDueDate bool
	Priority     *entity.TaskPriority
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Notes == nil && u.DueDate == nil && !u.ClearDueDate && u.Priority == nil
}

type TaskRepoContract interface {
	GetList(ctx context.Context, t tx.Tx, listID string) (*entity.ListEntity, *app_errors.AppError)
	EnsureListMember(ctx context.Context, t tx.Tx, listID, userID string) *app_errors.AppError

	InsertTask(ctx context.Context, t tx.Tx, task *entity.TaskEntity) (*entity.TaskEntity, *app_errors.AppError)
	ListTasks(ctx context.Context, t tx.Tx, listID string) ([]entity.TaskEntity, *app_errors.AppError)
	GetTask(ctx context.Context, t tx.Tx, taskID string) (*entity.TaskEntity, *app_errors.AppError)
	UpdateTask(ctx context.Context, t tx.Tx, taskID string, model TaskUpdate) (*entity.TaskEntity, *app_errors.AppError)
	SetTaskCompleted(ctx context.Context, t tx.Tx, taskID string, completed bool) (*entity.TaskEntity, *app_errors.AppError)
	DeleteTask(ctx context.Context, t tx.Tx, taskID string) *app_errors.AppError

	FindUserByID(ctx context.Context, t tx.Tx, userID string) (*entity.UserEntity, *app_errors.AppError)
	FindUserByEmail(ctx context.Context, t tx.Tx, email string) (*entity.UserEntity, *app_errors.AppError)

	ListAssignees(ctx context.Context, t tx.Tx, taskID string) ([]entity.AssigneeEntity, *app_errors.AppError)
	ListAssigneesInList(ctx context.Context, t tx.Tx, listID string) ([]entity.AssigneeEntity, *app_errors.AppError)
	InsertAssignee(ctx context.Context, t tx.Tx, taskID, userID string) (*entity.AssigneeEntity, *app_errors.AppError)
	DeleteAssignee(ctx context.Context, t tx.Tx, taskID, userID string) *app_errors.AppError
	SetAssigneeCompleted(ctx context.Context, t tx.Tx, taskID, userID string, completed bool) (*entity.AssigneeEntity, *app_errors.AppError)

	InsertComment(ctx context.Context, t tx.Tx, comment *entity.CommentEntity) (*entity.CommentEntity, *app_errors.AppError)
	ListComments(ctx context.Context, t tx.Tx, taskID string) ([]entity.CommentEntity, *app_errors.AppError)
	GetComment(ctx context.Context, t tx.Tx, commentID string) (*entity.CommentEntity, *app_errors.AppError)
	DeleteComment(ctx context.Context, t tx.Tx, commentID string) *app_errors.AppError
}
