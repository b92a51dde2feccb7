package task_case

import (
	"context"
	"io"

	"github.com/neolist/neolist/internal/dtos"
	task_dto "github.com/neolist/neolist/internal/dtos/task-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
)

type TaskServiceContract interface {
	CreateTask(ctx context.Context, actor entity.Actor, listID string, req task_dto.CreateTaskRequest) (*task_dto.TaskMutationResponse, *app_errors.AppError)
	ListTasks(ctx context.Context, actor entity.Actor, listID string) (*task_dto.ListTasksResponse, *app_errors.AppError)
	GetTask(ctx context.Context, actor entity.Actor, taskID string) (*task_dto.TaskDetailResponse, *app_errors.AppError)
	UpdateTask(ctx context.Context, actor entity.Actor, taskID string, req task_dto.UpdateTaskRequest) (*task_dto.TaskMutationResponse, *app_errors.AppError)
	SetTaskCompleted(ctx context.Context, actor entity.Actor, taskID string, completed bool) (*task_dto.TaskMutationResponse, *app_errors.AppError)
	DeleteTask(ctx context.Context, actor entity.Actor, taskID string) (*dtos.DeleteResponse, *app_errors.AppError)

	AddAssignee(ctx context.Context, actor entity.Actor, taskID string, req task_dto.AssigneeRequest) (*task_dto.AssigneeMutationResponse, *app_errors.AppError)
	RemoveAssignee(ctx context.Context, actor entity.Actor, taskID, userID string) (*dtos.DeleteResponse, *app_errors.AppError)
	ReassignTask(ctx context.Context, actor entity.Actor, taskID string, req task_dto.AssigneeRequest) (*task_dto.ReassignResponse, *app_errors.AppError)
	SetOwnCompletion(ctx context.Context, actor entity.Actor, taskID string, completed bool) (*task_dto.AssigneeMutationResponse, *app_errors.AppError)

	AddComment(ctx context.Context, actor entity.Actor, taskID string, req task_dto.CreateCommentRequest) (*entity.CommentEntity, *app_errors.AppError)
	ListComments(ctx context.Context, actor entity.Actor, taskID string) ([]entity.CommentEntity, *app_errors.AppError)
	DeleteComment(ctx context.Context, actor entity.Actor, taskID, commentID string) *app_errors.AppError

	ExportList(ctx context.Context, actor entity.Actor, listID string, w io.Writer) (string, *app_errors.AppError)
	ImportList(ctx context.Context, actor entity.Actor, listID string, r io.Reader) (*task_dto.ImportTasksResponse, *app_errors.AppError)
}
