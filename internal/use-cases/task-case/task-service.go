package task_case

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/dtos"
	task_dto "github.com/neolist/neolist/internal/dtos/task-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/queue"
	task_repo "github.com/neolist/neolist/internal/repo/task-repo"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/rs/zerolog/log"
)

type TaskService struct {
	repo      task_repo.TaskRepoContract
	txManager tx.TxManager
	sync      zimbra_sync_case.ZimbraSyncServiceContract
	queue     queue.TaskQueueClient
}

func NewTaskService(db *pgxpool.Pool, sync zimbra_sync_case.ZimbraSyncServiceContract, q queue.TaskQueueClient) TaskServiceContract {
	return &TaskService{
		repo:      task_repo.NewTaskRepo(db),
		txManager: tx.NewPgxTxManager(db),
		sync:      sync,
		queue:     q,
	}
}

// canManage: Löschen und Umverteilen dürfen Admins, Listeneigentümer und der Ersteller.
func canManage(actor entity.Actor, list *entity.ListEntity, task *entity.TaskEntity) bool {
	if actor.IsAdmin() || actor.UserID == list.OwnerID {
		return true
	}
	return task != nil && task.CreatedBy == actor.UserID
}

func (s *TaskService) CreateTask(ctx context.Context, actor entity.Actor, listID string, req task_dto.CreateTaskRequest) (*task_dto.TaskMutationResponse, *app_errors.AppError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, titleRequired()
	}
	priority := entity.PriorityMedium
	if req.Priority != "" {
		priority = entity.TaskPriority(req.Priority)
	}

	id, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}

	task, err := s.repo.InsertTask(ctx, t, &entity.TaskEntity{
		ID:        id.String(),
		ListID:    list.ID,
		Title:     title,
		Notes:     trimmedOrNil(req.Notes),
		DueDate:   req.DueDate,
		Priority:  priority,
		CreatedBy: actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	users, err := s.resolveUsers(ctx, t, req.AssigneeIDs, req.AssigneeEmails)
	if err != nil {
		return nil, err
	}

	assignees := make([]entity.AssigneeEntity, 0, len(users))
	for _, u := range users {
		a, err := s.assign(ctx, t, task, u.ID)
		if err != nil {
			return nil, err
		}
		assignees = append(assignees, *a)
	}

	queued, err := s.enqueueSync(ctx, t, task, assignees)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "task_created")
	log.Info().Str("task_id", task.ID).Str("list_id", list.ID).Int("assignees", len(assignees)).Msg("Aufgabe angelegt")
	return &task_dto.TaskMutationResponse{Task: task, Assignees: assignees, QueuedSyncOps: queued}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, actor entity.Actor, listID string) (*task_dto.ListTasksResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, t, listID)
	if err != nil {
		return nil, err
	}
	assignees, err := s.repo.ListAssigneesInList(ctx, t, listID)
	if err != nil {
		return nil, err
	}

	return &task_dto.ListTasksResponse{List: list, Tasks: groupAssignees(tasks, assignees)}, nil
}

func groupAssignees(tasks []entity.TaskEntity, assignees []entity.AssigneeEntity) []task_dto.TaskWithAssignees {
	byTask := make(map[string][]entity.AssigneeEntity, len(tasks))
	for _, a := range assignees {
		byTask[a.TaskID] = append(byTask[a.TaskID], a)
	}

	out := make([]task_dto.TaskWithAssignees, 0, len(tasks))
	for _, task := range tasks {
		list := byTask[task.ID]
		if list == nil {
			list = []entity.AssigneeEntity{}
		}
		out = append(out, task_dto.TaskWithAssignees{TaskEntity: task, Assignees: list})
	}
	return out
}

func (s *TaskService) GetTask(ctx context.Context, actor entity.Actor, taskID string) (*task_dto.TaskDetailResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetList(ctx, t, task.ListID)
	if err != nil {
		return nil, err
	}
	assignees, err := s.repo.ListAssignees(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, t, taskID)
	if err != nil {
		return nil, err
	}

	return &task_dto.TaskDetailResponse{
		Task:      task,
		Assignees: assignees,
		Comments:  comments,
		CanManage: canManage(actor, list, task),
	}, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actor entity.Actor, taskID string, req task_dto.UpdateTaskRequest) (*task_dto.TaskMutationResponse, *app_errors.AppError) {
	model := task_repo.TaskUpdate{
		Notes:        req.Notes,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, titleRequired()
		}
		model.Title = &title
	}
	if req.Priority != nil {
		p := entity.TaskPriority(*req.Priority)
		model.Priority = &p
	}

	return s.mutateTask(ctx, actor, taskID, "task_updated", func(t tx.Tx) (*entity.TaskEntity, *app_errors.AppError) {
		return s.repo.UpdateTask(ctx, t, taskID, model)
	})
}

// SetTaskCompleted schließt die Aufgabe für alle Zuweisungen ab oder öffnet sie wieder.
func (s *TaskService) SetTaskCompleted(ctx context.Context, actor entity.Actor, taskID string, completed bool) (*task_dto.TaskMutationResponse, *app_errors.AppError) {
	return s.mutateTask(ctx, actor, taskID, "task_completed", func(t tx.Tx) (*entity.TaskEntity, *app_errors.AppError) {
		return s.repo.SetTaskCompleted(ctx, t, taskID, completed)
	})
}

func (s *TaskService) mutateTask(ctx context.Context, actor entity.Actor, taskID, reason string, apply func(t tx.Tx) (*entity.TaskEntity, *app_errors.AppError)) (*task_dto.TaskMutationResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	if _, err := s.repo.GetTask(ctx, t, taskID); err != nil {
		return nil, err
	}
	task, err := apply(t)
	if err != nil {
		return nil, err
	}

	assignees, err := s.repo.ListAssignees(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	queued, err := s.enqueueSync(ctx, t, task, assignees)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, reason)
	return &task_dto.TaskMutationResponse{Task: task, Assignees: assignees, QueuedSyncOps: queued}, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, actor entity.Actor, taskID string) (*dtos.DeleteResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetList(ctx, t, task.ListID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, list, task) {
		return nil, app_errors.Forbidden("task.forbidden")
	}

	assignees, err := s.repo.ListAssignees(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	queued, err := s.enqueueDeletes(ctx, t, task, assignees)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteTask(ctx, t, taskID); err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "task_deleted")
	log.Info().Str("task_id", taskID).Int("queued_sync_ops", queued).Msg("Aufgabe gelöscht")
	return &dtos.DeleteResponse{ID: taskID, QueuedSyncOps: queued}, nil
}

func (s *TaskService) AddAssignee(ctx context.Context, actor entity.Actor, taskID string, req task_dto.AssigneeRequest) (*task_dto.AssigneeMutationResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	user, err := s.resolveUser(ctx, t, req.UserID, req.Email)
	if err != nil {
		return nil, err
	}
	assignee, err := s.assign(ctx, t, task, user.ID)
	if err != nil {
		return nil, err
	}

	queued, err := s.enqueueSync(ctx, t, task, []entity.AssigneeEntity{*assignee})
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "assignee_added")
	return &task_dto.AssigneeMutationResponse{Assignee: assignee, QueuedSyncOps: queued}, nil
}

// RemoveAssignee: Verwalter entfernen beliebige Zuweisungen, jeder kann sich selbst austragen.
func (s *TaskService) RemoveAssignee(ctx context.Context, actor entity.Actor, taskID, userID string) (*dtos.DeleteResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetList(ctx, t, task.ListID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, list, task) && actor.UserID != userID {
		return nil, app_errors.Forbidden("task.forbidden")
	}

	assignees, err := s.repo.ListAssignees(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	removed := findAssignee(assignees, userID)
	if removed == nil {
		return nil, app_errors.NotFound("assignee_not_found")
	}

	if err := s.repo.DeleteAssignee(ctx, t, taskID, userID); err != nil {
		return nil, err
	}
	queued, err := s.enqueueDeletes(ctx, t, task, []entity.AssigneeEntity{*removed})
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "assignee_removed")
	return &dtos.DeleteResponse{ID: userID, QueuedSyncOps: queued}, nil
}

// ReassignTask ersetzt alle bisherigen Zuweisungen durch genau eine neue. Die
// Zimbra-Seite wird sofort über den Reconciler nachgezogen.
func (s *TaskService) ReassignTask(ctx context.Context, actor entity.Actor, taskID string, req task_dto.AssigneeRequest) (*task_dto.ReassignResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.GetList(ctx, t, task.ListID)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, list, task) {
		return nil, app_errors.Forbidden("task.forbidden")
	}

	user, err := s.resolveUser(ctx, t, req.UserID, req.Email)
	if err != nil {
		return nil, err
	}
	old, err := s.repo.ListAssignees(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	if len(old) == 1 && old[0].UserID == user.ID {
		return nil, app_errors.Conflict("task.already_assigned", nil)
	}
	if err := s.repo.EnsureListMember(ctx, t, task.ListID, user.ID); err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	next := &entity.AssigneeEntity{
		TaskID:            task.ID,
		UserID:            user.ID,
		Email:             user.Email,
		DisplayName:       user.DisplayName,
		ZimbraSyncEnabled: user.ZimbraSyncEnabled && user.IsActive,
	}
	results, err := s.sync.Reassign(ctx, task, old, next)
	if err != nil {
		return nil, err
	}

	log.Info().Str("task_id", taskID).Str("assignee", user.ID).Int("previous", len(old)).Msg("Aufgabe umverteilt")
	return &task_dto.ReassignResponse{TaskID: taskID, Assignee: next, SyncResults: results}, nil
}

// SetOwnCompletion setzt den Erledigt-Status der eigenen Zuweisung.
func (s *TaskService) SetOwnCompletion(ctx context.Context, actor entity.Actor, taskID string, completed bool) (*task_dto.AssigneeMutationResponse, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	task, err := s.repo.GetTask(ctx, t, taskID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.repo.SetAssigneeCompleted(ctx, t, taskID, actor.UserID, completed)
	if err != nil {
		return nil, err
	}

	queued, err := s.enqueueSync(ctx, t, task, []entity.AssigneeEntity{*assignee})
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(queued, "assignee_completed")
	return &task_dto.AssigneeMutationResponse{Assignee: assignee, QueuedSyncOps: queued}, nil
}

func (s *TaskService) AddComment(ctx context.Context, actor entity.Actor, taskID string, req task_dto.CreateCommentRequest) (*entity.CommentEntity, *app_errors.AppError) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{
			{Field: "body", Reason: "required", MessageKey: "validation.required"},
		})
	}

	id, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	if _, err := s.repo.GetTask(ctx, t, taskID); err != nil {
		return nil, err
	}
	comment, err := s.repo.InsertComment(ctx, t, &entity.CommentEntity{
		ID:       id.String(),
		TaskID:   taskID,
		AuthorID: actor.UserID,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *TaskService) ListComments(ctx context.Context, actor entity.Actor, taskID string) ([]entity.CommentEntity, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	if _, err := s.repo.GetTask(ctx, t, taskID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, t, taskID)
}

// DeleteComment: nur eigene Kommentare, Admins dürfen alle löschen.
func (s *TaskService) DeleteComment(ctx context.Context, actor entity.Actor, taskID, commentID string) *app_errors.AppError {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return err
	}
	defer t.Rollback(ctx)

	if _, err := s.repo.GetTask(ctx, t, taskID); err != nil {
		return err
	}
	comment, err := s.repo.GetComment(ctx, t, commentID)
	if err != nil {
		return err
	}
	if comment.TaskID != taskID {
		return app_errors.NotFound("comment_not_found")
	}
	if comment.AuthorID != actor.UserID && !actor.IsAdmin() {
		return app_errors.Forbidden("comment.forbidden")
	}

	if err := s.repo.DeleteComment(ctx, t, commentID); err != nil {
		return err
	}
	return t.Commit(ctx)
}

// assign legt die Zuweisung an und nimmt den Benutzer in die Liste auf.
func (s *TaskService) assign(ctx context.Context, t tx.Tx, task *entity.TaskEntity, userID string) (*entity.AssigneeEntity, *app_errors.AppError) {
	if err := s.repo.EnsureListMember(ctx, t, task.ListID, userID); err != nil {
		return nil, err
	}
	return s.repo.InsertAssignee(ctx, t, task.ID, userID)
}

func (s *TaskService) resolveUser(ctx context.Context, t tx.Tx, userID, email string) (*entity.UserEntity, *app_errors.AppError) {
	var (
		user *entity.UserEntity
		err  *app_errors.AppError
	)
	switch {
	case userID != "":
		user, err = s.repo.FindUserByID(ctx, t, userID)
	case strings.TrimSpace(email) != "":
		user, err = s.repo.FindUserByEmail(ctx, t, strings.TrimSpace(email))
	default:
		return nil, app_errors.NewValidationError([]app_errors.FieldError{
			{Field: "user_id", Reason: "required_without", MessageKey: "validation.required"},
		})
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, app_errors.NotFound("user_not_found")
	}
	return user, nil
}

// resolveUsers löst IDs und E-Mails auf, doppelte Benutzer werden einmal zugewiesen.
func (s *TaskService) resolveUsers(ctx context.Context, t tx.Tx, ids, emails []string) ([]*entity.UserEntity, *app_errors.AppError) {
	seen := make(map[string]struct{}, len(ids)+len(emails))
	out := make([]*entity.UserEntity, 0, len(ids)+len(emails))

	add := func(u *entity.UserEntity) {
		if _, ok := seen[u.ID]; ok {
			return
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}

	for _, id := range ids {
		u, err := s.resolveUser(ctx, t, id, "")
		if err != nil {
			return nil, err
		}
		add(u)
	}
	for _, email := range emails {
		u, err := s.resolveUser(ctx, t, "", email)
		if err != nil {
			return nil, err
		}
		add(u)
	}
	return out, nil
}

// enqueueSync stellt pro synchronisierbarer Zuweisung einen Eintrag ein:
// CREATE ohne externe ID, sonst UPDATE.
func (s *TaskService) enqueueSync(ctx context.Context, t tx.Tx, task *entity.TaskEntity, assignees []entity.AssigneeEntity) (int, *app_errors.AppError) {
	queued := 0
	for i := range assignees {
		a := &assignees[i]
		if !a.Syncable() {
			continue
		}
		action := entity.SyncCreate
		if a.HasExternalTask() {
			action = entity.SyncUpdate
		}
		if _, err := s.sync.Enqueue(ctx, t, task.ID, a.Email, action, entity.NewSyncPayload(task, a)); err != nil {
			return 0, err
		}
		queued++
	}
	return queued, nil
}

func (s *TaskService) enqueueDeletes(ctx context.Context, t tx.Tx, task *entity.TaskEntity, assignees []entity.AssigneeEntity) (int, *app_errors.AppError) {
	queued := 0
	for i := range assignees {
		a := &assignees[i]
		// Auch bei abgeschaltetem Sync löschen.
		if a.Email == "" || !a.HasExternalTask() {
			continue
		}
		if _, err := s.sync.Enqueue(ctx, t, task.ID, a.Email, entity.SyncDelete, entity.NewSyncPayload(task, a)); err != nil {
			return 0, err
		}
		queued++
	}
	return queued, nil
}

func (s *TaskService) kickDrain(queued int, reason string) {
	if queued == 0 {
		return
	}
	if err := s.queue.EnqueueDrainSyncQueue(reason); err != nil {
		log.Warn().Err(err).Str("reason", reason).Msg("Drain der Sync-Queue konnte nicht angestoßen werden")
	}
}

func findAssignee(assignees []entity.AssigneeEntity, userID string) *entity.AssigneeEntity {
	for i := range assignees {
		if assignees[i].UserID == userID {
			return &assignees[i]
		}
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func titleRequired() *app_errors.AppError {
	return app_errors.NewValidationError([]app_errors.FieldError{
		{Field: "title", Reason: "required", MessageKey: "validation.required"},
	})
}
