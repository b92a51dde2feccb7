package task_handlers

import (
	"bytes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	folder_dto "github.com/neolist/neolist/internal/dtos/folder-dto"
	task_dto "github.com/neolist/neolist/internal/dtos/task-dto"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/handlers"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	task_case "github.com/neolist/neolist/internal/use-cases/task-case"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 5 << 20
)

type TaskHandler struct {
	validator *validator.Validate
	service   task_case.TaskServiceContract
	i18n      internal_i18n.Service
}

func NewTaskHandler(service task_case.TaskServiceContract, i18n internal_i18n.Service) *TaskHandler {
	return &TaskHandler{
		validator: handlers.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

// CreateTask legt eine Aufgabe in einer Liste an und reiht die Zimbra-Erstellung
// für jeden synchronisierten Zugewiesenen ein.
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	// 1. Aufrufer aus c.Locals
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	// 2. list_id und Body parsen
	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.CreateTaskRequest](c, h.validator)
	if err != nil {
		return err
	}

	// 3. Service aufrufen
	resp, err := h.service.CreateTask(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	// 4. Antwort zurückgeben
	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_create_task", resp)
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ListTasks(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	webResp := handlers.CreateResponse(
		h.i18n.T(handlers.GetLang(c), "response.success_list_tasks", nil),
		resp,
		handlers.GetRequestID(c),
		map[string]any{"count_tasks": len(resp.Tasks)},
	)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}
	return nil
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetTask(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_fetch_task", resp)
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.UpdateTaskRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.UpdateTask(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_update_task", resp)
}

func (h *TaskHandler) SetTaskCompleted(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.SetCompletedRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.SetTaskCompleted(c.Context(), actor, param.ID, *req.Completed)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_complete_task", resp)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.DeleteTask(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_delete_task", resp)
}

func (h *TaskHandler) AddAssignee(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.AssigneeRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.AddAssignee(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_add_assignee", resp)
}

func (h *TaskHandler) RemoveAssignee(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamAssignee](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.RemoveAssignee(c.Context(), actor, param.TaskID, param.UserID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_remove_assignee", resp)
}

// ReassignTask übergibt die Aufgabe an genau einen neuen Zugewiesenen. Die
// Zimbra-Seite wird sofort abgeglichen, das Ergebnis pro Vorgang steht in
// sync_results.
func (h *TaskHandler) ReassignTask(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.AssigneeRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ReassignTask(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_reassign_task", resp)
}

func (h *TaskHandler) SetOwnCompletion(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.SetCompletedRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.SetOwnCompletion(c.Context(), actor, param.ID, *req.Completed)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_own_completion", resp)
}

func (h *TaskHandler) AddComment(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}
	req, err := handlers.ParseBody[task_dto.CreateCommentRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.AddComment(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_add_comment", resp)
}

func (h *TaskHandler) ListComments(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}

	comments, err := h.service.ListComments(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_list_comments", map[string]any{"comments": comments})
}

func (h *TaskHandler) DeleteComment(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[task_dto.ParamComment](c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.DeleteComment(c.Context(), actor, param.TaskID, param.CommentID); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_delete_comment", "OK")
}

// ExportList liefert die Liste als Excel-Datei zum Download.
func (h *TaskHandler) ExportList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fileName, err := h.service.ExportList(c.Context(), actor, param.ID, &buf)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment(fileName)
	if err := c.Status(fiber.StatusOK).Send(buf.Bytes()); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}
	return nil
}

// ImportList erwartet ein Multipart-Feld "file" mit einer .xlsx-Datei.
func (h *TaskHandler) ImportList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	header, ferr := c.FormFile("file")
	if ferr != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "task.import_file_missing", ferr)
	}
	if header.Size > maxImportSize {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "task.import_too_large", nil)
	}

	file, ferr := header.Open()
	if ferr != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "task.import_unreadable", ferr)
	}
	defer file.Close()

	resp, err := h.service.ImportList(c.Context(), actor, param.ID, file)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_import_tasks", resp)
}
