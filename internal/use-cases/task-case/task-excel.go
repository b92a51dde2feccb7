package task_case

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	task_dto "github.com/neolist/neolist/internal/dtos/task-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/excel"
	"github.com/rs/zerolog/log"
)

// ExportList schreibt die Aufgaben einer Liste als .xlsx nach w und liefert den Dateinamen.
func (s *TaskService) ExportList(ctx context.Context, actor entity.Actor, listID string, w io.Writer) (string, *app_errors.AppError) {
	t, err := s.txManager.BeginAs(ctx, actor.UserID)
	if err != nil {
		return "", err
	}
	defer t.Rollback(ctx)

	list, err := s.repo.GetList(ctx, t, listID)
	if err != nil {
		return "", err
	}
	tasks, err := s.repo.ListTasks(ctx, t, listID)
	if err != nil {
		return "", err
	}
	assignees, err := s.repo.ListAssigneesInList(ctx, t, listID)
	if err != nil {
		return "", err
	}

	rows := make([]excel.Row, 0, len(tasks))
	for _, task := range groupAssignees(tasks, assignees) {
		row := excel.Row{
			Title:     task.Title,
			DueDate:   task.DueDate,
			Priority:  task.Priority,
			Completed: task.IsCompleted,
		}
		if task.Notes != nil {
			row.Notes = *task.Notes
		}
		for _, a := range task.Assignees {
			row.Assignees = append(row.Assignees, a.Email)
		}
		rows = append(rows, row)
	}

	if err := excel.Export(w, rows); err != nil {
		return "", app_errors.Internal(err)
	}
	return exportFileName(list.Name), nil
}

func exportFileName(listName string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		}
		return r
	}, strings.TrimSpace(listName))
	if name == "" {
		name = "liste"
	}
	return name + ".xlsx"
}

// ImportList legt für jede gültige Zeile eine Aufgabe an. Unbekannte
// Zuweisungen werden gemeldet, die Zeile selbst wird trotzdem importiert.
func (s *TaskService) ImportList(ctx context.Context, actor entity.Actor, listID string, r io.Reader) (*task_dto.ImportTasksResponse, *app_errors.AppError) {
	rows, issues, parseErr := excel.Import(r)
	if parseErr != nil {
		if errors.Is(parseErr, excel.ErrMissingTitleColumn) {
			return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "task.import_missing_title", parseErr)
		}
		return nil, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "task.import_unreadable", parseErr)
	}

	resp := &task_dto.ImportTasksResponse{ListID: listID, Issues: []task_dto.ImportIssue{}}
	for _, issue := range issues {
		resp.Issues = append(resp.Issues, task_dto.ImportIssue{Row: issue.Line, Reason: issue.Reason})
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

	for _, row := range rows {
		id, idErr := uuid.NewV7()
		if idErr != nil {
			return nil, app_errors.Internal(idErr)
		}

		var notes *string
		if row.Notes != "" {
			n := row.Notes
			notes = &n
		}
		task, err := s.repo.InsertTask(ctx, t, &entity.TaskEntity{
			ID:        id.String(),
			ListID:    list.ID,
			Title:     row.Title,
			Notes:     notes,
			DueDate:   row.DueDate,
			Priority:  row.Priority,
			CreatedBy: actor.UserID,
		})
		if err != nil {
			return nil, err
		}
		if row.Completed {
			if task, err = s.repo.SetTaskCompleted(ctx, t, task.ID, true); err != nil {
				return nil, err
			}
		}

		assignees := make([]entity.AssigneeEntity, 0, len(row.Assignees))
		for _, email := range row.Assignees {
			user, err := s.resolveUser(ctx, t, "", email)
			if err != nil {
				if err.Code == fiber.StatusNotFound {
					resp.Issues = append(resp.Issues, task_dto.ImportIssue{Row: row.Line, Reason: fmt.Sprintf("unknown assignee %q", email)})
					continue
				}
				return nil, err
			}
			if findAssignee(assignees, user.ID) != nil {
				continue
			}
			a, err := s.assign(ctx, t, task, user.ID)
			if err != nil {
				return nil, err
			}
			assignees = append(assignees, *a)
		}

		queued, err := s.enqueueSync(ctx, t, task, assignees)
		if err != nil {
			return nil, err
		}
		resp.QueuedSyncOps += queued
		resp.Imported++
	}

	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	s.kickDrain(resp.QueuedSyncOps, "tasks_imported")
	log.Info().Str("list_id", listID).Int("imported", resp.Imported).Int("issues", len(resp.Issues)).Msg("Aufgaben importiert")
	return resp, nil
}
