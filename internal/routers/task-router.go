package routers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	task_handlers "github.com/neolist/neolist/internal/handlers/task"
	"github.com/neolist/neolist/internal/middleware"
)

func TaskRouter(api fiber.Router, deps Deps) {
	r := api.Group("/tasks", middleware.AuthMiddleware(deps.Paseto, deps.Sessions))
	taskHandler := task_handlers.NewTaskHandler(deps.Task, deps.I18n)

	r.Get("/:task_id", taskHandler.GetTask)
	r.Patch("/:task_id", taskHandler.UpdateTask)
	r.Delete("/:task_id", taskHandler.DeleteTask)
	r.Put("/:task_id/completed", taskHandler.SetTaskCompleted)

	r.Post("/:task_id/assignees", taskHandler.AddAssignee)
	r.Delete("/:task_id/assignees/:user_id", taskHandler.RemoveAssignee)
	r.Put("/:task_id/assignees/me/completed", taskHandler.SetOwnCompletion)
	r.Post("/:task_id/reassign", rateLimit(deps.LimiterStorage, "reassign", "task_id", 10, time.Minute), taskHandler.ReassignTask)

	r.Get("/:task_id/comments", taskHandler.ListComments)
	r.Post("/:task_id/comments", taskHandler.AddComment)
	r.Delete("/:task_id/comments/:comment_id", taskHandler.DeleteComment)
}
