package routers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	folder_handlers "github.com/neolist/neolist/internal/handlers/folder"
	task_handlers "github.com/neolist/neolist/internal/handlers/task"
	"github.com/neolist/neolist/internal/middleware"
)

// FolderRouter: Ordner unter /folders, Listen samt Aufgaben und Excel unter /lists.
func FolderRouter(api fiber.Router, deps Deps) {
	auth := middleware.AuthMiddleware(deps.Paseto, deps.Sessions)
	folderHandler := folder_handlers.NewFolderHandler(deps.Folder, deps.I18n)
	taskHandler := task_handlers.NewTaskHandler(deps.Task, deps.I18n)

	f := api.Group("/folders", auth)
	f.Post("/", folderHandler.CreateFolder)
	f.Get("/", folderHandler.ListFolders)
	f.Get("/:folder_id", folderHandler.GetFolder)
	f.Patch("/:folder_id", folderHandler.RenameFolder)
	f.Delete("/:folder_id", folderHandler.DeleteFolder)
	f.Post("/:folder_id/lists", folderHandler.CreateList)

	l := api.Group("/lists", auth)
	l.Get("/:list_id", folderHandler.GetList)
	l.Patch("/:list_id", folderHandler.RenameList)
	l.Delete("/:list_id", folderHandler.DeleteList)
	l.Post("/:list_id/members", folderHandler.ShareList)
	l.Delete("/:list_id/members/:user_id", folderHandler.RemoveMember)

	l.Get("/:list_id/tasks", taskHandler.ListTasks)
	l.Post("/:list_id/tasks", taskHandler.CreateTask)
	l.Get("/:list_id/export", taskHandler.ExportList)
	l.Post("/:list_id/import", rateLimit(deps.LimiterStorage, "import", "list_id", 5, 5*time.Minute), taskHandler.ImportList)
}
