package routers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	admin_handlers "github.com/neolist/neolist/internal/handlers/admin"
	"github.com/neolist/neolist/internal/middleware"
)

// AdminRouter: nur für Admins. Force-Sync ruft Zimbra synchron auf und ist
// deshalb pro Aufgabe begrenzt.
func AdminRouter(api fiber.Router, deps Deps) {
	r := api.Group("/admin",
		middleware.AuthMiddleware(deps.Paseto, deps.Sessions),
		middleware.RequireRoles("admin"),
	)
	adminHandler := admin_handlers.NewAdminHandler(deps.Admin, deps.I18n)

	r.Post("/tasks/:task_id/force-sync", rateLimit(deps.LimiterStorage, "force_sync", "task_id", 3, 30*time.Second), adminHandler.ForceSync)
	r.Get("/sync-queue", adminHandler.ListQueueEntries)
	r.Get("/sync-queue/stats", adminHandler.QueueStats)
	r.Post("/sync-queue/drain", rateLimit(deps.LimiterStorage, "drain", "", 6, time.Minute), adminHandler.TriggerDrain)
	r.Post("/sync-queue/:entry_id/retry", adminHandler.RetryEntry)
}
