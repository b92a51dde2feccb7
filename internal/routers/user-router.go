package routers

import (
	"github.com/gofiber/fiber/v2"
	user_handlers "github.com/neolist/neolist/internal/handlers/user"
	"github.com/neolist/neolist/internal/middleware"
)

func UserRouter(api fiber.Router, deps Deps) {
	r := api.Group("/users", middleware.AuthMiddleware(deps.Paseto, deps.Sessions))
	userHandler := user_handlers.NewUserHandler(deps.User, deps.I18n)

	r.Get("/me", userHandler.FetchUserSelfProfile)
	r.Patch("/me", userHandler.UpdateSelfProfile)
	r.Post("/me/deactivate", userHandler.DeactivateSelfUser)

	admin := middleware.RequireRoles("admin")
	r.Get("/", admin, userHandler.ListUsers)
	r.Patch("/:user_id/role", admin, userHandler.SetUserRole)
}
