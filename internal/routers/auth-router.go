package routers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	auth_handlers "github.com/neolist/neolist/internal/handlers/auth"
	"github.com/neolist/neolist/internal/middleware"
)

// AuthRouter richtet die Authentifizierungsrouten ein.
func AuthRouter(api fiber.Router, deps Deps) {
	r := api.Group("/auth")
	authHandler := auth_handlers.NewAuthHandler(deps.Auth, deps.I18n)
	auth := middleware.AuthMiddleware(deps.Paseto, deps.Sessions)

	r.Post("/register", rateLimit(deps.LimiterStorage, "register", "", 5, time.Hour), authHandler.RegisterUser)
	r.Post("/login", rateLimit(deps.LimiterStorage, "login", "", 10, time.Minute), authHandler.LoginUser)
	r.Delete("/logout", auth, authHandler.LogoutUser)
	r.Delete("/logout/all", auth, authHandler.LogoutAllDevices)
	r.Get("/devices", auth, authHandler.ListAllUserDevices)
}
