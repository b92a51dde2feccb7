package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/neolist/neolist/internal/abstraction/session"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/utils"
	"github.com/rs/zerolog/log"
)

func unauthorized(key string, err error) *app_errors.AppError {
	return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, key, err)
}

// AuthMiddleware prüft den Header "Authorization: Bearer <token>" und das PASETO-Token.
// Ein Token gilt nur, solange seine Session im Store liegt und dasselbe Token trägt.
// Bei Erfolg setzt es die Locals "user_id", "email", "role", "jti" und "device_name".
// Die Rolle stammt aus der Session, nicht aus dem Token.
func AuthMiddleware(pasetoMaker *utils.PasetoMaker, sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized("auth.missing_header", nil)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized("auth.invalid_format", nil)
		}
		token := parts[1]

		// Verifizieren via PASETO
		claims, err := pasetoMaker.VerifyToken(token)
		if err != nil {
			log.Debug().Err(err).Msg("Token-Verifizierung fehlgeschlagen")
			return unauthorized("auth.invalid_token", nil)
		}

		// Session muss noch existieren (Logout, Deaktivierung, Rollenwechsel beenden sie)
		s, appErr := sessions.Get(c.Context(), claims.SessionID)
		if appErr != nil {
			return appErr
		}
		if s == nil || s.Token != token {
			return unauthorized("auth.session_expired", nil)
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", s.Role)
		c.Locals("jti", claims.SessionID)
		c.Locals("device_name", s.Device)

		return c.Next()
	}
}
