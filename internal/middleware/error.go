package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	app_errors "github.com/neolist/neolist/internal/errors"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	"github.com/rs/zerolog/log"
)

// ErrorHandlerMiddleware übersetzt AppErrors in die einheitliche Fehlerantwort.
// Fremde Fehler werden zu 500, Fiber-Fehler (404 Route, 405) behalten ihren Status.
func ErrorHandlerMiddleware(i18nSvc internal_i18n.Service) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang, _ := c.Locals("lang").(string)
		if lang == "" {
			lang = "en"
		}

		var appErr *app_errors.AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			appErr = app_errors.NewAppError(fiberErr.Code, fiberType(fiberErr.Code), "request.route_error", nil)
		default:
			appErr = app_errors.Internal(err)
		}

		reqID, _ := c.Locals("request_id").(string)

		respErr := fiber.Map{
			"code":       appErr.Code,
			"type":       appErr.Type,
			"message":    i18nSvc.T(lang, appErr.MessageKey, nil),
			"request_id": reqID,
		}

		if len(appErr.Details) > 0 {
			details := make([]fiber.Map, 0, len(appErr.Details))
			for _, d := range appErr.Details {
				details = append(details, fiber.Map{
					"field":   d.Field,
					"reason":  d.Reason,
					"message": i18nSvc.T(lang, d.MessageKey, d.Params),
				})
			}
			respErr["details"] = details
		}

		if appErr.Err != nil {
			ev := log.Warn()
			if appErr.Code >= fiber.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Err(appErr.Err).Str("request_id", reqID).Str("type", appErr.Type).Msg("application error")
		}

		return c.Status(appErr.Code).JSON(fiber.Map{
			"status": "error",
			"error":  respErr,
		})
	}
}

func fiberType(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return app_errors.ErrNotFound
	case fiber.StatusUnauthorized:
		return app_errors.ErrUnauthorized
	case fiber.StatusForbidden:
		return app_errors.ErrForbidden
	case fiber.StatusTooManyRequests:
		return app_errors.ErrRateLimited
	}
	if code >= fiber.StatusInternalServerError {
		return app_errors.ErrInternal
	}
	return app_errors.ErrInvalidParam
}
