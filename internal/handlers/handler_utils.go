package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/neolist/neolist/internal/dtos"
	admin_dto "github.com/neolist/neolist/internal/dtos/admin-dto"
	task_dto "github.com/neolist/neolist/internal/dtos/task-dto"
	user_dto "github.com/neolist/neolist/internal/dtos/user-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
)

// CreateResponse erstellt eine standardisierte WebResponse.
func CreateResponse[T any](message string, data T, requestID string, details ...any) dtos.WebResponse[T] {
	return dtos.WebResponse[T]{
		Message:   message,
		Data:      data,
		RequestID: requestID,
		Details:   details,
	}
}

// NewValidator registriert die fachlichen Tags, die in den DTOs verwendet werden.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("taskPriority", task_dto.IsValidTaskPriority)
	validate.RegisterValidation("syncStatus", admin_dto.IsValidSyncStatus)
	validate.RegisterValidation("userRole", user_dto.IsValidUserRole)
	return validate
}

func unauthorized() *app_errors.AppError {
	return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
}

func GetUserID(c *fiber.Ctx) (string, *app_errors.AppError) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", unauthorized()
	}

	return userID, nil
}

// GetActor baut den Aufrufer aus den Locals der Auth-Middleware.
func GetActor(c *fiber.Ctx) (entity.Actor, *app_errors.AppError) {
	userID, err := GetUserID(c)
	if err != nil {
		return entity.Actor{}, err
	}
	email, _ := c.Locals("email").(string)
	role, _ := c.Locals("role").(string)

	return entity.Actor{UserID: userID, Email: email, Role: entity.UserRole(role)}, nil
}

func GetRequestID(c *fiber.Ctx) string {
	reqID, ok := c.Locals("request_id").(string)
	if !ok {
		reqID = "unknown"
	}
	return reqID
}

func GetLang(c *fiber.Ctx) string {
	lang, _ := c.Locals("lang").(string)
	return lang
}

// ParseParams füllt T aus den Routenparametern und validiert es.
func ParseParams[T any](c *fiber.Ctx, v *validator.Validate) (T, *app_errors.AppError) {
	var param T
	if err := c.ParamsParser(&param); err != nil {
		return param, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return param, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param, nil
}

func ParseBody[T any](c *fiber.Ctx, v *validator.Validate) (T, *app_errors.AppError) {
	var req T
	if err := c.BodyParser(&req); err != nil {
		return req, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	if err := v.Struct(req); err != nil {
		return req, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return req, nil
}

func ParseQuery[T any](c *fiber.Ctx, v *validator.Validate) (T, *app_errors.AppError) {
	var query T
	if err := c.QueryParser(&query); err != nil {
		return query, app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidQuery, "request.invalid_query", err)
	}

	if err := v.Struct(query); err != nil {
		return query, app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return query, nil
}

// Respond schreibt eine übersetzte WebResponse mit dem angegebenen Status.
func Respond[T any](c *fiber.Ctx, i18n internal_i18n.Service, status int, messageKey string, data T) error {
	webResp := CreateResponse(i18n.T(GetLang(c), messageKey, nil), data, GetRequestID(c))
	if err := c.Status(status).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}
	return nil
}
