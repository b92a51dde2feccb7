package user_handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	user_dto "github.com/neolist/neolist/internal/dtos/user-dto"
	"github.com/neolist/neolist/internal/handlers"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	user_case "github.com/neolist/neolist/internal/use-cases/user-case"
)

type UserHandler struct {
	validator *validator.Validate
	service   user_case.UserServiceContract
	i18n      internal_i18n.Service
}

// Geschützt mit AuthMiddleware
func NewUserHandler(service user_case.UserServiceContract, i18n internal_i18n.Service) *UserHandler {
	return &UserHandler{
		validator: handlers.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

func (h *UserHandler) FetchUserSelfProfile(c *fiber.Ctx) error {
	// Wir benötigen keine Anfrage, nur die UserID aus c.Locals
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.UserSelfProfile(c.Context(), userID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_get_self", resp)
}

// UpdateSelfProfile ändert Anzeigename und Zimbra-Schalter. Beim Einschalten
// der Synchronisierung werden offene Aufgaben nachträglich eingereiht.
func (h *UserHandler) UpdateSelfProfile(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[user_dto.UpdateSelfProfileRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.UpdateSelfProfile(c.Context(), req, userID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_update_self", resp)
}

func (h *UserHandler) DeactivateSelfUser(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[user_dto.DeactivateSelfUserRequest](c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.DeactivateSelfUser(c.Context(), req, userID); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_deactivate_self", "OK")
}

// ListUsers ist nur für Admins (RequireRoles).
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	query, err := handlers.ParseQuery[user_dto.ListUsersQuery](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ListUsers(c.Context(), query)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_list_users", resp)
}

func (h *UserHandler) SetUserRole(c *fiber.Ctx) error {
	actorID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[user_dto.ParamUserID](c, h.validator)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[user_dto.SetUserRoleRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.SetUserRole(c.Context(), actorID, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_set_role", resp)
}
