package admin_handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	admin_dto "github.com/neolist/neolist/internal/dtos/admin-dto"
	"github.com/neolist/neolist/internal/handlers"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	admin_case "github.com/neolist/neolist/internal/use-cases/admin-case"
)

// AdminHandler: nur hinter RequireRoles("admin") einhängen.
type AdminHandler struct {
	validator *validator.Validate
	service   admin_case.AdminServiceContract
	i18n      internal_i18n.Service
}

func NewAdminHandler(service admin_case.AdminServiceContract, i18n internal_i18n.Service) *AdminHandler {
	return &AdminHandler{
		validator: handlers.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

// ForceSync gleicht alle Zugewiesenen einer Aufgabe sofort mit Zimbra ab.
func (h *AdminHandler) ForceSync(c *fiber.Ctx) error {
	param, err := handlers.ParseParams[admin_dto.ParamTaskID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ForceSync(c.Context(), param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_force_sync", resp)
}

func (h *AdminHandler) ListQueueEntries(c *fiber.Ctx) error {
	query, err := handlers.ParseQuery[admin_dto.ListQueueQuery](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.ListQueueEntries(c.Context(), query)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_list_queue", resp)
}

func (h *AdminHandler) QueueStats(c *fiber.Ctx) error {
	resp, err := h.service.QueueStats(c.Context())
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_queue_stats", resp)
}

func (h *AdminHandler) RetryEntry(c *fiber.Ctx) error {
	param, err := handlers.ParseParams[admin_dto.ParamEntryID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.RetryEntry(c.Context(), param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_retry_entry", resp)
}

func (h *AdminHandler) TriggerDrain(c *fiber.Ctx) error {
	if err := h.service.TriggerDrain(c.Context()); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusAccepted, "response.success_trigger_drain", "OK")
}
