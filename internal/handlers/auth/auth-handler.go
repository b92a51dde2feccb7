package auth_handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	auth_dto "github.com/neolist/neolist/internal/dtos/auth-dto"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/handlers"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	auth_case "github.com/neolist/neolist/internal/use-cases/auth-case"
)

type AuthHandler struct {
	validator *validator.Validate
	service   auth_case.AuthServiceContract
	i18n      internal_i18n.Service
}

func NewAuthHandler(service auth_case.AuthServiceContract, i18n internal_i18n.Service) *AuthHandler {
	return &AuthHandler{
		validator: handlers.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

// RegisterUser behandelt die Registrierung eines neuen Benutzers und meldet ihn direkt an.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	// 1. Anfrage parsen und validieren
	req, err := handlers.ParseBody[auth_dto.RegisterUserRequest](c, h.validator)
	if err != nil {
		return err
	}

	// 2. Service aufrufen
	resp, err := h.service.RegisterUser(c.Context(), req, loginMetadata(c))
	if err != nil {
		return err
	}

	// 3. Antwort zurückgeben
	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_register", resp)
}

// LoginUser behandelt die Anmeldung eines Benutzers.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	// 1. Anfrage parsen und validieren
	req, err := handlers.ParseBody[auth_dto.LoginUserRequest](c, h.validator)
	if err != nil {
		return err
	}

	// 2. Service mit Login-Metadaten aufrufen
	resp, err := h.service.LoginUser(c.Context(), req, loginMetadata(c))
	if err != nil {
		return err
	}

	// 3. Antwort zurückgeben
	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_login", resp)
}

// LogoutUser beendet die Sitzung des aktuellen Geräts.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	// Keine Anfrage nötig, die JTI kommt aus c.Locals
	jti, ok := c.Locals("jti").(string)
	if !ok || jti == "" {
		return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", nil)
	}

	if err := h.service.LogoutUser(c.Context(), jti); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_logout", "OK")
}

// ListAllUserDevices listet alle aktiven Sitzungen des Benutzers auf.
// Erwartet "user_id" und "jti" in c.Locals.
func (h *AuthHandler) ListAllUserDevices(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}
	jti, _ := c.Locals("jti").(string)

	devices, err := h.service.ListAllUserDevices(c.Context(), userID, jti)
	if err != nil {
		return err
	}

	webResp := handlers.CreateResponse(
		h.i18n.T(handlers.GetLang(c), "response.success_list_device", nil),
		map[string]any{"devices": devices},
		handlers.GetRequestID(c),
		map[string]any{"count_devices": len(devices)},
	)
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "response.write_failed", err)
	}
	return nil
}

func (h *AuthHandler) LogoutAllDevices(c *fiber.Ctx) error {
	userID, err := handlers.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.LogoutAllDevices(c.Context(), userID); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_logout_all", "OK")
}

func loginMetadata(c *fiber.Ctx) auth_dto.LoginMetadata {
	ua := c.Get(fiber.HeaderUserAgent)
	if ua == "" {
		ua = "Unknown-Client"
	}

	device := c.Get("X-Device-Name")
	if device == "" {
		device = detectDeviceType(ua)
	}

	return auth_dto.LoginMetadata{
		UserAgent: ua,
		Device:    device,
		IP:        c.IP(),
	}
}
