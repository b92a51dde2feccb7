package folder_handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	folder_dto "github.com/neolist/neolist/internal/dtos/folder-dto"
	"github.com/neolist/neolist/internal/handlers"
	internal_i18n "github.com/neolist/neolist/internal/i18n"
	folder_case "github.com/neolist/neolist/internal/use-cases/folder-case"
)

// FolderHandler bedient Ordner und Listen. Sichtbarkeit regelt die Datenbank
// über RLS, der Handler reicht nur den Aufrufer durch.
type FolderHandler struct {
	validator *validator.Validate
	service   folder_case.FolderServiceContract
	i18n      internal_i18n.Service
}

func NewFolderHandler(service folder_case.FolderServiceContract, i18n internal_i18n.Service) *FolderHandler {
	return &FolderHandler{
		validator: handlers.NewValidator(),
		service:   service,
		i18n:      i18n,
	}
}

func (h *FolderHandler) CreateFolder(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[folder_dto.CreateFolderRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.CreateFolder(c.Context(), actor, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_create_folder", resp)
}

func (h *FolderHandler) ListFolders(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ListFolders(c.Context(), actor)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_list_folders", resp)
}

func (h *FolderHandler) GetFolder(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamFolderID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetFolder(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_fetch_folder", resp)
}

func (h *FolderHandler) RenameFolder(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamFolderID](c, h.validator)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[folder_dto.RenameRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.RenameFolder(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_rename_folder", resp)
}

// DeleteFolder löscht den Ordner samt Listen und Aufgaben. Die Antwort nennt die
// Anzahl eingereihter Zimbra-Löschungen.
func (h *FolderHandler) DeleteFolder(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamFolderID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.DeleteFolder(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_delete_folder", resp)
}

func (h *FolderHandler) CreateList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamFolderID](c, h.validator)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[folder_dto.CreateListRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.CreateList(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusCreated, "response.success_create_list", resp)
}

func (h *FolderHandler) GetList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.GetList(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_fetch_list", resp)
}

func (h *FolderHandler) RenameList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[folder_dto.RenameRequest](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.RenameList(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_rename_list", resp)
}

func (h *FolderHandler) DeleteList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	resp, err := h.service.DeleteList(c.Context(), actor, param.ID)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_delete_list", resp)
}

func (h *FolderHandler) ShareList(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamListID](c, h.validator)
	if err != nil {
		return err
	}

	req, err := handlers.ParseBody[folder_dto.ShareListRequest](c, h.validator)
	if err != nil {
		return err
	}

	members, err := h.service.ShareList(c.Context(), actor, param.ID, req)
	if err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_share_list", map[string]any{"members": members})
}

func (h *FolderHandler) RemoveMember(c *fiber.Ctx) error {
	actor, err := handlers.GetActor(c)
	if err != nil {
		return err
	}

	param, err := handlers.ParseParams[folder_dto.ParamMemberID](c, h.validator)
	if err != nil {
		return err
	}

	if err := h.service.RemoveMember(c.Context(), actor, param.ListID, param.UserID); err != nil {
		return err
	}

	return handlers.Respond(c, h.i18n, fiber.StatusOK, "response.success_remove_member", "OK")
}
