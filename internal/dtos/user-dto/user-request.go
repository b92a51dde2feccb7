package user_dto

type ParamUserID struct {
	ID string `params:"user_id" validate:"required,uuid"`
}

// UpdateSelfProfileRequest: mindestens ein Feld muss gesetzt sein.
type UpdateSelfProfileRequest struct {
	DisplayName       *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	ZimbraSyncEnabled *bool   `json:"zimbra_sync_enabled,omitempty"`
}

type DeactivateSelfUserRequest struct {
	Password string `json:"password" validate:"required"`
}

type SetUserRoleRequest struct {
	Role string `json:"role" validate:"required,userRole"`
}

type ListUsersQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}
