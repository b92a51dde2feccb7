package folder_dto

type ParamFolderID struct {
	ID string `params:"folder_id" validate:"required,uuid"`
}

type ParamListID struct {
	ID string `params:"list_id" validate:"required,uuid"`
}

type ParamMemberID struct {
	ListID string `params:"list_id" validate:"required,uuid"`
	UserID string `params:"user_id" validate:"required,uuid"`
}

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type CreateListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type ShareListRequest struct {
	Email string `json:"email" validate:"required,email"`
}
