package admin_dto

type ParamTaskID struct {
	ID string `params:"task_id" validate:"required,uuid"`
}

type ParamEntryID struct {
	ID string `params:"entry_id" validate:"required,uuid"`
}

type ListQueueQuery struct {
	Status string `query:"status" validate:"omitempty,syncStatus"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
}
