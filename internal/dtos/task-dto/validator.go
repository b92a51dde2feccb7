package task_dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/neolist/neolist/internal/entity"
)

func IsValidTaskPriority(fl validator.FieldLevel) bool {
	return entity.TaskPriority(fl.Field().String()).IsValid()
}
