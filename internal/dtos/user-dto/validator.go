package user_dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/neolist/neolist/internal/entity"
)

func IsValidUserRole(fl validator.FieldLevel) bool {
	return entity.UserRole(fl.Field().String()).IsValid()
}
