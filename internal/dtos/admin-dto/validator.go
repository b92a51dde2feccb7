package admin_dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/neolist/neolist/internal/entity"
)

func IsValidSyncStatus(fl validator.FieldLevel) bool {
	return entity.SyncStatus(fl.Field().String()).IsValid()
}
