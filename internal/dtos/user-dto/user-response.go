package user_dto

import (
	"time"

	"github.com/neolist/neolist/internal/dtos"
	"github.com/neolist/neolist/internal/entity"
)

type UserProfileResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	DisplayName       string     `json:"display_name"`
	Role              string     `json:"role"`
	ZimbraSyncEnabled bool       `json:"zimbra_sync_enabled"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at,omitzero"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

func NewUserProfileResponse(u *entity.UserEntity) *UserProfileResponse {
	return &UserProfileResponse{
		ID:                u.ID,
		Email:             u.Email,
		DisplayName:       u.DisplayName,
		Role:              string(u.Role),
		ZimbraSyncEnabled: u.ZimbraSyncEnabled,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// UpdateSelfProfileResponse meldet zusätzlich, wie viele Sync-Einträge durch
// das Einschalten der Synchronisierung entstanden sind.
type UpdateSelfProfileResponse struct {
	Profile       *UserProfileResponse `json:"profile"`
	QueuedSyncOps int                  `json:"queued_sync_ops"`
}

type ListUsersResponse struct {
	Users      []UserProfileResponse `json:"users"`
	Pagination dtos.PaginationMeta   `json:"pagination"`
}
