package entity

import "time"

// UserEntity repräsentiert die Benutzerdaten in der Datenbank.
type UserEntity struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	DisplayName       string     `json:"display_name"`
	PasswordHash      string     `json:"-"`
	Role              UserRole   `json:"role"`
	ZimbraSyncEnabled bool       `json:"zimbra_sync_enabled"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

func (u UserRole) IsValid() bool {
	switch u {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Actor ist der authentifizierte Aufrufer einer Operation.
type Actor struct {
	UserID string
	Email  string
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
