package auth_dto

import "time"

// AuthTokenResponse wird nach Registrierung und Anmeldung zurückgegeben.
type AuthTokenResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ListAllUserDevicesResponse struct {
	SessionID string    `json:"session_id"`
	Device    string    `json:"device"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	LoginAt   time.Time `json:"login_at"`
	Current   bool      `json:"current"`
}
