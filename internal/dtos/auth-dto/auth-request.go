package auth_dto

// RegisterUserRequest repräsentiert die Daten, die für die Registrierung eines Benutzers benötigt werden.
type RegisterUserRequest struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	DisplayName     string `json:"display_name" validate:"required,min=2,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginMetadata struct {
	UserAgent string
	Device    string
	IP        string
}
