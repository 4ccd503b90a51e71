package dto

// LoginRequest credencial (email o teléfono) y contraseña.
type LoginRequest struct {
	Credential string `json:"credencial"`
	Password   string `json:"senha"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}

// ForgotPasswordRequest credencial de la cuenta a recuperar.
type ForgotPasswordRequest struct {
	Credential string `json:"credencial"`
}

// ForgotPasswordResponse Token solo se incluye si la exposición está habilitada en la configuración.
type ForgotPasswordResponse struct {
	Message string `json:"mensagem"`
	Token   string `json:"token,omitempty"`
}

// ResetPasswordRequest token de recuperación y nueva contraseña.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"senha"`
	ConfirmPassword string `json:"confirmar_senha"`
}
