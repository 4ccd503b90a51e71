package dto

import "github.com/jhoicas/vortex-catalogo/internal/domain/entity"

// CreateUserRequest entrada para crear un usuario (senha en texto, se hashea en el catálogo).
type CreateUserRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Phone    string `json:"telefone"`
	Password string `json:"senha"`
	Role     string `json:"tipo"`
}

// UpdateUserRequest actualización parcial de un usuario.
type UpdateUserRequest struct {
	Name     *string `json:"nome"`
	Email    *string `json:"email"`
	Phone    *string `json:"telefone"`
	Password *string `json:"senha"`
	Role     *string `json:"tipo"`
}

// VerifyPasswordRequest contraseña del usuario autenticado.
type VerifyPasswordRequest struct {
	Password string `json:"senha"`
}

// VerifyPasswordResponse resultado de la verificación.
type VerifyPasswordResponse struct {
	Success bool `json:"sucesso"`
}

// UserResponse salida de un usuario (sin hash ni token).
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Phone     string `json:"telefone"`
	Role      string `json:"tipo"`
	CreatedAt string `json:"data_criacao"`
}

// NewUserResponse convierte la entidad.
func NewUserResponse(u entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: formatTime(u.CreatedAt),
	}
}
