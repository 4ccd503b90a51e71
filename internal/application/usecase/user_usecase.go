package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// UserUseCase casos de uso de gestión de usuarios. actorID es el usuario autenticado:
// su rol vigente lo resuelve el catálogo.
type UserUseCase struct {
	catalog UserCatalog
	views   ViewCache
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(c UserCatalog, views ViewCache) *UserUseCase {
	return &UserUseCase{catalog: c, views: views}
}

// List devuelve los usuarios sin datos sensibles.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	return cachedView(ctx, uc.views, ports.CacheKeyUsers, func() ([]dto.UserResponse, error) {
		users := uc.catalog.Users()
		out := make([]dto.UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, dto.NewUserResponse(u))
		}
		return out, nil
	})
}

// GetByID obtiene un usuario.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	u, err := uc.catalog.User(id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// Create crea un usuario en nombre de actorID.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	u, err := uc.catalog.CreateUser(ctx, catalog.Actor{UserID: actorID}, catalog.UserInput{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
		Role:     entity.Role(strings.TrimSpace(in.Role)),
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// Update actualiza parcialmente un usuario en nombre de actorID.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	patch := catalog.UserPatch{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	}
	if in.Role != nil {
		role := entity.Role(strings.TrimSpace(*in.Role))
		patch.Role = &role
	}
	// Una contraseña vacía en la edición significa "no cambiar".
	if patch.Password != nil && *patch.Password == "" {
		patch.Password = nil
	}
	u, err := uc.catalog.UpdateUser(ctx, catalog.Actor{UserID: actorID}, id, patch)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// Delete elimina un usuario en nombre de actorID.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	return uc.catalog.DeleteUser(ctx, catalog.Actor{UserID: actorID}, id)
}

// VerifyPassword confirma la contraseña del usuario autenticado antes de una operación sensible.
func (uc *UserUseCase) VerifyPassword(actorID string, in dto.VerifyPasswordRequest) (*dto.VerifyPasswordResponse, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es obligatoria", domain.ErrInvalidInput)
	}
	if err := uc.catalog.CheckPassword(actorID, in.Password); err != nil {
		return nil, err
	}
	return &dto.VerifyPasswordResponse{Success: true}, nil
}
