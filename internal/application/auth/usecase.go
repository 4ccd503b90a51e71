package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Authenticator operaciones del catálogo que usa la autenticación.
type Authenticator interface {
	Authenticate(ctx context.Context, credential, password string) (entity.User, error)
	IssueResetToken(ctx context.Context, credential string) (entity.User, string, error)
	ConsumeResetToken(ctx context.Context, token, newPassword string) (entity.User, error)
}

// AuthUseCase casos de uso de autenticación: login y recuperación de contraseña.
type AuthUseCase struct {
	accounts         Authenticator
	jwtCfg           JWTConfig
	exposeResetToken bool
	log              zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth. Con exposeResetToken el token de
// recuperación vuelve en la respuesta (no hay envío de email).
func NewAuthUseCase(accounts Authenticator, jwtCfg JWTConfig, exposeResetToken bool, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, jwtCfg: jwtCfg, exposeResetToken: exposeResetToken, log: log}
}

// Login verifica credencial (email o teléfono) y contraseña, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if strings.TrimSpace(in.Credential) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: informe credencial y contraseña", domain.ErrInvalidInput)
	}
	user, err := uc.accounts.Authenticate(ctx, in.Credential, in.Password)
	if err != nil {
		uc.log.Warn().Str("credencial", maskCredential(in.Credential)).Msg("login fallido")
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: generar token: %w", domain.ErrInternal, err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("tipo", string(user.Role)).Msg("login exitoso")
	return &dto.LoginResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// ForgotPassword emite un token de recuperación para la credencial.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	if strings.TrimSpace(in.Credential) == "" {
		return nil, fmt.Errorf("%w: informe email o teléfono", domain.ErrInvalidInput)
	}
	user, token, err := uc.accounts.IssueResetToken(ctx, in.Credential)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("token de recuperación emitido")

	resp := &dto.ForgotPasswordResponse{
		Message: "Um link para redefinição de senha foi enviado. Verifique seu email ou telefone.",
	}
	if uc.exposeResetToken {
		resp.Token = token
	}
	return resp, nil
}

// ResetPassword define la nueva contraseña con el token de recuperación.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	if in.Password == "" || in.ConfirmPassword == "" {
		return nil, fmt.Errorf("%w: complete todos los campos", domain.ErrInvalidInput)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidInput)
	}
	user, err := uc.accounts.ConsumeResetToken(ctx, in.Token, in.Password)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña redefinida")
	return &dto.MessageResponse{Message: "Senha redefinida com sucesso"}, nil
}

// maskCredential deja visible solo el dominio de un email o los 2 últimos dígitos de un teléfono.
func maskCredential(credential string) string {
	credential = strings.TrimSpace(credential)
	if at := strings.LastIndex(credential, "@"); at >= 0 {
		return "***" + credential[at:]
	}
	digits := catalog.DigitsOnly(credential)
	if len(digits) <= 2 {
		return "***"
	}
	return "***" + digits[len(digits)-2:]
}
