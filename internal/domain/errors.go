package domain

import "errors"

// Errores base por tipo. Todo error de dominio envuelve exactamente uno de ellos,
// de modo que las capas externas pueden decidir con errors.Is o KindOf.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrForbidden    = errors.New("acceso denegado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrInternal     = errors.New("error interno")
)

// Errores específicos del catálogo.
var (
	ErrProductNotFound = newError(ErrNotFound, "producto no encontrado")
	ErrOrderNotFound   = newError(ErrNotFound, "pedido no encontrado")
	ErrUserNotFound    = newError(ErrNotFound, "usuario no encontrado")
	ErrTokenNotFound   = newError(ErrNotFound, "token de recuperación inválido o ya utilizado")

	ErrInsufficientStock     = newError(ErrConflict, "stock insuficiente")
	ErrProductInPendingOrder = newError(ErrConflict, "el producto está en pedidos pendientes")
	ErrOrderPending          = newError(ErrConflict, "un pedido pendiente no puede eliminarse")
	ErrEmailAlreadyExists    = newError(ErrConflict, "el email ya está registrado")
	ErrPhoneAlreadyExists    = newError(ErrConflict, "el teléfono ya está registrado")
	ErrLastManager           = newError(ErrConflict, "debe existir al menos un gerente")
	ErrSelfDeletion          = newError(ErrConflict, "no es posible eliminar la propia cuenta")

	ErrDevRoleRequired   = newError(ErrForbidden, "solo un usuario dev puede asignar el rol dev")
	ErrDevRoleImmutable  = newError(ErrForbidden, "el rol de un usuario dev no puede modificarse")
	ErrManagerRequired   = newError(ErrForbidden, "se requiere rol gerente o dev")
	ErrRootAccount       = newError(ErrForbidden, "la cuenta raíz no puede eliminarse")
	ErrResetNotPermitted = newError(ErrForbidden, "la recuperación de contraseña no está disponible para esta cuenta")

	ErrInvalidCredentials = newError(ErrUnauthorized, "credenciales inválidas")
	ErrUnknownActor       = newError(ErrUnauthorized, "la sesión no corresponde a un usuario existente")
)

// Kind clasifica un error de dominio.
type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindForbidden       Kind = "FORBIDDEN"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindInternal        Kind = "INTERNAL"
)

// KindOf devuelve el tipo de err. Cualquier error no clasificado se considera interno.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

type domainError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }
