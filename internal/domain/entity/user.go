package entity

import "time"

// Role rol de un usuario del sistema.
type Role string

// Roles válidos para User.
const (
	RoleEmployee Role = "funcionario"
	RoleManager  Role = "gerente"
	RoleDev      Role = "dev"
)

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleDev:
		return true
	}
	return false
}

// CanManageUsers gerente y dev administran usuarios.
func (r Role) CanManageUsers() bool {
	return r == RoleManager || r == RoleDev
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string // único
	Phone        string // único
	PasswordHash string // bcrypt; nunca el texto plano
	ResetToken   string // vacío si no hay recuperación en curso
	Role         Role
	CreatedAt    time.Time
}

// Sanitized copia del usuario sin hash ni token, apta para salir del agregado.
func (u *User) Sanitized() User {
	c := *u
	c.PasswordHash = ""
	c.ResetToken = ""
	return c
}
