package catalog

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// RootUserID cuenta raíz: nunca puede eliminarse.
const RootUserID = "1"

// Actor usuario que ejecuta la operación. Con UserID vacío se confía en Role (procesos internos).
type Actor struct {
	UserID string
	Role   entity.Role
}

// UserInput datos para crear un usuario.
type UserInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     entity.Role
}

// UserPatch actualización parcial de un usuario: los campos nil no se modifican.
type UserPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Role     *entity.Role
}

// AccountDirectory es dueño de la colección de usuarios. Trabaja con hashes ya calculados:
// el hashing ocurre fuera del lock del agregado.
type AccountDirectory struct {
	seq      Sequencer
	items    []*entity.User
	byID     map[string]*entity.User
	now      func() time.Time
	newToken func() (string, error)
}

// NewAccountDirectory crea un directorio vacío.
func NewAccountDirectory(now func() time.Time, newToken func() (string, error)) *AccountDirectory {
	if now == nil {
		now = time.Now
	}
	if newToken == nil {
		newToken = generateToken
	}
	return &AccountDirectory{byID: make(map[string]*entity.User), now: now, newToken: newToken}
}

// Create agrega un usuario. passwordHash ya debe estar calculado.
func (d *AccountDirectory) Create(actor Actor, in UserInput, passwordHash string) (*entity.User, error) {
	actor, err := d.resolve(actor)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageUsers() {
		return nil, domain.ErrManagerRequired
	}
	if in.Role == entity.RoleDev && actor.Role != entity.RoleDev {
		return nil, domain.ErrDevRoleRequired
	}
	return d.insert(in, passwordHash)
}

// Update aplica una actualización parcial. passwordHash vacío deja la contraseña como está.
func (d *AccountDirectory) Update(actor Actor, id string, patch UserPatch, passwordHash string) (*entity.User, error) {
	actor, err := d.resolve(actor)
	if err != nil {
		return nil, err
	}
	if !actor.Role.CanManageUsers() {
		return nil, domain.ErrManagerRequired
	}
	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Role == entity.RoleDev && actor.Role != entity.RoleDev {
		return nil, domain.ErrDevRoleRequired
	}

	var email, phone string
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if patch.Email != nil {
		email = strings.TrimSpace(*patch.Email)
		if err := ValidateEmail(email); err != nil {
			return nil, err
		}
	}
	if patch.Phone != nil {
		phone = strings.TrimSpace(*patch.Phone)
		if err := ValidatePhone(phone); err != nil {
			return nil, err
		}
	}
	if patch.Role != nil && *patch.Role != u.Role {
		role := *patch.Role
		switch {
		case !role.Valid():
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, role)
		case u.Role == entity.RoleDev:
			return nil, domain.ErrDevRoleImmutable
		case role == entity.RoleDev && actor.Role != entity.RoleDev:
			return nil, domain.ErrDevRoleRequired
		case u.Role == entity.RoleManager && d.countRole(entity.RoleManager) == 1:
			return nil, domain.ErrLastManager
		}
	}
	if err := d.checkUnique(id, email, phone); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		u.Email = email
	}
	if patch.Phone != nil {
		u.Phone = DigitsOnly(phone)
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if passwordHash != "" {
		u.PasswordHash = passwordHash
	}
	return u, nil
}

// Delete elimina un usuario respetando cuenta raíz, auto-eliminación y último gerente.
func (d *AccountDirectory) Delete(actor Actor, id string) error {
	actor, err := d.resolve(actor)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageUsers() {
		return domain.ErrManagerRequired
	}
	u, ok := d.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	switch {
	case id == RootUserID:
		return domain.ErrRootAccount
	case actor.UserID != "" && actor.UserID == id:
		return domain.ErrSelfDeletion
	case u.Role == entity.RoleDev && actor.Role != entity.RoleDev:
		return domain.ErrDevRoleRequired
	case u.Role == entity.RoleManager && d.countRole(entity.RoleManager) == 1:
		return domain.ErrLastManager
	}
	delete(d.byID, id)
	for i, it := range d.items {
		if it.ID == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			break
		}
	}
	return nil
}

// FindByCredential busca por email y, si no hay coincidencia, por teléfono.
func (d *AccountDirectory) FindByCredential(credential string) (*entity.User, bool) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, false
	}
	for _, u := range d.items {
		if strings.EqualFold(u.Email, credential) {
			return u, true
		}
	}
	digits := DigitsOnly(credential)
	if digits == "" || IsEmail(credential) {
		return nil, false
	}
	for _, u := range d.items {
		if DigitsOnly(u.Phone) == digits {
			return u, true
		}
	}
	return nil, false
}

// IssueResetToken genera un token nuevo que reemplaza al anterior.
func (d *AccountDirectory) IssueResetToken(credential string) (*entity.User, error) {
	u, ok := d.FindByCredential(credential)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Role == entity.RoleDev {
		return nil, domain.ErrResetNotPermitted
	}
	token, err := d.newToken()
	if err != nil {
		return nil, fmt.Errorf("%w: generando token: %w", domain.ErrInternal, err)
	}
	u.ResetToken = token
	return u, nil
}

// ConsumeResetToken cambia la contraseña del dueño del token y lo elimina.
func (d *AccountDirectory) ConsumeResetToken(token, passwordHash string) (*entity.User, error) {
	u, ok := d.findByToken(token)
	if !ok || u.Role == entity.RoleDev {
		return nil, domain.ErrTokenNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = ""
	return u, nil
}

// SetPasswordHash reemplaza el hash de un usuario (migración de hashes heredados).
func (d *AccountDirectory) SetPasswordHash(id, passwordHash string) (*entity.User, error) {
	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return u, nil
}

// Get devuelve el usuario vivo.
func (d *AccountDirectory) Get(id string) (*entity.User, bool) {
	u, ok := d.byID[id]
	return u, ok
}

// Len cantidad de usuarios.
func (d *AccountDirectory) Len() int { return len(d.items) }

// Snapshot copia completa (con hash y token) para persistencia.
func (d *AccountDirectory) Snapshot() []entity.User {
	out := make([]entity.User, 0, len(d.items))
	for _, u := range d.items {
		out = append(out, *u)
	}
	return out
}

// Reset reemplaza la colección y observa cada id.
func (d *AccountDirectory) Reset(users []entity.User) (nonNumeric, duplicates []string) {
	d.items = make([]*entity.User, 0, len(users))
	d.byID = make(map[string]*entity.User, len(users))
	for i := range users {
		u := users[i]
		if _, dup := d.byID[u.ID]; dup {
			duplicates = append(duplicates, u.ID)
			continue
		}
		if !d.seq.Observe(u.ID) {
			nonNumeric = append(nonNumeric, u.ID)
		}
		d.items = append(d.items, &u)
		d.byID[u.ID] = &u
	}
	return nonNumeric, duplicates
}

func (d *AccountDirectory) insert(in UserInput, passwordHash string) (*entity.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if err := validateAccount(name, email, phone, in.Role); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: hash de contraseña vacío", domain.ErrInternal)
	}
	if err := d.checkUnique("", email, phone); err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           d.nextID(),
		Name:         name,
		Email:        email,
		Phone:        DigitsOnly(phone),
		PasswordHash: passwordHash,
		Role:         in.Role,
		CreatedAt:    d.now(),
	}
	d.items = append(d.items, u)
	d.byID[u.ID] = u
	return u, nil
}

// resolve toma el rol vigente del actor desde el directorio, no el que trae la sesión.
func (d *AccountDirectory) resolve(actor Actor) (Actor, error) {
	if actor.UserID == "" {
		return actor, nil
	}
	u, ok := d.byID[actor.UserID]
	if !ok {
		return Actor{}, domain.ErrUnknownActor
	}
	return Actor{UserID: u.ID, Role: u.Role}, nil
}

// checkUnique verifica email y teléfono contra los demás usuarios; un valor vacío no se verifica.
func (d *AccountDirectory) checkUnique(selfID, email, phone string) error {
	digits := DigitsOnly(phone)
	for _, u := range d.items {
		if u.ID == selfID {
			continue
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return domain.ErrEmailAlreadyExists
		}
		if digits != "" && DigitsOnly(u.Phone) == digits {
			return domain.ErrPhoneAlreadyExists
		}
	}
	return nil
}

func (d *AccountDirectory) countRole(role entity.Role) int {
	n := 0
	for _, u := range d.items {
		if u.Role == role {
			n++
		}
	}
	return n
}

func (d *AccountDirectory) findByToken(token string) (*entity.User, bool) {
	if token == "" {
		return nil, false
	}
	for _, u := range d.items {
		if u.ResetToken != "" && subtle.ConstantTimeCompare([]byte(u.ResetToken), []byte(token)) == 1 {
			return u, true
		}
	}
	return nil, false
}

func (d *AccountDirectory) nextID() string {
	for {
		id := d.seq.Next()
		if _, taken := d.byID[id]; !taken {
			return id
		}
	}
}

func validateAccount(name, email, phone string, role entity.Role) error {
	if name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	if !role.Valid() {
		return fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, role)
	}
	return nil
}
