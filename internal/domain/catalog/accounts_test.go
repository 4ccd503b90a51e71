package catalog_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/domain"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

func userIn(email, phone string, role entity.Role) catalog.UserInput {
	return catalog.UserInput{
		Name:     "Joana Lima",
		Email:    email,
		Phone:    phone,
		Password: "segredo1",
		Role:     role,
	}
}

func TestEnsureManager_SoloSiNoHayUsuarios(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)
	assert.Equal(t, catalog.RootUserID, admin.UserID)
	assert.Equal(t, entity.RoleManager, admin.Role)

	_, created, err := c.EnsureManager(ctx, userIn("otro@vortex.com", "11911112222", entity.RoleManager))
	require.NoError(t, err)
	assert.False(t, created)
}

// Escenario D.
func TestCreateUser_EmailDuplicado(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)

	_, err := c.CreateUser(ctx, admin, userIn("a@x.com", "11922223333", entity.RoleEmployee))
	require.NoError(t, err)

	_, err = c.CreateUser(ctx, admin, userIn("a@x.com", "11933334444", entity.RoleEmployee))
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = c.CreateUser(ctx, admin, userIn("b@x.com", "(11) 92222-3333", entity.RoleEmployee))
	assert.ErrorIs(t, err, domain.ErrPhoneAlreadyExists, "el teléfono se compara solo por dígitos")
}

func TestCreateUser_Validaciones(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)

	cases := map[string]catalog.UserInput{
		"email inválido":     userIn("no-es-email", "11922223333", entity.RoleEmployee),
		"teléfono corto":     userIn("a@x.com", "9222333", entity.RoleEmployee),
		"rol desconocido":    userIn("a@x.com", "11922223333", entity.Role("root")),
		"contraseña débil":   {Name: "Joana Lima", Email: "a@x.com", Phone: "11922223333", Password: "abcdef", Role: entity.RoleEmployee},
		"contraseña corta":   {Name: "Joana Lima", Email: "a@x.com", Phone: "11922223333", Password: "a1", Role: entity.RoleEmployee},
		"contraseña larga":   {Name: "Joana Lima", Email: "a@x.com", Phone: "11922223333", Password: strings.Repeat("a1", 40), Role: entity.RoleEmployee},
		"nombre obligatorio": {Email: "a@x.com", Phone: "11922223333", Password: "segredo1", Role: entity.RoleEmployee},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.CreateUser(ctx, admin, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Len(t, c.Users(), 1)
}

func TestCreateUser_RolDevSoloPorDev(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)

	_, err := c.CreateUser(ctx, admin, userIn("dev@x.com", "11922223333", entity.RoleDev))
	require.ErrorIs(t, err, domain.ErrDevRoleRequired)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	dev, err := c.CreateUser(ctx, devActor, userIn("dev@x.com", "11922223333", entity.RoleDev))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDev, dev.Role)

	emp, err := c.CreateUser(ctx, admin, userIn("emp@x.com", "11933334444", entity.RoleEmployee))
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, catalog.Actor{UserID: emp.ID}, userIn("x@x.com", "11944445555", entity.RoleEmployee))
	assert.ErrorIs(t, err, domain.ErrManagerRequired)

	_, err = c.CreateUser(ctx, catalog.Actor{UserID: "777", Role: entity.RoleDev}, userIn("y@x.com", "11955556666", entity.RoleEmployee))
	assert.ErrorIs(t, err, domain.ErrUnknownActor, "el rol se toma del directorio, no de la sesión")
}

func TestUpdateUser_ReglasDeRol(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)
	dev, err := c.CreateUser(ctx, devActor, userIn("dev@x.com", "11922223333", entity.RoleDev))
	require.NoError(t, err)
	devSession := catalog.Actor{UserID: dev.ID}

	// El rol de un dev no cambia, ni siquiera por otro dev.
	_, err = c.UpdateUser(ctx, devSession, dev.ID, catalog.UserPatch{Role: ptr(entity.RoleManager)})
	require.ErrorIs(t, err, domain.ErrDevRoleImmutable)

	// Un gerente no edita cuentas dev.
	_, err = c.UpdateUser(ctx, admin, dev.ID, catalog.UserPatch{Name: ptr("Outro Nome")})
	require.ErrorIs(t, err, domain.ErrDevRoleRequired)

	emp, err := c.CreateUser(ctx, admin, userIn("emp@x.com", "11933334444", entity.RoleEmployee))
	require.NoError(t, err)

	// Un gerente no promueve a dev.
	_, err = c.UpdateUser(ctx, admin, emp.ID, catalog.UserPatch{Role: ptr(entity.RoleDev)})
	require.ErrorIs(t, err, domain.ErrDevRoleRequired)

	// Un dev sí.
	got, err := c.UpdateUser(ctx, devSession, emp.ID, catalog.UserPatch{Role: ptr(entity.RoleDev)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDev, got.Role)

	// El último gerente no puede degradarse.
	_, err = c.UpdateUser(ctx, devSession, admin.UserID, catalog.UserPatch{Role: ptr(entity.RoleEmployee)})
	require.ErrorIs(t, err, domain.ErrLastManager)
}

func TestUpdateUser_UnicidadYParcial(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	admin := seedManager(t, c)
	emp, err := c.CreateUser(ctx, admin, userIn("emp@x.com", "11933334444", entity.RoleEmployee))
	require.NoError(t, err)

	_, err = c.UpdateUser(ctx, admin, emp.ID, catalog.UserPatch{Email: ptr("ADMIN@vortex.com")})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// Conservar su propio email no es conflicto.
	got, err := c.UpdateUser(ctx, admin, emp.ID, catalog.UserPatch{
		Email:    ptr("emp@x.com"),
		Name:     ptr("Joana Lima Souza"),
		Password: ptr("nova123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Joana Lima Souza", got.Name)
	assert.Empty(t, got.PasswordHash, "las copias salen sin hash")

	_, err = c.Authenticate(ctx, "emp@x.com", "nova123")
	assert.NoError(t, err)

	_, err = c.UpdateUser(ctx, admin, "404", catalog.UserPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser_Protecciones(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	root := seedManager(t, c)

	// La cuenta raíz no se elimina.
	err := c.DeleteUser(ctx, devActor, root.UserID)
	require.ErrorIs(t, err, domain.ErrRootAccount)

	mgr, err := c.CreateUser(ctx, root, userIn("g2@x.com", "11922223333", entity.RoleManager))
	require.NoError(t, err)
	mgrSession := catalog.Actor{UserID: mgr.ID}

	// Nadie se elimina a sí mismo.
	err = c.DeleteUser(ctx, mgrSession, mgr.ID)
	require.ErrorIs(t, err, domain.ErrSelfDeletion)

	// Con la raíz degradada, mgr es el único gerente y no puede eliminarse.
	_, err = c.UpdateUser(ctx, mgrSession, root.UserID, catalog.UserPatch{Role: ptr(entity.RoleEmployee)})
	require.NoError(t, err)
	err = c.DeleteUser(ctx, devActor, mgr.ID)
	require.ErrorIs(t, err, domain.ErrLastManager)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	emp, err := c.CreateUser(ctx, mgrSession, userIn("emp@x.com", "11933334444", entity.RoleEmployee))
	require.NoError(t, err)
	require.NoError(t, c.DeleteUser(ctx, mgrSession, emp.ID))
	assert.ErrorIs(t, c.DeleteUser(ctx, mgrSession, emp.ID), domain.ErrUserNotFound)
}

func TestAuthenticate_EmailLuegoTelefono(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	seedManager(t, c)

	u, err := c.Authenticate(ctx, "admin@vortex.com", "admin@2025")
	require.NoError(t, err)
	assert.Equal(t, catalog.RootUserID, u.ID)
	assert.Empty(t, u.PasswordHash)

	u, err = c.Authenticate(ctx, "(11) 99999-9999", "admin@2025")
	require.NoError(t, err)
	assert.Equal(t, catalog.RootUserID, u.ID)

	_, errWrong := c.Authenticate(ctx, "admin@vortex.com", "errada1")
	_, errUnknown := c.Authenticate(ctx, "nadie@vortex.com", "admin@2025")
	require.ErrorIs(t, errWrong, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error(), "no distingue usuario inexistente de contraseña incorrecta")
}

// countingHasher cuenta las verificaciones de contraseña.
type countingHasher struct {
	fakeHasher
	verifies int
}

func (h *countingHasher) Verify(pw, hash string) (bool, error) {
	h.verifies++
	return h.fakeHasher.Verify(pw, hash)
}

func TestAuthenticate_CredencialInexistenteTambienVerifica(t *testing.T) {
	h := &countingHasher{}
	c := catalog.New(h)
	ctx := context.Background()
	seedManager(t, c)

	_, err := c.Authenticate(ctx, "nadie@vortex.com", "admin@2025")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 1, h.verifies)

	_, err = c.Authenticate(ctx, "21988887777", "x9-sin-usuario-x9")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 2, h.verifies)

	_, err = c.Authenticate(ctx, "admin@vortex.com", "errada1")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 3, h.verifies)
}

func TestAuthenticate_RegeneraHashHeredado(t *testing.T) {
	store := &memStore{}
	store.snap.Users = []entity.User{{
		ID: "1", Name: "Administrador", Email: "admin@vortex.com", Phone: "11999999999",
		PasswordHash: "legacy:admin@2025", Role: entity.RoleManager, CreatedAt: fixedNow,
	}}
	c := newTestCatalog(t, catalog.WithStore(store))
	ctx := context.Background()
	require.NoError(t, c.Load(ctx))

	_, err := c.Authenticate(ctx, "admin@vortex.com", "admin@2025")
	require.NoError(t, err)
	require.Len(t, store.snap.Users, 1)
	assert.Equal(t, "h:admin@2025", store.snap.Users[0].PasswordHash)

	_, err = c.Authenticate(ctx, "admin@vortex.com", "admin@2025")
	assert.NoError(t, err)
}

// Escenario E.
func TestResetToken_UnSoloUso(t *testing.T) {
	n := 0
	c := newTestCatalog(t, catalog.WithTokenGenerator(func() (string, error) {
		n++
		return fmt.Sprintf("tok-%d", n), nil
	}))
	ctx := context.Background()
	admin := seedManager(t, c)
	emp, err := c.CreateUser(ctx, admin, userIn("emp@x.com", "11933334444", entity.RoleEmployee))
	require.NoError(t, err)

	_, first, err := c.IssueResetToken(ctx, "emp@x.com")
	require.NoError(t, err)
	u, second, err := c.IssueResetToken(ctx, "11933334444")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, u.ID)
	assert.Empty(t, u.ResetToken, "la copia no expone el token")
	assert.NotEqual(t, first, second)

	// El token anterior quedó reemplazado.
	_, err = c.ConsumeResetToken(ctx, first, "nova123")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	_, err = c.ConsumeResetToken(ctx, second, "nova123")
	require.NoError(t, err)
	_, err = c.Authenticate(ctx, "emp@x.com", "nova123")
	require.NoError(t, err)

	_, err = c.ConsumeResetToken(ctx, second, "outra123")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = c.ConsumeResetToken(ctx, "", "outra123")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestResetToken_CuentasDevExcluidas(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	seedManager(t, c)
	_, err := c.CreateUser(ctx, devActor, userIn("dev@x.com", "11922223333", entity.RoleDev))
	require.NoError(t, err)

	_, _, err = c.IssueResetToken(ctx, "dev@x.com")
	require.ErrorIs(t, err, domain.ErrResetNotPermitted)

	_, _, err = c.IssueResetToken(ctx, "nadie@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUsers_SinDatosSensibles(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	seedManager(t, c)
	_, _, err := c.IssueResetToken(ctx, "admin@vortex.com")
	require.NoError(t, err)

	for _, u := range c.Users() {
		assert.Empty(t, u.PasswordHash)
		assert.Empty(t, u.ResetToken)
	}
	require.NoError(t, c.CheckPassword(catalog.RootUserID, "admin@2025"))
	assert.ErrorIs(t, c.CheckPassword(catalog.RootUserID, "errada1"), domain.ErrInvalidCredentials)
}

func TestValidatePassword_LimiteDeBytes(t *testing.T) {
	assert.NoError(t, catalog.ValidatePassword("a1"+strings.Repeat("x", 70)))
	assert.ErrorIs(t, catalog.ValidatePassword("a1"+strings.Repeat("x", 71)), domain.ErrInvalidInput)
	// 36 runas de 2 bytes: el límite es en bytes.
	assert.ErrorIs(t, catalog.ValidatePassword("1"+strings.Repeat("ç", 36)), domain.ErrInvalidInput)
}
