package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "7", "Joana Lima", "gerente", "vortex-test", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "Joana Lima", claims.Name)
	assert.Equal(t, "gerente", claims.Role)
	assert.Equal(t, "vortex-test", claims.Issuer)
}

func TestParse_FirmaIncorrectaOExpirado(t *testing.T) {
	tok, err := jwt.Generate("secreto", "7", "Joana", "gerente", "vortex-test", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err)

	expired, err := jwt.Generate("secreto", "7", "Joana", "gerente", "vortex-test", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", expired)
	assert.Error(t, err)

	_, err = jwt.Generate("", "7", "Joana", "gerente", "vortex-test", 5)
	assert.Error(t, err)
}
