package numeric_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/pkg/numeric"
)

func TestInt_AceptaNumeroYTexto(t *testing.T) {
	for raw, want := range map[string]int{`5`: 5, `"7"`: 7, `3.0`: 3, `" 12 "`: 12, `-4`: -4} {
		var n numeric.Int
		require.NoError(t, json.Unmarshal([]byte(raw), &n), raw)
		assert.Equal(t, want, int(n), raw)
	}
	for _, raw := range []string{`1.5`, `"abc"`, `true`, `18446744073709551617`, `18446744073709551621`, `"9223372036854775808"`, `-9223372036854775809`, `1e30`} {
		var n numeric.Int
		assert.Error(t, json.Unmarshal([]byte(raw), &n), raw)
	}
}

func TestDecimal_SeEscribeComoNumero(t *testing.T) {
	var d numeric.Decimal
	require.NoError(t, json.Unmarshal([]byte(`"1999.99"`), &d))
	assert.True(t, decimal.RequireFromString("1999.99").Equal(d.Decimal))

	out, err := json.Marshal(struct {
		Preco numeric.Decimal `json:"preco"`
	}{numeric.NewDecimal(decimal.RequireFromString("10.50"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"preco":10.5}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"caro"`), &d))
}

func TestInt_LimitesDeRango(t *testing.T) {
	var n numeric.Int
	require.NoError(t, json.Unmarshal([]byte(`9223372036854775807`), &n))
	assert.Equal(t, math.MaxInt, int(n))
	require.NoError(t, json.Unmarshal([]byte(`9223372036854775807.0`), &n))
	assert.Equal(t, math.MaxInt, int(n))

	err := json.Unmarshal([]byte(`9223372036854775808.0`), &n)
	assert.ErrorContains(t, err, "fuera de rango")
}
