package catalog_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
)

func TestSequencer_NextEsEstrictamenteCreciente(t *testing.T) {
	var s catalog.Sequencer
	prev := int64(0)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := s.Next()
		n, err := strconv.ParseInt(id, 10, 64)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		assert.False(t, seen[id], "id repetido %s", id)
		seen[id] = true
		prev = n
	}
}

func TestSequencer_ObserveAvanzaPeroNuncaRetrocede(t *testing.T) {
	var s catalog.Sequencer
	assert.True(t, s.Observe("7"))
	assert.Equal(t, int64(7), s.Last())

	assert.True(t, s.Observe("3"))
	assert.Equal(t, int64(7), s.Last(), "un id menor no baja la marca")

	assert.True(t, s.Observe("7"))
	assert.Equal(t, int64(7), s.Last(), "observar dos veces es idempotente")

	assert.Equal(t, "8", s.Next())
}

func TestSequencer_IdsNoNumericosNoAfectanLaMarca(t *testing.T) {
	var s catalog.Sequencer
	s.Observe("2")
	assert.False(t, s.Observe("legacy-abc"))
	assert.False(t, s.Observe(""))
	assert.Equal(t, int64(2), s.Last())
	assert.Equal(t, "3", s.Next())
}
