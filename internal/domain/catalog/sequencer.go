package catalog

import (
	"strconv"
	"strings"
)

// Sequencer genera identificadores numéricos crecientes para un tipo de entidad.
// No es seguro para uso concurrente: el agregado lo usa siempre bajo su lock.
type Sequencer struct {
	last int64
}

// Next avanza la marca y devuelve el nuevo identificador.
func (s *Sequencer) Next() string {
	s.last++
	return strconv.FormatInt(s.last, 10)
}

// Observe registra un identificador existente. Si es numérico y supera la marca, la marca avanza.
// Devuelve false para identificadores no numéricos, que nunca afectan la marca.
func (s *Sequencer) Observe(id string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return false
	}
	if n > s.last {
		s.last = n
	}
	return true
}

// Last devuelve la marca actual (mayor identificador emitido u observado).
func (s *Sequencer) Last() int64 {
	return s.last
}
