package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
)

// Generations generación del catálogo; cambia con cada escritura confirmada.
type Generations interface {
	Generation() uint64
}

// ViewCache caché de las vistas de lectura. Con Cache nil las vistas se construyen siempre.
// Un fallo de la caché nunca falla la lectura: se registra y se construye la vista.
// Con Generations, una vista construida mientras se confirmaba una escritura se descarta
// después de guardarla, porque la invalidación de esa escritura pudo llegar antes.
type ViewCache struct {
	Cache       ports.Cache
	TTL         time.Duration
	Log         zerolog.Logger
	Generations Generations
}

func cachedView[T any](ctx context.Context, vc ViewCache, key string, build func() (T, error)) (T, error) {
	if vc.Cache == nil {
		return build()
	}
	raw, found, err := vc.Cache.Get(ctx, key)
	switch {
	case err != nil:
		vc.Log.Warn().Err(err).Str("key", key).Msg("caché no disponible")
	case found:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		vc.Log.Warn().Str("key", key).Msg("entrada de caché ilegible")
	}

	var before uint64
	if vc.Generations != nil {
		before = vc.Generations.Generation()
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	raw, err = json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := vc.Cache.Set(ctx, key, raw, vc.TTL); err != nil {
		vc.Log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
		return v, nil
	}
	if vc.Generations != nil && vc.Generations.Generation() != before {
		if err := vc.Cache.DeleteByPrefix(ctx, key); err != nil {
			vc.Log.Warn().Err(err).Str("key", key).Msg("no se pudo descartar una vista vieja")
		}
	}
	return v, nil
}
