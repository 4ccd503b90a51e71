// Package jsonstore persiste el catálogo en tres archivos JSON (produtos.json, pedidos.json, usuarios.json).
package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/document"
)

// Store implementa repository.CatalogStore sobre un directorio.
type Store struct {
	dir string
}

// New crea el directorio si no existe.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: creando %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path ruta del archivo de una colección.
func (s *Store) Path(col repository.Collection) string {
	return filepath.Join(s.dir, string(col)+".json")
}

// Load lee las tres colecciones. Un archivo inexistente es una colección vacía.
func (s *Store) Load(ctx context.Context) (*repository.Snapshot, error) {
	snap := &repository.Snapshot{}
	for _, col := range repository.AllCollections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.Path(col))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("jsonstore: leyendo %s: %w", col, err)
		}
		if err := document.Decode(col, data, snap); err != nil {
			return nil, fmt.Errorf("jsonstore: %s: %w", s.Path(col), err)
		}
	}
	return snap, nil
}

// Save reescribe cada colección indicada con escritura atómica (archivo temporal + rename).
func (s *Store) Save(ctx context.Context, snap *repository.Snapshot, collections ...repository.Collection) error {
	for _, col := range collections {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := document.Encode(col, snap)
		if err != nil {
			return err
		}
		if err := s.writeAtomic(s.Path(col), data); err != nil {
			return fmt.Errorf("jsonstore: guardando %s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
