package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/document"
)

var _ repository.CatalogStore = (*DocumentStore)(nil)

const (
	createDocumentsTable = `CREATE TABLE IF NOT EXISTS catalog_documents (
	collection TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectDocuments = `SELECT collection, body FROM catalog_documents`

	upsertDocument = `INSERT INTO catalog_documents (collection, body, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (collection) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
)

// DocumentStore guarda cada colección del catálogo como un documento JSONB (una fila por colección).
// Un Save con varias colecciones se confirma en una sola transacción.
type DocumentStore struct {
	db DB
	tx *TxRunner
}

// NewDocumentStore construye el store sobre db.
func NewDocumentStore(db DB) *DocumentStore {
	return &DocumentStore{db: db, tx: NewTxRunner(db)}
}

// EnsureSchema crea la tabla de documentos si no existe.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("crear catalog_documents: %w", err)
	}
	return nil
}

// Load lee todos los documentos. Una colección sin fila es una colección vacía.
func (s *DocumentStore) Load(ctx context.Context) (*repository.Snapshot, error) {
	rows, err := s.db.Query(ctx, selectDocuments)
	if err != nil {
		return nil, fmt.Errorf("consultar catalog_documents: %w", err)
	}
	defer rows.Close()

	snap := &repository.Snapshot{}
	for rows.Next() {
		var (
			col  string
			body []byte
		)
		if err := rows.Scan(&col, &body); err != nil {
			return nil, fmt.Errorf("leer documento: %w", err)
		}
		if err := document.Decode(repository.Collection(col), body, snap); err != nil {
			return nil, fmt.Errorf("documento %s: %w", col, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorrer catalog_documents: %w", err)
	}
	return snap, nil
}

// Save reescribe los documentos de las colecciones indicadas.
func (s *DocumentStore) Save(ctx context.Context, snap *repository.Snapshot, collections ...repository.Collection) error {
	bodies := make([][]byte, 0, len(collections))
	for _, col := range collections {
		body, err := document.Encode(col, snap)
		if err != nil {
			return err
		}
		bodies = append(bodies, body)
	}
	return s.tx.Run(ctx, func(tx pgx.Tx) error {
		for i, col := range collections {
			if _, err := tx.Exec(ctx, upsertDocument, string(col), bodies[i]); err != nil {
				return fmt.Errorf("guardar %s: %w", col, err)
			}
		}
		return nil
	})
}
