// importar_produtos carga productos en el catálogo desde un CSV separado por ';'.
//
// Uso: go run ./cmd/importar_produtos [-charset auto|utf-8|iso-8859-1|windows-1252] produtos.csv
//
// Columnas: nome;descricao;preco;quantidade_estoque;imagem_url (la primera fila es cabecera).
// Usa el mismo almacenamiento que la API (STORAGE_DRIVER, DATA_DIR, DATABASE_URL...).
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/jsonstore"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/postgres"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/security"
	"github.com/jhoicas/vortex-catalogo/pkg/config"
	"github.com/jhoicas/vortex-catalogo/pkg/logger"
)

func main() {
	charset := flag.String("charset", "auto", "codificación del archivo: auto, utf-8, iso-8859-1, windows-1252")
	dryRun := flag.Bool("dry-run", false, "solo valida el archivo, no guarda")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: importar_produtos [-charset auto] [-dry-run] produtos.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "importar_produtos"})

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	text, err := decodeText(raw, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar CSV")
	}
	rows, err := parseProducts(bytes.NewReader(text))
	if err != nil {
		log.Fatal().Err(err).Msg("CSV inválido")
	}
	log.Info().Int("filas", len(rows)).Str("archivo", flag.Arg(0)).Msg("CSV leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer closeStore()

	cat := catalog.New(security.NewBcryptHasher(cfg.Security.BcryptCost),
		catalog.WithStore(store),
		catalog.WithLogger(log.Component("catalog")))
	if err := cat.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}

	imported := 0
	for _, row := range rows {
		p, err := cat.CreateProduct(ctx, row.input)
		if err != nil {
			log.Error().Err(err).Int("linea", row.line).Str("nome", row.input.Name).Msg("producto rechazado")
			continue
		}
		imported++
		log.Debug().Str("id", p.ID).Str("nome", p.Name).Msg("producto importado")
	}
	log.Info().Int("importados", imported).Int("rechazados", len(rows)-imported).Msg("importación finalizada")
	if imported < len(rows) {
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.CatalogStore, func(), error) {
	if cfg.Storage.Driver == config.StoragePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		docs := postgres.NewDocumentStore(pool)
		if err := docs.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return docs, pool.Close, nil
	}
	files, err := jsonstore.New(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return files, func() {}, nil
}
