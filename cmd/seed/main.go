// seed prepara una base de datos MRP: aplica el esquema, carga el catálogo de demostración
// o importa productos y BOMs desde CSV.
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed demo
//	go run ./cmd/seed import --products productos.csv --boms boms.csv --charset iso-8859-1 --comma ';'
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/mrp-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mrp-api/pkg/config"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Carga inicial de la base de datos MRP",
		Long: `Herramienta de carga para PostgreSQL. Lee la misma configuración que la API
(DATABASE_URL o DB_*). Todas las órdenes aplican el esquema antes de escribir.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newDemoCommand())
	root.AddCommand(newImportCommand())
	return root
}

// env conexión abierta y esquema aplicado.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema (idempotente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()
			e.log.Info().Msg("esquema aplicado")
			return nil
		},
	}
}
