package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/mrp-api/internal/infrastructure/postgres"
)

func newImportCommand() *cobra.Command {
	var (
		productsPath string
		bomsPath     string
		charset      string
		comma        string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Importa productos y BOMs desde CSV",
		Long: `Importa primero los productos y luego las BOMs (que referencian productos por código).
Los productos con código existente se omiten.

Columnas de productos: code, name, product_type [, description, unit, quantity_in_stock,
minimum_stock, lead_time_days, price]
Columnas de BOMs: product_code, component_code, quantity [, version, name, is_optional, notes]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if productsPath == "" && bomsPath == "" {
				return fmt.Errorf("indique --products y/o --boms")
			}
			sep, size := utf8.DecodeRuneInString(comma)
			if size == 0 || size != len(comma) {
				return fmt.Errorf("--comma debe ser un único carácter")
			}
			opts := csvimport.Options{Charset: charset, Comma: sep}

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			productRepo := postgres.NewProductRepository(e.pool)
			bomRepo := postgres.NewBOMRepository(e.pool)
			im := csvimport.NewImporter(
				usecase.NewProductUseCase(productRepo, bomRepo),
				usecase.NewBOMUseCase(bomRepo, productRepo),
				productRepo,
				e.log,
			)

			if productsPath != "" {
				f, err := os.Open(productsPath)
				if err != nil {
					return err
				}
				rows, err := csvimport.ReadProducts(f, opts)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", productsPath, err)
				}
				res, err := im.ImportProducts(cmd.Context(), rows)
				if err != nil {
					return err
				}
				e.log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("productos importados")
			}
			if bomsPath != "" {
				f, err := os.Open(bomsPath)
				if err != nil {
					return err
				}
				defs, err := csvimport.ReadBOMs(f, opts)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", bomsPath, err)
				}
				res, err := im.ImportBOMs(cmd.Context(), defs)
				if err != nil {
					return err
				}
				e.log.Info().Int("created", res.Created).Msg("BOMs importadas")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&productsPath, "products", "", "CSV de productos")
	cmd.Flags().StringVar(&bomsPath, "boms", "", "CSV de BOMs")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "Codificación: utf-8, iso-8859-1, windows-1252, windows-1250")
	cmd.Flags().StringVar(&comma, "comma", ",", "Separador de campos")
	return cmd
}
