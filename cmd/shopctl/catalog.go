package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shopping-agent/internal/catalog"
	"shopping-agent/internal/common/config"
	"shopping-agent/internal/common/database"
	"shopping-agent/internal/models"
)

var (
	catalogFile   string
	catalogTarget string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate, export and load product catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a YAML catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d products OK\n", args[0], len(products))
		return nil
	},
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the built-in demo catalog as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := catalog.Marshal(catalog.SeedProducts())
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
		return nil
	},
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a catalog into Postgres or Elasticsearch",
	Long: `Load reads --file (or the built-in demo catalog when omitted) and writes
every product to the --target backend configured under database.`,
	RunE: runCatalogLoad,
}

func init() {
	catalogLoadCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "YAML catalog to load (default: built-in demo catalog)")
	catalogLoadCmd.Flags().StringVarP(&catalogTarget, "target", "t", config.CatalogPostgres, "postgres or elasticsearch")

	catalogCmd.AddCommand(catalogValidateCmd, catalogExportCmd, catalogLoadCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	products := catalog.SeedProducts()
	if catalogFile != "" {
		var err error
		if products, err = catalog.LoadFile(catalogFile); err != nil {
			return err
		}
	}

	var err error
	switch catalogTarget {
	case config.CatalogPostgres:
		err = loadPostgres(cmd, products)
	case config.CatalogElasticsearch:
		err = loadElasticsearch(cmd, products)
	default:
		return fmt.Errorf("unknown target %q", catalogTarget)
	}
	if err != nil {
		return err
	}

	log.Info("catalog loaded", map[string]interface{}{"target": catalogTarget, "products": len(products)})
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d products into %s\n", len(products), catalogTarget)
	return nil
}

func loadPostgres(cmd *cobra.Command, products []models.Product) error {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	store := catalog.NewPostgres(pg.DB, cfg.Catalog.Table)
	if err := store.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return store.Upsert(cmd.Context(), products)
}

func loadElasticsearch(cmd *cobra.Command, products []models.Product) error {
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		return err
	}

	index := catalog.NewElasticsearch(es, cfg.Catalog.Index, log)
	if err := index.EnsureIndex(cmd.Context()); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return index.Index(cmd.Context(), products)
}
