package catalog

import (
	"context"
	"fmt"

	"shopping-agent/internal/common/config"
	"shopping-agent/internal/common/database"
	"shopping-agent/internal/common/logger"
)

// Open builds the provider selected by catalog.source. The returned func releases backend connections.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Catalog.Source {
	case config.CatalogFile:
		products, err := LoadFile(cfg.Catalog.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("catalog loaded from file", map[string]interface{}{
			"path":     cfg.Catalog.FilePath,
			"products": len(products),
		})
		return NewMemory(products), noop, nil

	case config.CatalogPostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("postgres catalog unreachable: %w", err)
		}
		log.Info("catalog backed by postgres", map[string]interface{}{"table": cfg.Catalog.Table})
		return NewPostgres(pg.DB, cfg.Catalog.Table), pg.Close, nil

	case config.CatalogElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, nil, err
		}
		if err := es.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("elasticsearch catalog unreachable: %w", err)
		}
		log.Info("catalog backed by elasticsearch", map[string]interface{}{"index": cfg.Catalog.Index})
		return NewElasticsearch(es, cfg.Catalog.Index, log), noop, nil

	default:
		products := SeedProducts()
		log.Info("catalog seeded in memory", map[string]interface{}{"products": len(products)})
		return NewMemory(products), noop, nil
	}
}
