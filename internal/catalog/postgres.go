package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shopping-agent/internal/common/database"
	"shopping-agent/internal/models"

	"github.com/lib/pq"
)

// Postgres reads products from a single table. Store offers are kept as a jsonb column.
type Postgres struct {
	db    *sql.DB
	table string
}

func NewPostgres(db *sql.DB, table string) *Postgres {
	if table == "" {
		table = "products"
	}
	return &Postgres{db: db, table: table}
}

// Schema returns the DDL for the products table.
func (p *Postgres) Schema() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	price        NUMERIC(12,2) NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	subcategory  TEXT NOT NULL DEFAULT '',
	brand        TEXT NOT NULL DEFAULT '',
	rating       NUMERIC(3,2) NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	image_url    TEXT NOT NULL DEFAULT '',
	features     TEXT[] NOT NULL DEFAULT '{}',
	stores       JSONB NOT NULL DEFAULT '[]',
	position     INTEGER NOT NULL DEFAULT 0
)`, pq.QuoteIdentifier(p.table))
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, p.Schema()); err != nil {
		return fmt.Errorf("create table %s: %w", p.table, err)
	}
	return nil
}

func (p *Postgres) selectColumns() string {
	return fmt.Sprintf(`SELECT id, name, price, description, category, subcategory, brand, rating,
	review_count, image_url, features, stores FROM %s`, pq.QuoteIdentifier(p.table))
}

func (p *Postgres) All(ctx context.Context) ([]models.Product, error) {
	rows, err := p.db.QueryContext(ctx, p.selectColumns()+" ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (models.Product, error) {
	row := p.db.QueryRowContext(ctx, p.selectColumns()+" WHERE id = $1", id)
	prod, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return prod, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (models.Product, error) {
	var (
		prod   models.Product
		stores []byte
	)
	err := s.Scan(&prod.ID, &prod.Name, &prod.Price, &prod.Description, &prod.Category,
		&prod.Subcategory, &prod.Brand, &prod.Rating, &prod.ReviewCount, &prod.ImageURL,
		pq.Array(&prod.Features), &stores)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prod, err
		}
		return prod, fmt.Errorf("scan product: %w", err)
	}
	if len(stores) > 0 {
		if err := json.Unmarshal(stores, &prod.Stores); err != nil {
			return prod, fmt.Errorf("decode stores of %s: %w", prod.ID, err)
		}
	}
	return prod, nil
}

// Upsert writes products in one transaction, keeping their order in the position column.
func (p *Postgres) Upsert(ctx context.Context, products []models.Product) error {
	query := fmt.Sprintf(`INSERT INTO %s
	(id, name, price, description, category, subcategory, brand, rating, review_count, image_url, features, stores, position)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, price = EXCLUDED.price, description = EXCLUDED.description,
	category = EXCLUDED.category, subcategory = EXCLUDED.subcategory, brand = EXCLUDED.brand,
	rating = EXCLUDED.rating, review_count = EXCLUDED.review_count, image_url = EXCLUDED.image_url,
	features = EXCLUDED.features, stores = EXCLUDED.stores, position = EXCLUDED.position`,
		pq.QuoteIdentifier(p.table))

	return database.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for i, prod := range products {
			stores, err := json.Marshal(prod.Stores)
			if err != nil {
				return fmt.Errorf("encode stores of %s: %w", prod.ID, err)
			}
			features := prod.Features
			if features == nil {
				features = []string{}
			}
			if _, err := stmt.ExecContext(ctx, prod.ID, prod.Name, prod.Price, prod.Description,
				prod.Category, prod.Subcategory, prod.Brand, prod.Rating, prod.ReviewCount,
				prod.ImageURL, pq.Array(features), stores, i); err != nil {
				return fmt.Errorf("upsert %s: %w", prod.ID, err)
			}
		}
		return nil
	})
}
