// Package catalog serves the read-only product catalog from memory, a YAML file, postgres or
// elasticsearch, plus the queries built on top of it.
package catalog

import (
	"context"
	"errors"

	"shopping-agent/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// Provider is a read-only source of catalog records. Implementations return copies.
type Provider interface {
	All(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
}
