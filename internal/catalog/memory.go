package catalog

import (
	"context"

	"shopping-agent/internal/models"
)

// Memory keeps the catalog in process. It is immutable after construction.
type Memory struct {
	products []models.Product
	byID     map[string]int
}

func NewMemory(products []models.Product) *Memory {
	m := &Memory{
		products: models.CloneProducts(products),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range m.products {
		m.byID[p.ID] = i
	}
	return m
}

func (m *Memory) All(_ context.Context) ([]models.Product, error) {
	return models.CloneProducts(m.products), nil
}

func (m *Memory) Get(_ context.Context, id string) (models.Product, error) {
	i, ok := m.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return m.products[i].Clone(), nil
}
