package catalog

import (
	"context"
	"testing"

	"shopping-agent/internal/common/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedProducts_Valid(t *testing.T) {
	products := SeedProducts()
	require.Len(t, products, 8)
	assert.NoError(t, validation.ValidateCatalog(products))
}

func TestMemory_AllReturnsCopies(t *testing.T) {
	m := NewMemory(SeedProducts())

	first, err := m.All(context.Background())
	require.NoError(t, err)
	first[0].Name = "changed"
	first[0].Features[0] = "changed"

	second, err := m.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15", second[0].Name)
	assert.Equal(t, "5G", second[0].Features[0])
}

func TestMemory_Get(t *testing.T) {
	m := NewMemory(SeedProducts())

	p, err := m.Get(context.Background(), "laptop_002")
	require.NoError(t, err)
	assert.Equal(t, "Dell XPS 13", p.Name)

	_, err = m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
