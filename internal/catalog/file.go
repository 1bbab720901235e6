package catalog

import (
	"fmt"
	"os"

	"shopping-agent/internal/common/validation"
	"shopping-agent/internal/models"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products []models.Product `yaml:"products"`
}

// LoadFile reads a YAML catalog and validates every record.
func LoadFile(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]models.Product, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validation.ValidateCatalog(f.Products); err != nil {
		return nil, err
	}
	return f.Products, nil
}

// Marshal renders products in the format LoadFile reads.
func Marshal(products []models.Product) ([]byte, error) {
	return yaml.Marshal(catalogFile{Products: products})
}
