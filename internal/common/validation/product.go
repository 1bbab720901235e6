package validation

import (
	"fmt"

	"shopping-agent/internal/models"
)

// ProductSchema is the shape every catalog record must satisfy before it is served or loaded.
var ProductSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "name", "price", "category"},
	"properties": map[string]interface{}{
		"id":           map[string]interface{}{"type": "string", "minLength": 1},
		"name":         map[string]interface{}{"type": "string", "minLength": 1},
		"price":        map[string]interface{}{"type": "number", "minimum": 0},
		"description":  map[string]interface{}{"type": "string"},
		"category":     map[string]interface{}{"type": "string", "minLength": 1},
		"subcategory":  map[string]interface{}{"type": "string"},
		"brand":        map[string]interface{}{"type": "string"},
		"rating":       map[string]interface{}{"type": "number", "minimum": 0, "maximum": 5},
		"review_count": map[string]interface{}{"type": "integer", "minimum": 0},
		"image_url":    map[string]interface{}{"type": "string"},
		"features": map[string]interface{}{
			"type":  []interface{}{"array", "null"},
			"items": map[string]interface{}{"type": "string"},
		},
		"stores": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"name", "price"},
				"properties": map[string]interface{}{
					"name":     map[string]interface{}{"type": "string", "minLength": 1},
					"price":    map[string]interface{}{"type": "number", "minimum": 0},
					"shipping": map[string]interface{}{"type": "number", "minimum": 0},
				},
			},
		},
	},
}

func ValidateProduct(p models.Product) error {
	if err := Check(ProductSchema, p); err != nil {
		return fmt.Errorf("product %q: %w", p.ID, err)
	}
	return nil
}

// ValidateCatalog also rejects duplicate ids.
func ValidateCatalog(products []models.Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := ValidateProduct(p); err != nil {
			return err
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
