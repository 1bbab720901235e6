package rankproducts

import "shopping-agent/internal/models"

type Input struct {
	Products []models.Product `json:"products"`
	Query    string           `json:"query"`
}

type RankedProduct struct {
	Product models.Product `json:"product"`
	Score   float64        `json:"score"`
}

type Output struct {
	Ranked []RankedProduct `json:"ranked"`
}

// Products strips the scores, keeping rank order.
func (o *Output) Products() []models.Product {
	out := make([]models.Product, len(o.Ranked))
	for i, r := range o.Ranked {
		out[i] = r.Product
	}
	return out
}
