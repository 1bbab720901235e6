package filterproducts

import "shopping-agent/internal/models"

type Input struct {
	Products    []models.Product   `json:"products"`
	Query       string             `json:"query"`
	Preferences models.Preferences `json:"preferences"`
}

type Output struct {
	Products       []models.Product      `json:"products"`
	TotalCount     int                   `json:"totalCount"`
	AppliedFilters models.AppliedFilters `json:"appliedFilters"`
}
