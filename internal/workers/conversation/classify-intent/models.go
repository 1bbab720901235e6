package classifyintent

import "shopping-agent/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Intent models.Intent `json:"intent"`
}
