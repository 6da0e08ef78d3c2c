package models

import "dailyarticles/internal/domain"

// ErrorResponse — конверт ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type FeedStatusResponse struct {
	Fetches []domain.FetchRecord `json:"fetches"`
}
