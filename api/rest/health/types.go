package health

import "codeberg.org/algopatterns/dedup/internal/dedup"

// Response represents the health check response
type Response struct {
	Status     string           `json:"status"`
	Service    string           `json:"service"`
	Version    string           `json:"version,omitempty"`
	Strategies []dedup.Strategy `json:"strategies"`
}

type PingResponse struct {
	Message string `json:"message"`
}
