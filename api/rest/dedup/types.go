package dedup

import "codeberg.org/algopatterns/dedup/internal/dedup"

// DedupRequest is a one-shot batch; strategy and options fall back to the server defaults
type DedupRequest struct {
	Strategy  dedup.Strategy   `json:"strategy,omitempty"`
	Options   dedup.Options    `json:"options"`
	Documents []dedup.Document `json:"documents" binding:"required"`
}

// DedupResponse carries the surviving (or reweighted) documents in input order
type DedupResponse struct {
	Strategy  dedup.Strategy   `json:"strategy"`
	Documents []dedup.Document `json:"documents"`
	Stats     dedup.Stats      `json:"stats"`
}
