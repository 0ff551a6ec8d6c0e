package passes

import (
	"codeberg.org/algopatterns/dedup/api/rest/pagination"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/passes"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

// CreatePassRequest opens a pass; empty fields take the server defaults
type CreatePassRequest struct {
	Strategy dedup.Strategy `json:"strategy,omitempty"`
	Options  dedup.Options  `json:"options"`
}

type ProcessRequest struct {
	Documents []dedup.Document `json:"documents" binding:"required"`
}

type ProcessResponse struct {
	PassID    string           `json:"pass_id"`
	Documents []dedup.Document `json:"documents"`
	Stats     dedup.Stats      `json:"stats"`
}

type ListPassesResponse struct {
	Passes     []*passes.Info  `json:"passes"`
	Pagination pagination.Meta `json:"pagination"`
}

type ReportsResponse struct {
	PassID  string            `json:"pass_id"`
	Reports []*reports.Report `json:"reports"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
