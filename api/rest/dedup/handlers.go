package dedup

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/errors"
)

// Deduplicate godoc
// @Summary Deduplicate a batch of documents
// @Description Runs a fresh deduplicator over the batch. Nothing is remembered between calls.
// @Tags dedup
// @Accept json
// @Produce json
// @Param request body DedupRequest true "Documents and strategy"
// @Success 200 {object} DedupResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/dedup [post]
func Deduplicate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DedupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if !WithinLimit(c, len(req.Documents), cfg.MaxDocumentsPerRequest) {
			return
		}

		strategy, opts := Resolve(cfg, req.Strategy, req.Options)

		d, err := dedup.New(strategy, opts)
		if err != nil {
			errors.Respond(c, "failed to build deduplicator", err)
			return
		}

		out := d.Deduplicate(req.Documents)
		if out == nil {
			out = []dedup.Document{}
		}

		c.JSON(http.StatusOK, DedupResponse{
			Strategy:  d.Strategy(),
			Documents: out,
			Stats:     d.LastCall(),
		})
	}
}

// applies the server defaults to a request's strategy and options
func Resolve(cfg *config.Config, strategy dedup.Strategy, opts dedup.Options) (dedup.Strategy, dedup.Options) {
	if strategy == "" {
		strategy = cfg.Strategy
	}

	return strategy, opts.WithDefaults(cfg.Options)
}

// rejects batches above the configured cap; zero disables the check
func WithinLimit(c *gin.Context, n, limit int) bool {
	if limit > 0 && n > limit {
		errors.PayloadTooLarge(c, fmt.Sprintf("at most %d documents per request, got %d", limit, n))
		return false
	}

	return true
}
