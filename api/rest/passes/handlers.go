package passes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	restdedup "codeberg.org/algopatterns/dedup/api/rest/dedup"
	"codeberg.org/algopatterns/dedup/api/rest/pagination"
	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/errors"
	"codeberg.org/algopatterns/dedup/internal/passes"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// CreatePass godoc
// @Summary Open a dedup pass
// @Description Creates a long-lived deduplicator that remembers documents across batches
// @Tags passes
// @Accept json
// @Produce json
// @Param request body CreatePassRequest true "Strategy and options"
// @Success 201 {object} passes.Info
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/passes [post]
func CreatePass(manager *passes.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePassRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				errors.ValidationError(c, err)
				return
			}
		}

		strategy, opts := restdedup.Resolve(cfg, req.Strategy, req.Options)

		info, err := manager.Create(strategy, opts)
		if err != nil {
			errors.Respond(c, "failed to create pass", err)
			return
		}

		c.JSON(http.StatusCreated, info)
	}
}

// ListPasses godoc
// @Summary List live dedup passes
// @Tags passes
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ListPassesResponse
// @Router /api/v1/passes [get]
func ListPasses(manager *passes.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.FromQuery(c, defaultListLimit, maxListLimit)
		all := manager.List()

		c.JSON(http.StatusOK, ListPassesResponse{
			Passes:     pagination.Page(all, params),
			Pagination: pagination.NewMeta(params, len(all)),
		})
	}
}

// GetPass godoc
// @Summary Get a dedup pass with its running stats
// @Tags passes
// @Produce json
// @Param id path string true "Pass ID"
// @Success 200 {object} passes.Info
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/passes/{id} [get]
func GetPass(manager *passes.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		passID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		info, err := manager.Get(passID)
		if err != nil {
			errors.Respond(c, "failed to get pass", err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

// ProcessDocuments godoc
// @Summary Feed a batch through a dedup pass
// @Description Documents seen in earlier batches of the same pass count as prior occurrences
// @Tags passes
// @Accept json
// @Produce json
// @Param id path string true "Pass ID"
// @Param request body ProcessRequest true "Documents"
// @Success 200 {object} ProcessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /api/v1/passes/{id}/documents [post]
func ProcessDocuments(manager *passes.Manager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		passID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req ProcessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if !restdedup.WithinLimit(c, len(req.Documents), cfg.MaxDocumentsPerRequest) {
			return
		}

		out, stats, err := manager.Process(c.Request.Context(), passID, req.Documents)
		if err != nil {
			errors.Respond(c, "failed to process documents", err)
			return
		}

		if out == nil {
			out = []dedup.Document{}
		}

		c.JSON(http.StatusOK, ProcessResponse{
			PassID:    passID,
			Documents: out,
			Stats:     stats,
		})
	}
}

// ResetPass godoc
// @Summary Forget every document a pass has seen
// @Tags passes
// @Produce json
// @Param id path string true "Pass ID"
// @Success 200 {object} passes.Info
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/passes/{id}/reset [post]
func ResetPass(manager *passes.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		passID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		info, err := manager.Reset(passID)
		if err != nil {
			errors.Respond(c, "failed to reset pass", err)
			return
		}

		c.JSON(http.StatusOK, info)
	}
}

// DeletePass godoc
// @Summary Close a dedup pass and drop its reports
// @Tags passes
// @Produce json
// @Param id path string true "Pass ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/passes/{id} [delete]
func DeletePass(manager *passes.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		passID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		if err := manager.Delete(c.Request.Context(), passID); err != nil {
			errors.Respond(c, "failed to delete pass", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "pass deleted"})
	}
}

// ListReports godoc
// @Summary List the newest run reports of a pass
// @Tags passes
// @Produce json
// @Param id path string true "Pass ID"
// @Param limit query int false "Maximum number of reports"
// @Success 200 {object} ReportsResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/passes/{id}/reports [get]
func ListReports(manager *passes.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		passID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		params := pagination.FromQuery(c, reports.DefaultListLimit, reports.DefaultMaxPerPass)

		list, err := manager.Reports(c.Request.Context(), passID, params.Limit)
		if err != nil {
			errors.Respond(c, "failed to list reports", err)
			return
		}

		if list == nil {
			list = []*reports.Report{}
		}

		c.JSON(http.StatusOK, ReportsResponse{
			PassID:  passID,
			Reports: list,
		})
	}
}
