package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helix-insights/madison/internal/application/intelligence"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/pkg/errors"
	"github.com/helix-insights/madison/pkg/types/intel"
)

// AnalysisHandler serves analysis runs.
type AnalysisHandler struct {
	service intelligence.Service
	logger  logging.Logger
}

// NewAnalysisHandler builds the handler.
func NewAnalysisHandler(service intelligence.Service, log logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: log.Named("analysis_handler")}
}

// TableResponse is the tabular projection of a finished run.
type TableResponse struct {
	ReportID string                 `json:"reportId"`
	Summary  intel.ExecutiveSummary `json:"summary"`
	Rows     []intel.TableRow       `json:"rows"`
}

// Run handles POST /api/v1/analysis.  The optional view=table query parameter
// swaps the full report for the display projection.
func (h *AnalysisHandler) Run(c *gin.Context) {
	var query intel.Query
	if err := c.ShouldBindJSON(&query); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid analysis request"))
		return
	}
	if query.DaysBack < 0 {
		respondError(c, errors.New(errors.ErrCodeQueryInvalid, "daysBack must not be negative"))
		return
	}

	report, err := h.service.Run(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("analysis run failed", logging.Err(err))
		respondError(c, err)
		return
	}

	if c.Query("view") == "table" {
		c.JSON(http.StatusOK, TableResponse{
			ReportID: report.ReportID,
			Summary:  report.Summary,
			Rows:     h.service.TableRows(report),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}
