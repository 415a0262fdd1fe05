package controller

import (
	"ctchen222/mlb-compare/internal/api/middleware"
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/response"
	"ctchen222/mlb-compare/internal/api/service"
	"ctchen222/mlb-compare/pkg/proto"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ComparisonController serves comparisons and comparison history.
// Both routes sit behind middleware.AuthRequired.
type ComparisonController struct {
	comparisonService service.ComparisonService
}

// NewComparisonController creates a new ComparisonController.
func NewComparisonController(comparisonService service.ComparisonService) *ComparisonController {
	return &ComparisonController{comparisonService: comparisonService}
}

// Compare runs and records a comparison for the authenticated user.
func (cc *ComparisonController) Compare(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.UnauthorizedResponse(c)
		return
	}

	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, response.DetailInvalidInput)
		return
	}

	q, err := cc.comparisonService.CompareAndRecord(c.Request.Context(), user, req.Player1, req.Player2)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, response.DetailComparisonFailed)
		return
	}

	response.SuccessResponse(c, proto.CompareResponse{
		Player1:    q.Player1,
		Player2:    q.Player2,
		Comparison: q.Result,
	})
}

// History lists the authenticated user's comparisons, newest first.
func (cc *ComparisonController) History(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.UnauthorizedResponse(c)
		return
	}

	queries, err := cc.comparisonService.History(c.Request.Context(), user)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, response.DetailInternal)
		return
	}

	entries := make([]proto.HistoryEntry, 0, len(queries))
	for _, q := range queries {
		entries = append(entries, proto.HistoryEntry{
			Player1:   q.Player1,
			Player2:   q.Player2,
			Result:    q.Result,
			Timestamp: q.Timestamp,
		})
	}
	response.SuccessResponse(c, entries)
}
