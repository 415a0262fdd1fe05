package controller

import (
	"ctchen222/mlb-compare/internal/api/response"
	"ctchen222/mlb-compare/pkg/proto"

	"github.com/gin-gonic/gin"
)

// Health is a constant liveness signal; no dependencies are checked.
func Health(c *gin.Context) {
	response.SuccessResponse(c, proto.HealthResponse{
		Status:  "healthy",
		Message: "MLB Player Comparison API is running",
	})
}
