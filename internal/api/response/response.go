package response

import (
	"ctchen222/mlb-compare/pkg/proto"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Detail messages shown to clients. Internal causes are never exposed.
const (
	DetailInvalidInput     = "Invalid request"
	DetailEmailTaken       = "Email already registered"
	DetailPasswordTooLong  = "Password must be at most 72 bytes"
	DetailBadCredentials   = "Incorrect email or password"
	DetailUnauthorized     = "Could not validate credentials"
	DetailComparisonFailed = "Error comparing players"
	DetailInternal         = "Internal server error"
)

// SuccessResponse writes a 200 JSON response with no type limitation.
func SuccessResponse(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// MessageResponse writes a 200 response carrying a single message.
func MessageResponse(c *gin.Context, msg string) {
	SuccessResponse(c, proto.MessageResponse{Msg: msg})
}

// ErrorResponse aborts the request with code and a {"detail": ...} body.
func ErrorResponse(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, proto.ErrorResponse{Detail: detail})
}

// UnauthorizedResponse aborts with 401 and the bearer challenge header.
func UnauthorizedResponse(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	ErrorResponse(c, http.StatusUnauthorized, DetailUnauthorized)
}
