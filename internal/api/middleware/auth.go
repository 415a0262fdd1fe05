package middleware

import (
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/response"
	"ctchen222/mlb-compare/internal/api/service"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// AuthRequired resolves the bearer token to a user before the handler runs.
// Requests without a valid token stop here with 401.
func AuthRequired(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.UnauthorizedResponse(c)
			return
		}

		user, err := userService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				slog.DebugContext(c.Request.Context(), "Rejected bearer token")
				response.UnauthorizedResponse(c)
				return
			}
			slog.ErrorContext(c.Request.Context(), "Failed to authenticate request", "error", err)
			response.ErrorResponse(c, http.StatusInternalServerError, response.DetailInternal)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
