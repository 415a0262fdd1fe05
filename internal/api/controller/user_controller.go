package controller

import (
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/response"
	"ctchen222/mlb-compare/internal/api/service"
	"ctchen222/mlb-compare/internal/auth"
	"ctchen222/mlb-compare/pkg/proto"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, response.DetailInvalidInput)
		return
	}

	err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.ErrorResponse(c, http.StatusBadRequest, response.DetailEmailTaken)
			return
		}
		if errors.Is(err, service.ErrPasswordTooLong) {
			response.ErrorResponse(c, http.StatusBadRequest, response.DetailPasswordTooLong)
			return
		}
		slog.ErrorContext(c.Request.Context(), "Registration failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, response.DetailInternal)
		return
	}

	response.MessageResponse(c, "User registered successfully")
}

// Login handles the token endpoint using the OAuth2 password-grant form.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, response.DetailInvalidInput)
		return
	}

	token, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.ErrorResponse(c, http.StatusBadRequest, response.DetailBadCredentials)
			return
		}
		slog.ErrorContext(c.Request.Context(), "Login failed", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, response.DetailInternal)
		return
	}

	response.SuccessResponse(c, proto.TokenResponse{AccessToken: token, TokenType: auth.TokenType})
}
