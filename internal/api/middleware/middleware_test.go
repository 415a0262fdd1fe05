package middleware

import (
	"context"
	"ctchen222/mlb-compare/internal/api/models"
	"ctchen222/mlb-compare/internal/api/service"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserService struct {
	service.UserService
	user *models.User
	err  error
	got  string
}

func (s *stubUserService) Authenticate(_ context.Context, token string) (*models.User, error) {
	s.got = token
	return s.user, s.err
}

type routeRecorder struct {
	method, route string
	status        int
}

func (r *routeRecorder) RecordHTTPRequest(method, route string, status int) {
	r.method, r.route, r.status = method, route, status
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Basic dXNlcjpwdw==", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := bearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newAuthEngine(svc service.UserService) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(svc), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, user.Email)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	alice := &models.User{ID: 1, Email: "alice@example.com"}

	tests := []struct {
		name       string
		header     string
		svc        *stubUserService
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", &stubUserService{user: alice}, http.StatusUnauthorized, `"detail"`},
		{"rejected token", "Bearer bad", &stubUserService{err: service.ErrUnauthorized}, http.StatusUnauthorized, "Could not validate credentials"},
		{"store failure", "Bearer tok", &stubUserService{err: errors.New("db down")}, http.StatusInternalServerError, "Internal server error"},
		{"valid token", "Bearer tok", &stubUserService{user: alice}, http.StatusOK, "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthEngine(tt.svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthRequired_PassesTokenToService(t *testing.T) {
	svc := &stubUserService{user: &models.User{ID: 1, Email: "a@example.com"}}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer xyz")
	newAuthEngine(svc).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "xyz", svc.got)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDHeader))
	})

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc", w.Body.String())
	})

	t.Run("assigns uuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})
}

func TestAccessLog_RecordsRoute(t *testing.T) {
	rec := &routeRecorder{}
	r := gin.New()
	r.Use(AccessLog(rec))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, "GET", rec.method)
	assert.Equal(t, "/items/:id", rec.route)
	assert.Equal(t, http.StatusNoContent, rec.status)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, "unmatched", rec.route)
	assert.Equal(t, http.StatusNotFound, rec.status)
}
