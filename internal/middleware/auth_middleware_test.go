package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func validClaims(userID int64, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetInt64("user_id"),
			"role":   c.GetString("role"),
		})
	})

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware("admin"))
	admin.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func doRequest(r *gin.Engine, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := setupRouter()

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "No token provided")
	})

	t.Run("token signed with the wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", validClaims(7, "employee"))
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": int64(7),
			"role":    "employee",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has expired")
	})

	t.Run("token without a user id", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"role": "employee",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token exposes identity to handlers", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims(7, "employee"))
		w := doRequest(r, "/protected", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"userId": 7, "role": "employee"}`, w.Body.String())
	})
}

func TestRoleMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	r := setupRouter()

	t.Run("employee cannot reach admin routes", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims(7, "employee"))
		w := doRequest(r, "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims(9, "admin"))
		w := doRequest(r, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
