package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leavedesk/internal/auth"
	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error)
	loginFn    func(ctx context.Context, email, password string) (string, auth.UserResponse, error)
	meFn       func(ctx context.Context, userID int64) (*auth.UserResponse, error)
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	return f.registerFn(ctx, req)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, auth.UserResponse, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthService) Me(ctx context.Context, userID int64) (*auth.UserResponse, error) {
	return f.meFn(ctx, userID)
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func performRequest(t *testing.T, handler gin.HandlerFunc, method, target string, body any, userID int64) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		c.Set("user_id", userID)
	}

	handler(c)

	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with the new user", func(t *testing.T) {
		svc := &fakeAuthService{
			registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
				assert.Equal(t, "jamie@example.com", req.Email)
				return auth.UserResponse{UserID: 7, Email: req.Email, Role: req.Role}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Register, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "jamie@example.com",
			"password": "correct horse battery",
			"fullName": "Jamie Doe",
			"role":     "employee",
		}, 0)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Ok)

		var resp auth.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(7), resp.UserID)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		svc := &fakeAuthService{}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Register, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "not-an-email",
			"password": "correct horse battery",
			"fullName": "Jamie Doe",
			"role":     "employee",
		}, 0)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc := &fakeAuthService{}
		handler := auth.NewHandler(svc)

		w, _ := performRequest(t, handler.Register, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "jamie@example.com",
			"password": "correct horse battery",
			"fullName": "Jamie Doe",
			"role":     "superuser",
		}, 0)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 409 for a duplicate email", func(t *testing.T) {
		svc := &fakeAuthService{
			registerFn: func(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
				return auth.UserResponse{}, autherrors.ErrEmailAlreadyRegistered
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Register, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "jamie@example.com",
			"password": "correct horse battery",
			"fullName": "Jamie Doe",
			"role":     "employee",
		}, 0)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeConflict, env.Error.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns the token and user", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, auth.UserResponse, error) {
				return "signed.jwt.token", auth.UserResponse{UserID: 7, Email: email}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Login, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "jamie@example.com",
			"password": "correct horse battery",
		}, 0)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp auth.LoginResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
		assert.Equal(t, int64(7), resp.User.UserID)
	})

	t.Run("returns 401 for bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, auth.UserResponse, error) {
				return "", auth.UserResponse{}, autherrors.ErrInvalidCredentials
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Login, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "jamie@example.com",
			"password": "wrong",
		}, 0)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeUnauthorized, env.Error.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		svc := &fakeAuthService{
			meFn: func(ctx context.Context, userID int64) (*auth.UserResponse, error) {
				assert.Equal(t, int64(7), userID)
				return &auth.UserResponse{UserID: 7, Email: "jamie@example.com"}, nil
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Me, http.MethodGet, "/api/auth/me", nil, 7)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Ok)
	})

	t.Run("returns 404 when the subject no longer exists", func(t *testing.T) {
		svc := &fakeAuthService{
			meFn: func(ctx context.Context, userID int64) (*auth.UserResponse, error) {
				return nil, autherrors.ErrUserNotFound
			},
		}
		handler := auth.NewHandler(svc)

		w, env := performRequest(t, handler.Me, http.MethodGet, "/api/auth/me", nil, 7)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, env.Error.Code)
	})
}
