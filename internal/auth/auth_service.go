package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "leavedesk/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenExpiry = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, email, password string) (token string, resp UserResponse, err error)
	Me(ctx context.Context, userID int64) (*UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("register email lookup failed", zap.Error(err))
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	user := &User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Role:         req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Warn("register persist failed", zap.String("email", req.Email), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)

	return mapToUserResponse(*user), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, UserResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// missing user and bad password are indistinguishable to the caller
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID, user.Role, tokenExpiry())
	if err != nil {
		s.logger.Error("login token generation failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", UserResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))

	return token, mapToUserResponse(*user), nil
}

func (s *service) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := mapToUserResponse(*user)
	return &resp, nil
}

func (s *service) generateToken(userID int64, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func tokenExpiry() time.Duration {
	if v := os.Getenv("JWT_EXPIRATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultTokenExpiry
}

func mapToUserResponse(u User) UserResponse {
	return UserResponse{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
