package auth_test

import (
	"context"
	"testing"
	"time"

	"leavedesk/internal/auth"
	autherrors "leavedesk/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn      func(ctx context.Context, user *auth.User) error
	findByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	findByIDFn    func(ctx context.Context, id int64) (*auth.User, error)
}

func (f *fakeUserRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores a hash, never the password", func(t *testing.T) {
		repo := &fakeUserRepository{}
		var created *auth.User
		repo.createFn = func(ctx context.Context, user *auth.User) error {
			user.ID = 7
			user.CreatedAt = time.Now()
			created = user
			return nil
		}

		svc := auth.NewService(repo)
		resp, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "jamie@example.com",
			Password: "correct horse battery",
			FullName: "Jamie Doe",
			Role:     auth.RoleEmployee,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.UserID)
		assert.Equal(t, auth.RoleEmployee, resp.Role)

		assert.NotNil(t, created)
		assert.NotEqual(t, "correct horse battery", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(created.PasswordHash), []byte("correct horse battery")))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{ID: 7, Email: email}, nil
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "jamie@example.com",
			Password: "correct horse battery",
			FullName: "Jamie Doe",
			Role:     auth.RoleEmployee,
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("unique violation on insert maps to the same conflict", func(t *testing.T) {
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, user *auth.User) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}
			},
		}

		svc := auth.NewService(repo)
		_, err := svc.Register(ctx, auth.RegisterRequest{
			Email:    "jamie@example.com",
			Password: "correct horse battery",
			FullName: "Jamie Doe",
			Role:     auth.RoleEmployee,
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns a signed token with identity claims", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		repo := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{
					ID:           7,
					Email:        email,
					PasswordHash: mustHash(t, "correct horse battery"),
					Role:         auth.RoleAdmin,
				}, nil
			},
		}

		svc := auth.NewService(repo)
		token, resp, err := svc.Login(ctx, "jamie@example.com", "correct horse battery")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), resp.UserID)

		parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		})
		assert.NoError(t, err)
		assert.True(t, parsed.Valid)

		claims, ok := parsed.Claims.(jwt.MapClaims)
		assert.True(t, ok)
		assert.Equal(t, float64(7), claims["user_id"])
		assert.Equal(t, auth.RoleAdmin, claims["role"])
		assert.NotNil(t, claims["exp"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		knownUser := &fakeUserRepository{
			findByEmailFn: func(ctx context.Context, email string) (*auth.User, error) {
				return &auth.User{ID: 7, PasswordHash: mustHash(t, "correct horse battery")}, nil
			},
		}
		unknownUser := &fakeUserRepository{}

		_, _, errWrongPassword := auth.NewService(knownUser).Login(ctx, "jamie@example.com", "not the password")
		_, _, errUnknownEmail := auth.NewService(unknownUser).Login(ctx, "ghost@example.com", "whatever")

		assert.ErrorIs(t, errWrongPassword, autherrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownEmail, autherrors.ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id int64) (*auth.User, error) {
				assert.Equal(t, int64(7), id)
				return &auth.User{ID: 7, Email: "jamie@example.com", Role: auth.RoleEmployee}, nil
			},
		}

		resp, err := auth.NewService(repo).Me(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, "jamie@example.com", resp.Email)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := auth.NewService(&fakeUserRepository{}).Me(ctx, 7)
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
