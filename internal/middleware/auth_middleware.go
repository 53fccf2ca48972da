package middleware

import (
	"fmt"
	"os"
	"strings"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/contextutil"
	"leavedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware resolves the caller from the bearer token and stores
// user_id and role in both the gin context and the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.CodeUnauthorized, "No token provided", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "Invalid token claims", nil)
			c.Abort()
			return
		}

		// user_id is issued as a JSON number
		rawUserID, ok := claims["user_id"].(float64)
		if !ok || rawUserID <= 0 {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "User ID not found in token", nil)
			c.Abort()
			return
		}
		userID := int64(rawUserID)

		role, _ := claims["role"].(string)
		if role == "" {
			response.Error(c, autherrors.ErrInvalidToken.HTTPStatus, autherrors.ErrInvalidToken.Code, "Role not found in token", nil)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)

		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware gates a route group to the given roles. Runs after
// AuthMiddleware; a missing role means the caller never authenticated.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
