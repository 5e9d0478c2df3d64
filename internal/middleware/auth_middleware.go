package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccnu/student-achievements/internal/app/models"
	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/auth"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
)

const currentUserKey = "currentUser"

// UserResolver loads the stored account behind verified token claims
type UserResolver interface {
	ResolveUser(ctx context.Context, claims *auth.Claims) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// RequireRoles authenticates the bearer token and admits only the given roles.
// Every rejection is a 401; the verified account is stored on the context.
func (m *AuthMiddleware) RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if !claims.Role.In(roles) {
			abortUnauthorized(c, apperrors.NewUnauthorizedError("insufficient permissions"))
			return
		}

		user, err := m.users.ResolveUser(c.Request.Context(), claims)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUnauthorized) {
				logger.Error().Err(err).Str("studentID", claims.StudentID()).Msg("Failed to load authenticated user")
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
				return
			}
			abortUnauthorized(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	var detail *dto.ErrorDetail
	switch {
	case errors.Is(err, apperrors.ErrTokenMissing):
		detail = dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication required").
			WithDetails("Authorization header missing")
	case errors.Is(err, apperrors.ErrTokenExpired):
		detail = dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		detail = dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		detail = dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	default:
		detail = dto.NewErrorDetail(dto.ErrorCodeUnauthorized, apperrors.Message(err, "Access denied"))
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// CurrentUser returns the account stored by RequireRoles
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SetCurrentUser stores user on the context the way RequireRoles does
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}
