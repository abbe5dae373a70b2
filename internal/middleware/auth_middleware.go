package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/pkg/auth"
)

// AdminAuthHeader carries the signed admin session token. The header name is
// kept from the previous contract; its value is now a verified JWT instead of
// a fixed sentinel string.
const AdminAuthHeader = "X-Admin-Auth"

// Context keys set by the auth middleware
const (
	ContextUserID    = "userID"
	ContextUserEmail = "email"
	ContextAdminUser = "adminUser"
)

// AuthMiddleware gates routes on validated tokens
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the Authorization bearer token and sets the uploader
// identity in the request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				message = "Token expired"
			}
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// AdminRequired validates the X-Admin-Auth token before any moderation
// handler runs, so an unauthorized call never reaches the store.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.jwtService.ValidateAdminToken(c.GetHeader(AdminAuthHeader))
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			message := "Admin authentication required"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				message = "Admin session expired"
			}
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(ContextAdminUser, claims.Subject)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated uploader ID, zero when the
// request did not pass JWTAuth.
func UserIDFromContext(c *gin.Context) int64 {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
