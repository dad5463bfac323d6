package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/pkg/apperrors"
	"hrflow_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// InternalKeyHeader - заголовок для межсервисных вызовов (скоринг)
const InternalKeyHeader = "X-Internal-Key"

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.AbortWithError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				apperrors.AbortWithError(c, apperrors.ErrTokenExpired)
				return
			}
			apperrors.AbortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(string(contextkeys.UserIDKey), claims.UserID)
		c.Set(string(contextkeys.UserRoleKey), claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		ctx = logger.WithUserRole(ctx, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles - пропускает только перечисленные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.AbortWithError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}

		if !roleSet[role] {
			apperrors.AbortWithError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// InternalKeyMiddleware - доступ по общему секрету. Пустой ключ в конфиге закрывает группу целиком.
func InternalKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(InternalKeyHeader)
		if key == "" || given == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			apperrors.AbortWithError(c, apperrors.NewUnauthorizedError("Invalid internal key"))
			return
		}
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(string(contextkeys.UserIDKey))
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetRole извлекает роль, положенную AuthMiddleware
func GetRole(c *gin.Context) (models.UserRole, bool) {
	roleVal, exists := c.Get(string(contextkeys.UserRoleKey))
	if !exists {
		return "", false
	}

	switch role := roleVal.(type) {
	case models.UserRole:
		return role, true
	case string:
		return models.UserRole(role), true
	default:
		return "", false
	}
}
