package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func perform(t *testing.T, r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	// 1. Подготовка
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": role})
	})
	token, _, err := tokens.GenerateToken("user-1", models.UserRoleStaffHR)
	require.NoError(t, err)

	// 2. Действие + 3. Проверка
	w := perform(t, r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, w).Error.Code)

	w = perform(t, r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, w).Error.Code)

	w = perform(t, r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","role":"staff_hr"}`, w.Body.String())
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", -time.Minute)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, _, err := tokens.GenerateToken("user-1", models.UserRoleManager)
	require.NoError(t, err)

	w := perform(t, r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, w).Error.Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	r := gin.New()
	r.GET("/users", AuthMiddleware(tokens), RequireRoles(models.UserRoleHeadHR, models.UserRoleStaffHR), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	manager, _, _ := tokens.GenerateToken("m", models.UserRoleManager)
	head, _, _ := tokens.GenerateToken("h", models.UserRoleHeadHR)

	w := perform(t, r, http.MethodGet, "/users", map[string]string{"Authorization": "Bearer " + manager})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, w).Error.Code)

	w = perform(t, r, http.MethodGet, "/users", map[string]string{"Authorization": "Bearer " + head})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInternalKeyMiddleware(t *testing.T) {
	r := gin.New()
	r.PUT("/score", InternalKeyMiddleware("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	closed := gin.New()
	closed.PUT("/score", InternalKeyMiddleware(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, perform(t, r, http.MethodPut, "/score", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, perform(t, r, http.MethodPut, "/score", map[string]string{InternalKeyHeader: "nope"}).Code)
	assert.Equal(t, http.StatusNoContent, perform(t, r, http.MethodPut, "/score", map[string]string{InternalKeyHeader: "s3cret"}).Code)

	// пустой ключ в конфиге - закрыто для всех
	assert.Equal(t, http.StatusUnauthorized, perform(t, closed, http.MethodPut, "/score", map[string]string{InternalKeyHeader: ""}).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	r := gin.New()
	r.POST("/apply", RateLimitMiddleware(limiter), func(c *gin.Context) { c.Status(http.StatusCreated) })

	assert.Equal(t, http.StatusCreated, perform(t, r, http.MethodPost, "/apply", nil).Code)
	assert.Equal(t, http.StatusCreated, perform(t, r, http.MethodPost, "/apply", nil).Code)

	w := perform(t, r, http.MethodPost, "/apply", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "LIMIT_EXCEEDED", decodeError(t, w).Error.Code)

	// другой IP считается отдельно
	assert.True(t, limiter.Allow("10.0.0.99"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(t, r, http.MethodGet, "/ping", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = perform(t, r, http.MethodGet, "/ping", map[string]string{RequestIDHeader: "req-from-gateway"})
	assert.Equal(t, "req-from-gateway", w.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(t, r, http.MethodGet, "/ping", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(t, r, http.MethodGet, "/ping", map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(t, r, http.MethodOptions, "/ping", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
