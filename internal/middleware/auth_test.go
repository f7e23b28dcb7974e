package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miguel-EMC/clinic-api/internal/utils"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":   c.GetString(CtxUserID),
			"userRole": c.GetString(CtxUserRole),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec := doGet(newRouter(AuthMiddleware()), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec := doGet(newRouter(AuthMiddleware()), "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateJWT("user-7", "staff")
	require.NoError(t, err)

	rec := doGet(newRouter(AuthMiddleware()), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-7")
	assert.Contains(t, rec.Body.String(), "staff")
}

func TestOptionalAuthAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec := doGet(newRouter(OptionalAuth()), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthWithToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateJWT("user-9", "patient")
	require.NoError(t, err)

	rec := doGet(newRouter(OptionalAuth()), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-9")
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	staffToken, err := utils.GenerateJWT("staff-1", "staff")
	require.NoError(t, err)
	patientToken, err := utils.GenerateJWT("patient-1", "patient")
	require.NoError(t, err)

	r := newRouter(AuthMiddleware(), RequireRole("staff", "doctor"))

	assert.Equal(t, http.StatusOK, doGet(r, staffToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, patientToken).Code)
}
