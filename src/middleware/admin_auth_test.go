package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories/mock"
	"github.com/vfmayliv/skidqi-admin-auth/src/services"
)

func newTestAuthService(t *testing.T) *services.AuthService {
	t.Helper()

	limiter := services.NewLoginRateLimiter(5, 15*time.Minute)
	t.Cleanup(limiter.Stop)

	issuer, err := services.NewTokenIssuer("test-secret-for-unit-tests-32ch!", services.SessionTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	return services.NewAuthService(
		mock.NewAdminRepository(),
		mock.NewSessionRepository(),
		services.NewActivityService(mock.NewActivityRepository()),
		limiter,
		issuer,
		services.AuthConfig{},
	)
}

func serveProtected(t *testing.T, authService *services.AuthService, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	_, router := gin.CreateTestContext(w)
	router.Use(AdminAuthMiddleware(authService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMiddleware_MissingToken(t *testing.T) {
	w := serveProtected(t, newTestAuthService(t), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_MalformedHeader(t *testing.T) {
	w := serveProtected(t, newTestAuthService(t), "Token abc")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}

func TestAdminAuthMiddleware_InvalidToken(t *testing.T) {
	w := serveProtected(t, newTestAuthService(t), "Bearer invalid_token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}
