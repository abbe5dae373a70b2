package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		AdminTokenExp:  time.Hour,
		TokenIssuer:    "qpshare.test",
	})
}

func adminRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/admin/papers", m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAdminRequiredRejectsMissingHeader(t *testing.T) {
	router := adminRouter(NewAuthMiddleware(testJWTService()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/papers", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAdminRequiredRejectsStaticSentinel(t *testing.T) {
	router := adminRouter(NewAuthMiddleware(testJWTService()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/papers", nil)
	req.Header.Set(AdminAuthHeader, "admin-authenticated")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("guessable header value must not authenticate, got %d", w.Code)
	}
}

func TestAdminRequiredRejectsUploaderToken(t *testing.T) {
	jwtService := testJWTService()
	router := adminRouter(NewAuthMiddleware(jwtService))

	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 5, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/papers", nil)
	req.Header.Set(AdminAuthHeader, token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("uploader token must not open admin routes, got %d", w.Code)
	}
}

func TestAdminRequiredAcceptsAdminToken(t *testing.T) {
	jwtService := testJWTService()
	router := adminRouter(NewAuthMiddleware(jwtService))

	token, err := jwtService.GenerateAdminToken("reviewer")
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/papers", nil)
	req.Header.Set(AdminAuthHeader, token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("valid admin token rejected, got %d", w.Code)
	}
}

func TestJWTAuthSetsUserID(t *testing.T) {
	jwtService := testJWTService()
	m := NewAuthMiddleware(jwtService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	var gotID int64
	router.POST("/api/v1/papers", m.JWTAuth(), func(c *gin.Context) {
		gotID = UserIDFromContext(c)
		c.Status(http.StatusOK)
	})

	token, _, err := jwtService.GenerateAccessToken(&models.User{ID: 42, Email: "s@example.com"})
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("valid token rejected, got %d", w.Code)
	}
	if gotID != 42 {
		t.Fatalf("userID in context = %d, want 42", gotID)
	}
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(testJWTService())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/papers", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
