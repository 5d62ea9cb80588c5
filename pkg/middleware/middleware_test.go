package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autumhire/pkg/utils"
)

func newRouter(issuer *utils.TokenIssuer, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceIDMiddleware())
	chain := []gin.HandlerFunc{JWTAuthMiddleware(issuer)}
	if len(roles) > 0 {
		chain = append(chain, RoleMiddleware(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID))
	})
	r.GET("/private", chain...)
	return r
}

func TestJWTAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := newRouter(utils.NewTokenIssuer("k", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Header().Get("X-Trace-ID") == "" {
		t.Fatal("expected trace id header")
	}
}

func TestJWTAuthMiddlewareSetsUser(t *testing.T) {
	issuer := utils.NewTokenIssuer("k", time.Hour)
	r := newRouter(issuer)
	userID := uuid.New()
	token, _ := issuer.CreateToken(userID, "normal", nil)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != userID.String() {
		t.Fatalf("expected user id in context, got %s", w.Body.String())
	}
}

func TestRoleMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("k", time.Hour)
	r := newRouter(issuer, "super")

	for role, want := range map[string]int{"super": http.StatusOK, "admin": http.StatusForbidden} {
		token, _ := issuer.CreateToken(uuid.New(), role, nil)
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Fatalf("role %s: expected %d, got %d", role, want, w.Code)
		}
	}
}
