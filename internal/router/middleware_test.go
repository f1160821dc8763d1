package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/authz"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

type fakeCustomerAuth struct {
	tokens map[string]uint
}

func (f fakeCustomerAuth) Authenticate(_ context.Context, token string) (*service.CustomerJWTClaims, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return &service.CustomerJWTClaims{CustomerID: id, Email: "asha@example.com"}, nil
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestAdminAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AdminAuthMiddleware("", nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestCustomerAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := fakeCustomerAuth{tokens: map[string]uint{"good-token": 42}}
	r := gin.New()
	r.Use(CustomerAuthMiddleware("secret", "aj_session", auth))
	r.GET("/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "customer_id": c.GetUint(customerIDContextKey)})
	})

	cases := []struct {
		name     string
		setup    func(req *http.Request)
		wantCode int
	}{
		{name: "missing token", setup: func(*http.Request) {}, wantCode: 401},
		{name: "malformed header", setup: func(req *http.Request) { req.Header.Set("Authorization", "Token abc") }, wantCode: 401},
		{name: "invalid token", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer bad-token") }, wantCode: 401},
		{name: "bearer token", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer good-token") }, wantCode: 0},
		{name: "session cookie", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "aj_session", Value: "good-token"})
		}, wantCode: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			tc.setup(req)
			r.ServeHTTP(w, req)
			if code := decodeStatusCode(t, w); code != tc.wantCode {
				t.Fatalf("status_code want %d got %d body=%s", tc.wantCode, code, w.Body.String())
			}
		})
	}
}

func TestOptionalCustomerAuthMiddlewareFallsBackToGuest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := fakeCustomerAuth{tokens: map[string]uint{"good-token": 7}}
	r := gin.New()
	r.Use(OptionalCustomerAuthMiddleware("aj_session", auth))
	r.GET("/buy-now", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer_id": c.GetUint(customerIDContextKey)})
	})

	for token, want := range map[string]uint{"good-token": 7, "bad-token": 0, "": 0} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/buy-now", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		var resp struct {
			CustomerID uint `json:"customer_id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		if resp.CustomerID != want {
			t.Fatalf("token %q: customer_id want %d got %d", token, want, resp.CustomerID)
		}
	}
}

func TestAdminRBACMiddlewareSuperBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(isSuper bool) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(adminIDContextKey, uint(1))
			c.Set(adminIsSuperContextKey, isSuper)
			c.Next()
		})
		r.Use(AdminRBACMiddleware(nil))
		r.GET("/api/v1/admin/orders", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status_code": 0})
		})
		return r
	}

	w := httptest.NewRecorder()
	newEngine(true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if code := decodeStatusCode(t, w); code != 0 {
		t.Fatalf("super admin should bypass rbac, got %d", code)
	}

	w = httptest.NewRecorder()
	newEngine(false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("rbac without authz service should reject, got %d", code)
	}
}

func TestAdminRBACMiddlewareRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:router_rbac_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap roles failed: %v", err)
	}
	if err := authzService.SetAdminRoles(7, []string{"support"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(adminIDContextKey, uint(7))
		c.Next()
	})
	r.Use(AdminRBACMiddleware(authzService))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status_code": 0}) }
	r.GET("/api/v1/admin/orders", ok)
	r.PUT("/api/v1/admin/currencies/:code", ok)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if code := decodeStatusCode(t, w); code != 0 {
		t.Fatalf("support should list orders, got %d", code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/admin/currencies/USD", strings.NewReader(`{}`)))
	if code := decodeStatusCode(t, w); code != 403 {
		t.Fatalf("support should not update rates, got %d", code)
	}
}
