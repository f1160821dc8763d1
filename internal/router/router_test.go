package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type routerFixture struct {
	engine  *gin.Engine
	variant models.ProductVariant
	size    models.VariantSize
}

func setupRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cache.SetDefault(nil)

	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	models.DB = db
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	product := models.Product{Slug: "solitaire-ring", Name: "Solitaire Ring", Category: "rings", IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := models.ProductVariant{
		ProductID:  product.ID,
		SKU:        "RING-18K",
		Metal:      "gold",
		MRP:        models.MustMoney("1200.00"),
		FinalPrice: models.MustMoney("1000.00"),
		IsActive:   true,
	}
	if err := db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	size := models.VariantSize{VariantID: variant.ID, Label: "12", IsActive: true}
	if err := db.Create(&size).Error; err != nil {
		t.Fatalf("create size failed: %v", err)
	}

	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: "debug"},
		JWT:         config.JWTConfig{SecretKey: "admin-secret-for-router-tests-0001", ExpireHours: 2},
		CustomerJWT: config.JWTConfig{SecretKey: "customer-secret-for-router-tests-01", ExpireHours: 2},
		Session:     config.SessionConfig{CookieName: "aj_session"},
		Cart:        config.CartConfig{GuestCookieName: "guest_cart_id", GuestTTLHours: 72, MigrationConcurrency: 2},
		Checkout:    config.CheckoutConfig{SessionTTLMinutes: 30, SuccessRedirectDelaySeconds: 3},
		Order:       config.OrderConfig{PaymentExpireMinutes: 15},
		Currency:    config.CurrencyConfig{Base: "INR", CacheTTLSeconds: 60},
	}
	return routerFixture{
		engine:  SetupRouter(cfg, provider.NewContainer(cfg)),
		variant: variant,
		size:    size,
	}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}, prepare func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if prepare != nil {
		prepare(req)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal %s %s failed: %v body=%s", method, path, err, w.Body.String())
	}
	return w, resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestGuestCartMigratesOnRegister(t *testing.T) {
	f := setupRouterFixture(t)

	item := gin.H{
		"product_variant_id": f.variant.ID,
		"option_id":          f.size.ID,
		"option_type":        constants.OptionTypeSize,
		"quantity":           2,
	}
	w, resp := doJSON(t, f.engine, http.MethodPost, "/api/v1/guest/cart/items", item, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("add guest item status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	guestCookie := findCookie(w, "guest_cart_id")
	if guestCookie == nil || guestCookie.Value == "" {
		t.Fatalf("guest cookie should be issued")
	}
	withGuest := func(req *http.Request) { req.AddCookie(guestCookie) }

	_, resp = doJSON(t, f.engine, http.MethodGet, "/api/v1/guest/cart", nil, withGuest)
	var guestCart models.GuestCart
	if err := json.Unmarshal(resp.Data, &guestCart); err != nil {
		t.Fatalf("decode guest cart failed: %v", err)
	}
	if guestCart.Count != 1 || guestCart.Items[0].Quantity != 2 {
		t.Fatalf("guest cart want 1 line x2 got %+v", guestCart)
	}

	w, resp = doJSON(t, f.engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "asha@example.com",
		"password": "s3cret-pass",
	}, withGuest)
	if resp.StatusCode != 0 {
		t.Fatalf("register status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	session := findCookie(w, "aj_session")
	if session == nil || session.Value == "" {
		t.Fatalf("session cookie should be issued on register")
	}
	withSession := func(req *http.Request) { req.AddCookie(session) }

	_, resp = doJSON(t, f.engine, http.MethodGet, "/api/v1/cart", nil, withSession)
	var view struct {
		Cart struct {
			Items []models.CartItem `json:"cart_items"`
		} `json:"cart"`
	}
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Quantity != 2 {
		t.Fatalf("migrated cart want 1 line x2 got %+v", view.Cart.Items)
	}

	_, resp = doJSON(t, f.engine, http.MethodGet, "/api/v1/guest/cart", nil, withGuest)
	if err := json.Unmarshal(resp.Data, &guestCart); err != nil {
		t.Fatalf("decode guest cart failed: %v", err)
	}
	if guestCart.Count != 0 {
		t.Fatalf("guest cart should be cleared after migration, got %d lines", guestCart.Count)
	}
}

func TestCheckoutRequiresAddress(t *testing.T) {
	f := setupRouterFixture(t)

	w, resp := doJSON(t, f.engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "ravi@example.com",
		"password": "s3cret-pass",
	}, nil)
	if resp.StatusCode != 0 {
		t.Fatalf("register status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	session := findCookie(w, "aj_session")
	withSession := func(req *http.Request) { req.AddCookie(session) }

	_, resp = doJSON(t, f.engine, http.MethodPost, "/api/v1/checkout/orders", gin.H{"payment_method": "razorpay"}, withSession)
	if resp.StatusCode != 400 {
		t.Fatalf("place order without address want 400 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
}

func TestCustomerRoutesRequireSession(t *testing.T) {
	f := setupRouterFixture(t)

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/checkout/quote"} {
		_, resp := doJSON(t, f.engine, http.MethodGet, path, nil, nil)
		if resp.StatusCode != 401 {
			t.Fatalf("%s without session want 401 got %d", path, resp.StatusCode)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := setupRouterFixture(t)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health want 200 got %d", w.Code)
	}
}
