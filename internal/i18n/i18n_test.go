package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{name: "default", header: nil, want: LocaleEnIN},
		{name: "x-locale wins", header: map[string]string{"X-Locale": "hi-IN", "Accept-Language": "en-US"}, want: LocaleHiIN},
		{name: "accept language", header: map[string]string{"Accept-Language": "fr-FR, hi;q=0.8"}, want: LocaleHiIN},
		{name: "unsupported", header: map[string]string{"Accept-Language": "fr-FR"}, want: LocaleEnIN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleHiIN, "error.address_required"); got == "error.address_required" {
		t.Fatalf("expected translated message")
	}
	if got := T("xx", "error.address_required"); got != catalog[DefaultLocale]["error.address_required"] {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEnIN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[LocaleEnIN] {
		if _, ok := catalog[LocaleHiIN][key]; !ok {
			t.Fatalf("hi-IN missing key %s", key)
		}
	}
}

func TestSprintfMigrationMessage(t *testing.T) {
	got := Sprintf(LocaleEnIN, "cart.migration_partial", 2, 5)
	if got != "2 of 5 items couldn't be migrated" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestSprintfNotificationBody(t *testing.T) {
	got := Sprintf(LocaleEnIN, "notification.order_paid_body", "AJ20261019", "3000.00")
	if got != "We received ₹3000.00 for order AJ20261019" {
		t.Fatalf("unexpected message: %s", got)
	}
}
