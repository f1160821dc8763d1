package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, orders map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "cid" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "token-1"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"PP-1","status":"CREATED","links":[{"rel":"self","href":"https://x/self"},{"rel":"approve","href":"https://x/approve"}]}`))
	})
	mux.HandleFunc("/v2/checkout/orders/PP-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(orders["get"]))
	})
	mux.HandleFunc("/v2/checkout/orders/PP-1/capture", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte(orders["capture"]))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		BaseURL:      baseURL,
		ReturnURL:    "https://shop.example.com/checkout/paypal/return",
		CancelURL:    "https://shop.example.com/checkout/paypal/cancel",
		Currency:     "usd",
	}, nil)
}

func TestValidate(t *testing.T) {
	client := NewClient(Config{ClientSecret: "secret"}, nil)
	if err := client.Validate(); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}
	client = newTestClient("https://api-m.sandbox.paypal.com")
	if err := client.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if client.Currency() != "USD" {
		t.Fatalf("currency should be normalized, got %s", client.Currency())
	}
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	client := NewClient(Config{}, nil)
	if client.cfg.BaseURL != defaultSandboxBaseURL {
		t.Fatalf("unexpected base url: %s", client.cfg.BaseURL)
	}
}

func TestCreateOrder(t *testing.T) {
	server := newTestServer(t, nil)
	client := newTestClient(server.URL)

	result, err := client.CreateOrder(context.Background(), CreateInput{OrderNo: "AJ1001", Amount: "12.34"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.OrderID != "PP-1" || result.ApprovalURL != "https://x/approve" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestGetOrderAndCapture(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"get":     `{"id":"PP-1","status":"APPROVED"}`,
		"capture": `{"id":"PP-1","status":"COMPLETED","purchase_units":[{"payments":{"captures":[{"id":"CAP-1","status":"COMPLETED","create_time":"2026-01-02T03:04:05Z","amount":{"value":"12.34","currency_code":"USD"}}]}}]}`,
	})
	client := newTestClient(server.URL)

	order, err := client.GetOrder(context.Background(), "PP-1")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.Status != OrderStatusApproved || order.Captured() {
		t.Fatalf("approved order should not be captured: %+v", order)
	}

	captured, err := client.CaptureOrder(context.Background(), "PP-1")
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if !captured.Captured() || captured.CaptureID != "CAP-1" || captured.Amount != "12.34" {
		t.Fatalf("unexpected capture: %+v", captured)
	}
	if captured.PaidAt == nil || captured.PaidAt.Year() != 2026 {
		t.Fatalf("paid at not parsed: %v", captured.PaidAt)
	}
}

func TestAuthFailure(t *testing.T) {
	server := newTestServer(t, nil)
	client := NewClient(Config{
		ClientID:     "cid",
		ClientSecret: "wrong",
		BaseURL:      server.URL,
		ReturnURL:    "https://shop.example.com/r",
		CancelURL:    "https://shop.example.com/c",
	}, nil)
	if _, err := client.GetOrder(context.Background(), "PP-1"); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected auth failed, got %v", err)
	}
}

func TestToPaymentStatus(t *testing.T) {
	cases := []struct {
		event  string
		status string
		want   string
		ok     bool
	}{
		{event: "PAYMENT.CAPTURE.COMPLETED", want: "success", ok: true},
		{event: "PAYMENT.CAPTURE.DENIED", want: "failed", ok: true},
		{event: "CHECKOUT.ORDER.APPROVED", want: "pending", ok: true},
		{event: "UNKNOWN", status: "VOIDED", want: "failed", ok: true},
		{event: "UNKNOWN", status: "WHATEVER", want: "", ok: false},
	}
	for _, tc := range cases {
		got, ok := ToPaymentStatus(tc.event, tc.status)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s/%s: want %s,%v got %s,%v", tc.event, tc.status, tc.want, tc.ok, got, ok)
		}
	}
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-9","status":"COMPLETED","amount":{"value":"20.00","currency_code":"USD"},"supplementary_data":{"related_ids":{"order_id":"PP-9"}}}}`)
	event, err := ParseWebhookEvent(body)
	if err != nil {
		t.Fatalf("parse webhook failed: %v", err)
	}
	if event.RelatedOrderID() != "PP-9" {
		t.Fatalf("unexpected related order id: %s", event.RelatedOrderID())
	}
	if event.CaptureID() != "CAP-9" {
		t.Fatalf("unexpected capture id: %s", event.CaptureID())
	}
	value, currency := event.CaptureAmount()
	if value != "20.00" || currency != "USD" {
		t.Fatalf("unexpected amount: %s %s", value, currency)
	}

	if _, err := ParseWebhookEvent([]byte(`{"id":"x"}`)); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("missing event type should fail, got %v", err)
	}
}

func TestVerifyWebhookSignatureRequiresHeaders(t *testing.T) {
	client := NewClient(Config{WebhookID: "WH"}, nil)
	err := client.VerifyWebhookSignature(context.Background(), http.Header{}, map[string]interface{}{})
	if !errors.Is(err, ErrWebhookVerifyFailed) {
		t.Fatalf("expected verify failed, got %v", err)
	}
}
