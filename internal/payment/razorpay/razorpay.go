package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid       = errors.New("razorpay config invalid")
	ErrRequestFailed       = errors.New("razorpay request failed")
	ErrResponseInvalid     = errors.New("razorpay response invalid")
	ErrSignatureInvalid    = errors.New("razorpay signature invalid")
	ErrWebhookVerifyFailed = errors.New("razorpay webhook verify failed")
)

const (
	defaultBaseURL = "https://api.razorpay.com"
	defaultTimeout = 12 * time.Second

	// EventPaymentCaptured 扣款成功事件
	EventPaymentCaptured = "payment.captured"
	// EventPaymentFailed 扣款失败事件
	EventPaymentFailed = "payment.failed"
	// EventOrderPaid 订单已支付事件
	EventOrderPaid = "order.paid"
)

// Config Razorpay 网关配置。
type Config struct {
	KeyID         string
	KeySecret     string
	BaseURL       string
	WebhookSecret string
}

// Client Razorpay REST 客户端。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端。
func NewClient(cfg Config, httpClient *http.Client) *Client {
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	cfg.KeySecret = strings.TrimSpace(cfg.KeySecret)
	cfg.WebhookSecret = strings.TrimSpace(cfg.WebhookSecret)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// KeyID 前端 Checkout 使用的公钥。
func (c *Client) KeyID() string {
	return c.cfg.KeyID
}

// Validate 校验配置。
func (c *Client) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrConfigInvalid)
	}
	if c.cfg.KeyID == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if c.cfg.KeySecret == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

// CreateInput 创建网关订单输入，金额单位为最小货币单位（paise）。
type CreateInput struct {
	Receipt  string
	Amount   int64
	Currency string
	Notes    map[string]string
}

// Order 网关订单。
type Order struct {
	ID       string                 `json:"id"`
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Status   string                 `json:"status"`
	Raw      map[string]interface{} `json:"-"`
}

// CreateOrder 创建 Razorpay 订单。
func (c *Client) CreateOrder(ctx context.Context, input CreateInput) (*Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "INR"
	}
	payload := map[string]interface{}{
		"amount":   input.Amount,
		"currency": currency,
		"receipt":  strings.TrimSpace(input.Receipt),
	}
	if len(input.Notes) > 0 {
		payload["notes"] = input.Notes
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	respBody, err := c.do(ctx, http.MethodPost, "/v1/orders", body)
	if err != nil {
		return nil, err
	}
	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: decode order failed", ErrResponseInvalid)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: order id is empty", ErrResponseInvalid)
	}
	_ = json.Unmarshal(respBody, &order.Raw)
	return &order, nil
}

// VerifyPaymentSignature 校验 Checkout 回传签名：HMAC_SHA256(order_id|payment_id, key_secret)。
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	if c == nil || c.cfg.KeySecret == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.ToLower(strings.TrimSpace(signature))
	if orderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: missing fields", ErrSignatureInvalid)
	}
	expected := ComputeSignature(c.cfg.KeySecret, []byte(orderID+"|"+paymentID))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature 校验 X-Razorpay-Signature。
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	if c == nil || c.cfg.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" {
		return fmt.Errorf("%w: signature header is missing", ErrWebhookVerifyFailed)
	}
	expected := ComputeSignature(c.cfg.WebhookSecret, body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrWebhookVerifyFailed
	}
	return nil
}

// WebhookEvent Razorpay Webhook 事件中关心的字段。
type WebhookEvent struct {
	Event     string
	OrderID   string
	PaymentID string
	Amount    int64
	Currency  string
	Status    string
}

// ParseWebhookEvent 解析 Webhook 事件。
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var raw struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID       string `json:"id"`
					OrderID  string `json:"order_id"`
					Amount   int64  `json:"amount"`
					Currency string `json:"currency"`
					Status   string `json:"status"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: webhook body invalid", ErrResponseInvalid)
	}
	if strings.TrimSpace(raw.Event) == "" {
		return nil, fmt.Errorf("%w: event is missing", ErrResponseInvalid)
	}
	entity := raw.Payload.Payment.Entity
	return &WebhookEvent{
		Event:     strings.TrimSpace(raw.Event),
		OrderID:   strings.TrimSpace(entity.OrderID),
		PaymentID: strings.TrimSpace(entity.ID),
		Amount:    entity.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(entity.Currency)),
		Status:    strings.TrimSpace(entity.Status),
	}, nil
}

// ToMinorAmount 元转 paise
func ToMinorAmount(amount decimal.Decimal) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	minor := amount.Shift(2).Round(0)
	return minor.IntPart(), nil
}

// ComputeSignature 计算十六进制 HMAC-SHA256
func ComputeSignature(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request failed", ErrRequestFailed)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrResponseInvalid, resp.StatusCode)
	}
	return respBody, nil
}
