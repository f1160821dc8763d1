package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid       = errors.New("paypal config invalid")
	ErrAuthFailed          = errors.New("paypal auth failed")
	ErrRequestFailed       = errors.New("paypal request failed")
	ErrResponseInvalid     = errors.New("paypal response invalid")
	ErrWebhookVerifyFailed = errors.New("paypal webhook verify failed")
)

const (
	defaultSandboxBaseURL = "https://api-m.sandbox.paypal.com"
	defaultTimeout        = 12 * time.Second
)

// PayPal 订单状态
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusVoided    = "VOIDED"
)

// Config PayPal 网关配置。
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	ReturnURL    string
	CancelURL    string
	WebhookID    string
	BrandName    string
	Currency     string
}

// Client PayPal REST 客户端。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建客户端，httpClient 为空时使用 http.DefaultClient。
func NewClient(cfg Config, httpClient *http.Client) *Client {
	cfg.normalize()
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// CreateInput 创建 PayPal 订单输入。
type CreateInput struct {
	OrderNo     string
	Amount      string
	Currency    string
	Description string
}

// OrderResult PayPal 订单信息。
type OrderResult struct {
	OrderID       string
	Status        string
	ApprovalURL   string
	CaptureID     string
	CaptureStatus string
	Amount        string
	Currency      string
	PaidAt        *time.Time
	Raw           map[string]interface{}
}

// WebhookEvent PayPal Webhook 事件。
type WebhookEvent struct {
	ID         string                 `json:"id"`
	EventType  string                 `json:"event_type"`
	CreateTime string                 `json:"create_time"`
	Resource   map[string]interface{} `json:"resource"`
	Raw        map[string]interface{}
}

// Currency 结算币种。
func (c *Client) Currency() string {
	return c.cfg.Currency
}

// Validate 校验配置。
func (c *Client) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrConfigInvalid)
	}
	cfg := c.cfg
	if cfg.ClientID == "" {
		return fmt.Errorf("%w: client_id is required", ErrConfigInvalid)
	}
	if cfg.ClientSecret == "" {
		return fmt.Errorf("%w: client_secret is required", ErrConfigInvalid)
	}
	for name, raw := range map[string]string{"base_url": cfg.BaseURL, "return_url": cfg.ReturnURL, "cancel_url": cfg.CancelURL} {
		if raw == "" {
			return fmt.Errorf("%w: %s is required", ErrConfigInvalid, name)
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return fmt.Errorf("%w: %s is invalid", ErrConfigInvalid, name)
		}
	}
	return nil
}

// CreateOrder 创建 PayPal 订单并返回买家跳转链接。
func (c *Client) CreateOrder(ctx context.Context, input CreateInput) (*OrderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = c.cfg.Currency
	}
	if strings.TrimSpace(input.OrderNo) == "" || strings.TrimSpace(input.Amount) == "" {
		return nil, fmt.Errorf("%w: order input is invalid", ErrConfigInvalid)
	}

	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"invoice_id": input.OrderNo,
				"custom_id":  input.OrderNo,
				"amount": map[string]string{
					"currency_code": currency,
					"value":         strings.TrimSpace(input.Amount),
				},
				"description": strings.TrimSpace(input.Description),
			},
		},
		"application_context": c.applicationContext(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
	}

	raw, err := c.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", token, body, "create order")
	if err != nil {
		return nil, err
	}
	result := parseOrder(raw)
	if result.OrderID == "" || result.ApprovalURL == "" {
		return nil, fmt.Errorf("%w: missing order id or approve url", ErrResponseInvalid)
	}
	return result, nil
}

// GetOrder 查询 PayPal 订单。
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is empty", ErrConfigInvalid)
	}
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.doJSON(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), token, nil, "get order")
	if err != nil {
		return nil, err
	}
	result := parseOrder(raw)
	if result.OrderID == "" {
		result.OrderID = orderID
	}
	if result.Status == "" {
		return nil, fmt.Errorf("%w: missing order status", ErrResponseInvalid)
	}
	return result, nil
}

// CaptureOrder 捕获已批准的 PayPal 订单。
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is empty", ErrConfigInvalid)
	}
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	endpoint := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	raw, err := c.doJSON(ctx, http.MethodPost, endpoint, token, []byte("{}"), "capture")
	if err != nil {
		return nil, err
	}
	result := parseOrder(raw)
	if result.OrderID == "" {
		result.OrderID = orderID
	}
	if result.Status == "" {
		return nil, fmt.Errorf("%w: missing capture status", ErrResponseInvalid)
	}
	return result, nil
}

// Captured 订单是否已完成扣款。
func (r *OrderResult) Captured() bool {
	if r == nil {
		return false
	}
	if r.CaptureStatus != "" {
		return strings.EqualFold(r.CaptureStatus, OrderStatusCompleted)
	}
	return strings.EqualFold(r.Status, OrderStatusCompleted)
}

// VerifyWebhookSignature 通过 PayPal 接口校验 Webhook 签名。
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers http.Header, event map[string]interface{}) error {
	if c == nil || c.cfg.WebhookID == "" {
		return fmt.Errorf("%w: webhook_id is required", ErrConfigInvalid)
	}
	payload := map[string]interface{}{
		"transmission_id":   strings.TrimSpace(headers.Get("Paypal-Transmission-Id")),
		"transmission_time": strings.TrimSpace(headers.Get("Paypal-Transmission-Time")),
		"cert_url":          strings.TrimSpace(headers.Get("Paypal-Cert-Url")),
		"auth_algo":         strings.TrimSpace(headers.Get("Paypal-Auth-Algo")),
		"transmission_sig":  strings.TrimSpace(headers.Get("Paypal-Transmission-Sig")),
		"webhook_id":        c.cfg.WebhookID,
		"webhook_event":     event,
	}
	for _, key := range []string{"transmission_id", "transmission_time", "cert_url", "auth_algo", "transmission_sig"} {
		if readString(payload, key) == "" {
			return fmt.Errorf("%w: missing %s", ErrWebhookVerifyFailed, key)
		}
	}

	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal verify payload failed", ErrWebhookVerifyFailed)
	}
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/notifications/verify-webhook-signature", token, body, "verify webhook")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookVerifyFailed, err)
	}
	if strings.ToUpper(readString(resp, "verification_status")) != "SUCCESS" {
		return fmt.Errorf("%w: verify result is not success", ErrWebhookVerifyFailed)
	}
	return nil
}

// ParseWebhookEvent 解析 Webhook 事件。
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: webhook body is empty", ErrResponseInvalid)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: webhook body invalid", ErrResponseInvalid)
	}
	event := &WebhookEvent{
		ID:         strings.TrimSpace(readString(raw, "id")),
		EventType:  strings.TrimSpace(readString(raw, "event_type")),
		CreateTime: strings.TrimSpace(readString(raw, "create_time")),
		Raw:        raw,
	}
	if resource, ok := raw["resource"].(map[string]interface{}); ok {
		event.Resource = resource
	} else {
		event.Resource = map[string]interface{}{}
	}
	if event.EventType == "" {
		return nil, fmt.Errorf("%w: event_type is missing", ErrResponseInvalid)
	}
	return event, nil
}

// RelatedOrderID 提取关联的 PayPal 订单号。
func (e *WebhookEvent) RelatedOrderID() string {
	if e == nil {
		return ""
	}
	if val := strings.TrimSpace(readString(e.Resource, "supplementary_data", "related_ids", "order_id")); val != "" {
		return val
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(e.EventType)), "CHECKOUT.ORDER") {
		return strings.TrimSpace(readString(e.Resource, "id"))
	}
	return ""
}

// CaptureID 提取捕获流水号。
func (e *WebhookEvent) CaptureID() string {
	if e == nil || !strings.HasPrefix(strings.ToUpper(e.EventType), "PAYMENT.CAPTURE") {
		return ""
	}
	return strings.TrimSpace(readString(e.Resource, "id"))
}

// CaptureAmount 提取捕获金额和币种。
func (e *WebhookEvent) CaptureAmount() (string, string) {
	if e == nil {
		return "", ""
	}
	value := strings.TrimSpace(readString(e.Resource, "amount", "value"))
	currency := strings.TrimSpace(readString(e.Resource, "amount", "currency_code"))
	return value, currency
}

// ToPaymentStatus 映射 PayPal 事件到支付状态（success/failed/pending）。
func ToPaymentStatus(eventType, resourceStatus string) (string, bool) {
	eventType = strings.ToUpper(strings.TrimSpace(eventType))
	resourceStatus = strings.ToUpper(strings.TrimSpace(resourceStatus))

	switch eventType {
	case "PAYMENT.CAPTURE.COMPLETED", "CHECKOUT.ORDER.COMPLETED":
		return "success", true
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED", "PAYMENT.CAPTURE.FAILED", "CHECKOUT.ORDER.DENIED":
		return "failed", true
	case "PAYMENT.CAPTURE.PENDING", "CHECKOUT.ORDER.APPROVED":
		return "pending", true
	}

	switch resourceStatus {
	case OrderStatusCompleted:
		return "success", true
	case "DENIED", "DECLINED", "FAILED", OrderStatusVoided:
		return "failed", true
	case "PENDING", OrderStatusApproved, OrderStatusCreated, "SAVED":
		return "pending", true
	}
	return "", false
}

func (c *Config) normalize() {
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.ClientSecret = strings.TrimSpace(c.ClientSecret)
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultSandboxBaseURL
	}
	c.ReturnURL = strings.TrimSpace(c.ReturnURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.WebhookID = strings.TrimSpace(c.WebhookID)
	c.BrandName = strings.TrimSpace(c.BrandName)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = "USD"
	}
}

func (c *Client) applicationContext() map[string]string {
	ctx := map[string]string{
		"return_url":          c.cfg.ReturnURL,
		"cancel_url":          c.cfg.CancelURL,
		"user_action":         "PAY_NOW",
		"shipping_preference": "NO_SHIPPING",
	}
	if c.cfg.BrandName != "" {
		ctx["brand_name"] = c.cfg.BrandName
	}
	return ctx
}

func parseOrder(raw map[string]interface{}) *OrderResult {
	result := &OrderResult{Raw: raw}
	result.OrderID = strings.TrimSpace(readString(raw, "id"))
	result.Status = strings.ToUpper(strings.TrimSpace(readString(raw, "status")))
	result.ApprovalURL = extractLinkByRel(raw, "approve")
	result.Amount = strings.TrimSpace(readString(raw, "purchase_units", "0", "amount", "value"))
	result.Currency = strings.TrimSpace(readString(raw, "purchase_units", "0", "amount", "currency_code"))

	captures := readArray(raw, "purchase_units", "0", "payments", "captures")
	if len(captures) > 0 {
		if capture, ok := captures[0].(map[string]interface{}); ok {
			result.CaptureID = strings.TrimSpace(readString(capture, "id"))
			result.CaptureStatus = strings.ToUpper(strings.TrimSpace(readString(capture, "status")))
			if value := strings.TrimSpace(readString(capture, "amount", "value")); value != "" {
				result.Amount = value
				result.Currency = strings.TrimSpace(readString(capture, "amount", "currency_code"))
			}
			if rawTime := strings.TrimSpace(readString(capture, "create_time")); rawTime != "" {
				if parsed, err := time.Parse(time.RFC3339, rawTime); err == nil {
					result.PaidAt = &parsed
				}
			}
		}
	}
	return result
}

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader(values.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build token request failed", ErrAuthFailed)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request token failed", ErrAuthFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response failed", ErrAuthFailed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode token response failed", ErrAuthFailed)
	}
	token := strings.TrimSpace(readString(parsed, "access_token"))
	if token == "" {
		return "", fmt.Errorf("%w: access_token is empty", ErrAuthFailed)
	}
	return token, nil
}

// doJSON 发送请求并解析 2xx JSON 响应
func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, body []byte, action string) (map[string]interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

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
		return nil, fmt.Errorf("%w: %s status %d", ErrResponseInvalid, action, resp.StatusCode)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

func extractLinkByRel(raw map[string]interface{}, rel string) string {
	links, ok := raw["links"].([]interface{})
	if !ok {
		return ""
	}
	rel = strings.ToLower(strings.TrimSpace(rel))
	for _, item := range links {
		linkMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.ToLower(strings.TrimSpace(readString(linkMap, "rel"))) != rel {
			continue
		}
		if href := strings.TrimSpace(readString(linkMap, "href")); href != "" {
			return href
		}
	}
	return ""
}

func readString(raw map[string]interface{}, path ...string) string {
	if raw == nil {
		return ""
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return ""
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = next[seg]
	}
	if current == nil {
		return ""
	}
	if str, ok := current.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", current)
}

func readArray(raw map[string]interface{}, path ...string) []interface{} {
	if raw == nil {
		return nil
	}
	var current interface{} = raw
	for _, seg := range path {
		if idx, err := strconv.Atoi(seg); err == nil {
			arr, ok := current.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return nil
			}
			current = arr[idx]
			continue
		}
		next, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = next[seg]
	}
	arr, ok := current.([]interface{})
	if !ok {
		return nil
	}
	return arr
}
