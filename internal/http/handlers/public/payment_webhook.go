package public

import (
	"io"
	"strings"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// RazorpayWebhook Razorpay webhook 回调，签名为原始请求体的 HMAC。
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	log := handlershared.RequestLog(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Warnw("razorpay_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	signature := strings.TrimSpace(c.GetHeader("X-Razorpay-Signature"))
	log.Infow("razorpay_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"event_id", strings.TrimSpace(c.GetHeader("X-Razorpay-Event-Id")),
	)
	if err := h.CheckoutService.HandleRazorpayWebhook(c.Request.Context(), body, signature); err != nil {
		log.Warnw("razorpay_webhook_handle_failed", "error", err)
		respondWebhookError(c, err)
		return
	}
	response.Success(c, gin.H{"accepted": true})
}

// PaypalWebhook PayPal webhook 回调，签名经 PayPal 接口校验。
func (h *Handler) PaypalWebhook(c *gin.Context) {
	log := handlershared.RequestLog(c)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		log.Warnw("paypal_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	log.Infow("paypal_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"paypal_transmission_id", strings.TrimSpace(c.GetHeader("Paypal-Transmission-Id")),
		"paypal_auth_algo", strings.TrimSpace(c.GetHeader("Paypal-Auth-Algo")),
	)
	if err := h.CheckoutService.HandlePaypalWebhook(c.Request.Context(), c.Request.Header, body); err != nil {
		log.Warnw("paypal_webhook_handle_failed", "error", err)
		respondWebhookError(c, err)
		return
	}
	response.Success(c, gin.H{"accepted": true})
}
