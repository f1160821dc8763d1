package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	domainOnce sync.Once
	domainMu   sync.RWMutex

	// CartMigrationItems 登录后游客购物车迁移结果
	CartMigrationItems *prometheus.CounterVec
	// CheckoutTransitions 结算状态迁移次数
	CheckoutTransitions *prometheus.CounterVec
	// PaymentVerifications 支付校验结果
	PaymentVerifications *prometheus.CounterVec
	// PaymentWebhooks 支付回调处理结果
	PaymentWebhooks *prometheus.CounterVec
	// OrdersExpired 超时取消的订单数
	OrdersExpired prometheus.Counter
)

// HTTPMetrics HTTP 请求指标
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics 创建并注册 HTTP 指标
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the storefront.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	registerCollector(reg, m.ReqTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.ReqTotal = v
		}
	})
	registerCollector(reg, m.ReqDur, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			m.ReqDur = v
		}
	})
	registerCollector(reg, m.InFlight, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Gauge); ok {
			m.InFlight = v
		}
	})
	return m
}

// Middleware gin 请求指标中间件，未匹配路由记为 unmatched
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.ReqTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.ReqDur.WithLabelValues(c.Request.Method, route).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

// Handler /metrics 处理器
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// MustRegisterDomainMetrics 初始化并注册业务指标，仅首次调用生效
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		domainMu.Lock()
		defer domainMu.Unlock()

		CartMigrationItems = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_migration_items_total",
			Help:      "Guest cart lines migrated into the customer cart by outcome.",
		}, []string{"result"})
		CheckoutTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_transitions_total",
			Help:      "Checkout session state transitions by target state.",
		}, []string{"state"})
		PaymentVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Payment verification outcomes by provider.",
		}, []string{"provider", "result"})
		PaymentWebhooks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhooks_total",
			Help:      "Payment webhook processing outcomes by provider.",
		}, []string{"provider", "result"})
		OrdersExpired = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_expired_total",
			Help:      "Orders canceled because payment was not completed in time.",
		})

		registerCollector(reg, CartMigrationItems, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartMigrationItems = v
			}
		})
		registerCollector(reg, CheckoutTransitions, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTransitions = v
			}
		})
		registerCollector(reg, PaymentVerifications, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentVerifications = v
			}
		})
		registerCollector(reg, PaymentWebhooks, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PaymentWebhooks = v
			}
		})
		registerCollector(reg, OrdersExpired, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersExpired = v
			}
		})
	})
}

// ObserveCartMigration 记录迁移结果，未注册时忽略
func ObserveCartMigration(migrated, failed int) {
	domainMu.RLock()
	defer domainMu.RUnlock()
	if CartMigrationItems == nil {
		return
	}
	if migrated > 0 {
		CartMigrationItems.WithLabelValues("migrated").Add(float64(migrated))
	}
	if failed > 0 {
		CartMigrationItems.WithLabelValues("failed").Add(float64(failed))
	}
}

// ObserveCheckoutTransition 记录结算状态迁移
func ObserveCheckoutTransition(state string) {
	domainMu.RLock()
	defer domainMu.RUnlock()
	if CheckoutTransitions == nil {
		return
	}
	CheckoutTransitions.WithLabelValues(state).Inc()
}

// ObservePaymentVerification 记录支付校验结果
func ObservePaymentVerification(provider, result string) {
	domainMu.RLock()
	defer domainMu.RUnlock()
	if PaymentVerifications == nil {
		return
	}
	PaymentVerifications.WithLabelValues(provider, result).Inc()
}

// ObservePaymentWebhook 记录回调处理结果
func ObservePaymentWebhook(provider, result string) {
	domainMu.RLock()
	defer domainMu.RUnlock()
	if PaymentWebhooks == nil {
		return
	}
	PaymentWebhooks.WithLabelValues(provider, result).Inc()
}

// ObserveOrderExpired 记录超时取消
func ObserveOrderExpired() {
	domainMu.RLock()
	defer domainMu.RUnlock()
	if OrdersExpired == nil {
		return
	}
	OrdersExpired.Inc()
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector, onExisting func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if onExisting != nil {
				onExisting(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
