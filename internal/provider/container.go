package provider

import (
	"time"

	"github.com/aurelia-jewels/storefront/internal/authz"
	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/metrics"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/payment/paypal"
	"github.com/aurelia-jewels/storefront/internal/payment/razorpay"
	"github.com/aurelia-jewels/storefront/internal/queue"
	"github.com/aurelia-jewels/storefront/internal/repository"
	"github.com/aurelia-jewels/storefront/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Store       cache.Store

	// Repositories
	AdminRepo        repository.AdminRepository
	CustomerRepo     repository.CustomerRepository
	AddressRepo      repository.AddressRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	CouponRepo       repository.CouponRepository
	CouponUsageRepo  repository.CouponUsageRepository
	GiftCardRepo     repository.GiftCardRepository
	OrderRepo        repository.OrderRepository
	PaymentRepo      repository.PaymentRepository
	CurrencyRepo     repository.CurrencyRepository
	WishlistRepo     repository.WishlistRepository
	ReviewRepo       repository.ReviewRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthzService         *authz.Service
	AdminAuthService     *service.AdminAuthService
	CustomerAuthService  *service.CustomerAuthService
	SessionService       *service.SessionService
	ProductService       *service.ProductService
	CartService          *service.CartService
	GuestCartService     *service.GuestCartService
	BuyNowService        *service.BuyNowService
	CartMigrationService *service.CartMigrationService
	CouponService        *service.CouponService
	GiftCardService      *service.GiftCardService
	CurrencyService      *service.CurrencyService
	CheckoutService      *service.CheckoutService
	OrderService         *service.OrderService
	AddressService       *service.AddressService
	WishlistService      *service.WishlistService
	ReviewService        *service.ReviewService
	NotificationService  *service.NotificationService
	AdminRoleService     *service.AdminRoleService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 业务指标
	if cfg.Metrics.Enabled {
		metrics.MustRegisterDomainMetrics(cfg.Metrics.Namespace, nil)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Store:       cache.Default(),
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.GiftCardRepo = repository.NewGiftCardRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.CurrencyRepo = repository.NewCurrencyRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AdminAuthService = service.NewAdminAuthService(cfg, c.AdminRepo)
	c.CustomerAuthService = service.NewCustomerAuthService(cfg, c.CustomerRepo)
	c.SessionService = service.NewSessionService(c.CustomerAuthService, c.AdminAuthService)
	c.AdminRoleService = service.NewAdminRoleService(c.AdminRepo, c.AuthzService)

	c.ProductService = service.NewProductService(c.ProductRepo, c.Store)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.GuestCartService = service.NewGuestCartService(c.Store, c.ProductRepo, hours(cfg.Cart.GuestTTLHours))
	c.BuyNowService = service.NewBuyNowService(c.CartService, c.GuestCartService)
	c.CartMigrationService = service.NewCartMigrationService(c.CartService, c.GuestCartService, c.BuyNowService, cfg.Cart.MigrationConcurrency)

	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo)
	c.GiftCardService = service.NewGiftCardService(c.GiftCardRepo)
	c.CurrencyService = service.NewCurrencyService(c.CurrencyRepo, c.Store,
		time.Duration(cfg.Currency.CacheTTLSeconds)*time.Second, cfg.Currency.Base)

	c.OrderService = service.NewOrderService(c.OrderRepo, c.PaymentRepo, c.GiftCardRepo, c.NotificationRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)

	deps := service.CheckoutDeps{
		Store:           c.Store,
		Carts:           c.CartService,
		Coupons:         c.CouponService,
		GiftCards:       c.GiftCardService,
		Currencies:      c.CurrencyService,
		AddressRepo:     c.AddressRepo,
		OrderRepo:       c.OrderRepo,
		PaymentRepo:     c.PaymentRepo,
		CartRepo:        c.CartRepo,
		CouponRepo:      c.CouponRepo,
		CouponUsageRepo: c.CouponUsageRepo,
		GiftCardRepo:    c.GiftCardRepo,
	}
	// 未配置的网关保持 nil 接口，结算时返回 ErrPaymentNotConfigured
	if rzp := razorpay.NewClient(razorpay.Config{
		KeyID:         cfg.Payment.Razorpay.KeyID,
		KeySecret:     cfg.Payment.Razorpay.KeySecret,
		BaseURL:       cfg.Payment.Razorpay.BaseURL,
		WebhookSecret: cfg.Payment.Razorpay.WebhookSecret,
	}, nil); rzp.Validate() == nil {
		deps.Razorpay = rzp
	} else {
		logger.Infow("provider_razorpay_disabled")
	}
	if pp := paypal.NewClient(paypal.Config{
		ClientID:     cfg.Payment.Paypal.ClientID,
		ClientSecret: cfg.Payment.Paypal.ClientSecret,
		BaseURL:      cfg.Payment.Paypal.BaseURL,
		ReturnURL:    cfg.Payment.Paypal.ReturnURL,
		CancelURL:    cfg.Payment.Paypal.CancelURL,
		WebhookID:    cfg.Payment.Paypal.WebhookID,
		BrandName:    cfg.Payment.Paypal.BrandName,
		Currency:     cfg.Payment.Paypal.Currency,
	}, nil); pp.Validate() == nil {
		deps.Paypal = pp
	} else {
		logger.Infow("provider_paypal_disabled")
	}
	if c.QueueClient.Enabled() {
		deps.Tasks = c.QueueClient
	} else {
		deps.Tasks = inlineOrderTasks{orders: c.OrderService}
	}
	c.CheckoutService = service.NewCheckoutService(deps, service.CheckoutOptions{
		SessionTTL:           time.Duration(cfg.Checkout.SessionTTLMinutes) * time.Minute,
		PaymentExpire:        time.Duration(cfg.Order.PaymentExpireMinutes) * time.Minute,
		RedirectDelaySeconds: cfg.Checkout.SuccessRedirectDelaySeconds,
	})
}

// inlineOrderTasks 未启用队列时同步执行支付通知；超时取消交给扫描任务
type inlineOrderTasks struct {
	orders *service.OrderService
}

func (t inlineOrderTasks) EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload, time.Duration) error {
	return nil
}

func (t inlineOrderTasks) EnqueueOrderPaidNotification(payload queue.OrderPaidNotificationPayload) error {
	return t.orders.NotifyPaid(payload.OrderID, payload.CustomerID)
}

func hours(value int) time.Duration {
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Hour
}
