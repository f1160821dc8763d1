package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const minPasswordLength = 8

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func resolveExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func hs256Parser() *jwt.Parser {
	return jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}

// AdminJWTClaims 管理员 JWT 声明
type AdminJWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AdminAuthService 管理员认证服务
type AdminAuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAdminAuthService 创建管理员认证服务
func NewAdminAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AdminAuthService {
	return &AdminAuthService{cfg: cfg, adminRepo: adminRepo}
}

// GenerateJWT 生成管理员 Token
func (s *AdminAuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolveExpireHours(s.cfg.JWT)) * time.Hour)
	claims := AdminJWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析管理员 Token
func (s *AdminAuthService) ParseJWT(tokenString string) (*AdminJWTClaims, error) {
	token, err := hs256Parser().ParseWithClaims(tokenString, &AdminJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims, ok := token.Claims.(*AdminJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Login 管理员登录
func (s *AdminAuthService) Login(username, password string) (*models.Admin, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := verifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.adminRepo.TouchLogin(admin.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	admin.LastLoginAt = &now
	_ = cache.SetAdminAuthState(context.Background(), cache.BuildAdminAuthState(admin))
	return admin, token, expiresAt, nil
}

// Authenticate 校验管理员 Token 与当前 Token 版本
func (s *AdminAuthService) Authenticate(ctx context.Context, tokenString string) (*AdminJWTClaims, *cache.AdminAuthState, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, nil, err
	}
	state, hit, err := cache.GetAdminAuthState(ctx, claims.AdminID)
	if err != nil {
		logger.Warnw("admin_auth_state_cache_get_failed", "admin_id", claims.AdminID, "error", err)
	}
	if !hit || state == nil {
		admin, err := s.adminRepo.GetByID(claims.AdminID)
		if err != nil {
			return nil, nil, err
		}
		if admin == nil {
			return nil, nil, ErrTokenInvalid
		}
		state = cache.BuildAdminAuthState(admin)
		_ = cache.SetAdminAuthState(ctx, state)
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrTokenInvalid
	}
	return claims, state, nil
}

// CustomerJWTClaims 顾客 JWT 声明
type CustomerJWTClaims struct {
	CustomerID   uint   `json:"customer_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// CustomerAuthService 顾客认证服务
type CustomerAuthService struct {
	cfg          *config.Config
	customerRepo repository.CustomerRepository
}

// NewCustomerAuthService 创建顾客认证服务
func NewCustomerAuthService(cfg *config.Config, customerRepo repository.CustomerRepository) *CustomerAuthService {
	return &CustomerAuthService{cfg: cfg, customerRepo: customerRepo}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// GenerateJWT 生成顾客 Token
func (s *CustomerAuthService) GenerateJWT(customer *models.Customer) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolveExpireHours(s.cfg.CustomerJWT)) * time.Hour)
	claims := CustomerJWTClaims{
		CustomerID:   customer.ID,
		Email:        customer.Email,
		TokenVersion: customer.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.CustomerJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析顾客 Token
func (s *CustomerAuthService) ParseJWT(tokenString string) (*CustomerJWTClaims, error) {
	token, err := hs256Parser().ParseWithClaims(tokenString, &CustomerJWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.CustomerJWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims, ok := token.Claims.(*CustomerJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Register 顾客注册，成功后直接签发 Token
func (s *CustomerAuthService) Register(input RegisterInput) (*models.Customer, string, time.Time, error) {
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", time.Time{}, ErrPasswordTooShort
	}
	exist, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}
	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = nameFromEmail(email)
	}
	customer := &models.Customer{
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Phone:        strings.TrimSpace(input.Phone),
		Status:       constants.CustomerStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.GenerateJWT(customer)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetCustomerAuthState(context.Background(), cache.BuildCustomerAuthState(customer))
	logger.Infow("customer_registered", "customer_id", customer.ID)
	return customer, token, expiresAt, nil
}

// Login 顾客登录
func (s *CustomerAuthService) Login(email, password string) (*models.Customer, string, time.Time, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	customer, err := s.customerRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if customer == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := verifyPassword(customer.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(customer.Status) != constants.CustomerStatusActive {
		return nil, "", time.Time{}, ErrCustomerDisabled
	}

	token, expiresAt, err := s.GenerateJWT(customer)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	if err := s.customerRepo.TouchLogin(customer.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	customer.LastLoginAt = &now
	_ = cache.SetCustomerAuthState(context.Background(), cache.BuildCustomerAuthState(customer))
	return customer, token, expiresAt, nil
}

// Logout 递增 Token 版本使已签发的 Token 失效
func (s *CustomerAuthService) Logout(ctx context.Context, customerID uint) error {
	if customerID == 0 {
		return ErrInvalidInput
	}
	if err := s.customerRepo.BumpTokenVersion(customerID); err != nil {
		return err
	}
	if err := cache.DelCustomerAuthState(ctx, customerID); err != nil {
		logger.Warnw("customer_auth_state_cache_del_failed", "customer_id", customerID, "error", err)
	}
	return nil
}

// Authenticate 校验顾客 Token、账号状态与 Token 版本
func (s *CustomerAuthService) Authenticate(ctx context.Context, tokenString string) (*CustomerJWTClaims, error) {
	claims, err := s.ParseJWT(tokenString)
	if err != nil {
		return nil, err
	}
	state, hit, err := cache.GetCustomerAuthState(ctx, claims.CustomerID)
	if err != nil {
		logger.Warnw("customer_auth_state_cache_get_failed", "customer_id", claims.CustomerID, "error", err)
	}
	if !hit || state == nil {
		customer, err := s.customerRepo.GetByID(claims.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.BuildCustomerAuthState(customer)
		_ = cache.SetCustomerAuthState(ctx, state)
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	if strings.ToLower(state.Status) != constants.CustomerStatusActive {
		return nil, ErrCustomerDisabled
	}
	return claims, nil
}

// GetCustomer 获取顾客资料
func (s *CustomerAuthService) GetCustomer(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

// SessionStatus 当前请求的登录态
type SessionStatus struct {
	Customer *CustomerJWTClaims `json:"customer,omitempty"`
	Admin    *AdminJWTClaims    `json:"admin,omitempty"`
}

// SessionService 同时校验顾客与管理员登录态
type SessionService struct {
	customers *CustomerAuthService
	admins    *AdminAuthService
}

// NewSessionService 创建登录态服务
func NewSessionService(customers *CustomerAuthService, admins *AdminAuthService) *SessionService {
	return &SessionService{customers: customers, admins: admins}
}

// Check 并发校验两个 Token；无效 Token 视为未登录，仅在存储异常时返回错误
func (s *SessionService) Check(ctx context.Context, customerToken, adminToken string) (*SessionStatus, error) {
	status := &SessionStatus{}
	g, gctx := errgroup.WithContext(ctx)
	if strings.TrimSpace(customerToken) != "" && s.customers != nil {
		g.Go(func() error {
			claims, err := s.customers.Authenticate(gctx, customerToken)
			if err != nil {
				if isAuthRejection(err) {
					return nil
				}
				return err
			}
			status.Customer = claims
			return nil
		})
	}
	if strings.TrimSpace(adminToken) != "" && s.admins != nil {
		g.Go(func() error {
			claims, _, err := s.admins.Authenticate(gctx, adminToken)
			if err != nil {
				if isAuthRejection(err) {
					return nil
				}
				return err
			}
			status.Admin = claims
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return status, nil
}

func isAuthRejection(err error) bool {
	return errors.Is(err, ErrTokenInvalid) || errors.Is(err, ErrCustomerDisabled)
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func nameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
