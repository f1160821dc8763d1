package service

import (
	"context"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/cache"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	currencyCacheKey        = "currency:active"
	defaultCurrencyCacheTTL = 10 * time.Minute
)

// CurrencyService 展示币种服务；金额始终以 INR 存储，换算只用于展示
type CurrencyService struct {
	currencyRepo repository.CurrencyRepository
	store        cache.Store
	ttl          time.Duration
	baseCode     string
	group        singleflight.Group
}

// NewCurrencyService 创建币种服务
func NewCurrencyService(currencyRepo repository.CurrencyRepository, store cache.Store, ttl time.Duration, baseCode string) *CurrencyService {
	if store == nil {
		store = cache.Default()
	}
	if ttl <= 0 {
		ttl = defaultCurrencyCacheTTL
	}
	baseCode = strings.ToUpper(strings.TrimSpace(baseCode))
	if baseCode == "" {
		baseCode = constants.BaseCurrencyCode
	}
	return &CurrencyService{
		currencyRepo: currencyRepo,
		store:        store,
		ttl:          ttl,
		baseCode:     baseCode,
	}
}

// List 启用的币种（缓存，并发未命中合并为一次查询）
func (s *CurrencyService) List(ctx context.Context) ([]models.Currency, error) {
	var cached []models.Currency
	found, err := s.store.GetJSON(ctx, currencyCacheKey, &cached)
	if err != nil {
		logger.Warnw("currency_cache_read_failed", "error", err)
	}
	if found {
		return cached, nil
	}

	value, err, _ := s.group.Do(currencyCacheKey, func() (interface{}, error) {
		currencies, err := s.currencyRepo.ListActive()
		if err != nil {
			return nil, err
		}
		if err := s.store.SetJSON(ctx, currencyCacheKey, currencies, s.ttl); err != nil {
			logger.Warnw("currency_cache_write_failed", "error", err)
		}
		return currencies, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.Currency), nil
}

// ListAll 后台查看全部币种
func (s *CurrencyService) ListAll() ([]models.Currency, error) {
	return s.currencyRepo.ListAll()
}

// Resolve 查找启用币种，未知代码回退基准币种
func (s *CurrencyService) Resolve(ctx context.Context, code string) (models.Currency, error) {
	currencies, err := s.List(ctx)
	if err != nil {
		return models.Currency{}, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	var base *models.Currency
	for idx := range currencies {
		if currencies[idx].Code == code {
			return currencies[idx], nil
		}
		if currencies[idx].IsBase || currencies[idx].Code == s.baseCode {
			base = &currencies[idx]
		}
	}
	if base != nil {
		return *base, nil
	}
	return s.fallbackBase(), nil
}

// Convert INR 金额换算为目标币种
func (s *CurrencyService) Convert(ctx context.Context, amount models.Money, code string) (decimal.Decimal, models.Currency, error) {
	currency, err := s.Resolve(ctx, code)
	if err != nil {
		return decimal.Zero, models.Currency{}, err
	}
	return ConvertAmount(amount, currency), currency, nil
}

// DisplayPrice 生成展示价格，如 ₹1,23,456.00
func (s *CurrencyService) DisplayPrice(ctx context.Context, amount models.Money, code string) (string, error) {
	currency, err := s.Resolve(ctx, code)
	if err != nil {
		return "", err
	}
	return FormatDisplayPrice(amount, currency), nil
}

// UpdateRate 更新汇率与符号；基准币种汇率固定为 1
func (s *CurrencyService) UpdateRate(ctx context.Context, code string, rate decimal.Decimal, symbol *string) (*models.Currency, error) {
	currency, err := s.currencyRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, ErrCurrencyNotFound
	}
	if !rate.IsPositive() {
		return nil, ErrCurrencyRateInvalid
	}
	if currency.IsBase && !rate.Equal(decimal.NewFromInt(1)) {
		return nil, ErrCurrencyRateInvalid
	}
	currency.ExchangeRate = rate
	if symbol != nil && strings.TrimSpace(*symbol) != "" {
		currency.Symbol = strings.TrimSpace(*symbol)
	}
	if err := s.currencyRepo.Save(currency); err != nil {
		return nil, err
	}
	if err := s.store.Del(ctx, currencyCacheKey); err != nil {
		logger.Warnw("currency_cache_invalidate_failed", "code", currency.Code, "error", err)
	}
	logger.Infow("currency_rate_updated", "code", currency.Code, "rate", rate.String())
	return currency, nil
}

func (s *CurrencyService) fallbackBase() models.Currency {
	symbol := s.baseCode
	if s.baseCode == constants.BaseCurrencyCode {
		symbol = constants.BaseCurrencySymbol
	}
	return models.Currency{Code: s.baseCode, Symbol: symbol, ExchangeRate: decimal.NewFromInt(1), IsBase: true, IsActive: true}
}

// ConvertAmount 按汇率换算并保留 2 位小数
func ConvertAmount(amount models.Money, currency models.Currency) decimal.Decimal {
	rate := currency.ExchangeRate
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(1)
	}
	return amount.Decimal.Mul(rate).Round(2)
}

// FormatDisplayPrice 符号 + 印度分组格式金额
func FormatDisplayPrice(amount models.Money, currency models.Currency) string {
	return currency.Symbol + FormatIndianGrouping(ConvertAmount(amount, currency))
}

// FormatIndianGrouping 按 en-IN 习惯分组：末三位一组，其余每两位一组，固定 2 位小数
func FormatIndianGrouping(value decimal.Decimal) string {
	fixed := value.Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart := fixed, ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, fracPart = fixed[:dot], fixed[dot:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + fracPart
	}
	head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
	groups := make([]string, 0, len(head)/2+1)
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + "," + tail + fracPart
}
