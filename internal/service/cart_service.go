package service

import (
	"errors"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

// CartService 登录顾客购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	resolver variantResolver
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		resolver: variantResolver{productRepo: productRepo},
	}
}

// CartItemInput 加购输入
type CartItemInput struct {
	ProductVariantID uint   `json:"product_variant_id"`
	OptionID         uint   `json:"option_id"`
	OptionType       string `json:"option_type"`
	Quantity         int    `json:"quantity"`
	BaseVersion      *int64 `json:"base_version,omitempty"`
}

// CartBody 购物车主体
type CartBody struct {
	ID      uint              `json:"id"`
	Version int64             `json:"version"`
	Items   []models.CartItem `json:"cart_items"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	CartItemsCount int          `json:"cart_items_count"`
	GrandTotal     models.Money `json:"grand_total"`
	SubTotal       models.Money `json:"sub_total"`
	TotalDiscount  models.Money `json:"total_discount"`
}

// CartView 对账后的完整购物车
type CartView struct {
	Cart    CartBody    `json:"cart"`
	Summary CartSummary `json:"cart_summary"`
}

// Empty 是否为空车
func (v *CartView) Empty() bool {
	return v == nil || len(v.Cart.Items) == 0
}

// Fetch 获取购物车（不存在时创建）
func (s *CartService) Fetch(customerID uint) (*CartView, error) {
	cart, err := s.cartRepo.Ensure(customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrNotFound
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	return buildCartView(cart, items), nil
}

// AddItem 加入购物车，相同款式与选项合并数量
func (s *CartService) AddItem(customerID uint, input CartItemInput) (*CartView, error) {
	quantity, err := normalizeAddQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.resolve(input.ProductVariantID, input.OptionType, input.OptionID)
	if err != nil {
		return nil, err
	}
	optionType := resolved.Option.Type()
	optionID := resolved.Option.ID()

	return s.mutate(customerID, input.BaseVersion, func(repo *repository.GormCartRepository, cart *models.Cart) error {
		existing, err := repo.FindItem(cart.ID, resolved.Variant.ID, optionType, optionID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := checkStock(resolved.Variant, quantity); err != nil {
				return err
			}
			return repo.CreateItem(&models.CartItem{
				CartID:           cart.ID,
				ProductVariantID: resolved.Variant.ID,
				OptionType:       optionType,
				OptionID:         optionID,
				Quantity:         quantity,
				PriceAtAddition:  resolved.Variant.FinalPrice.MulQty(quantity),
			})
		}
		merged := existing.Quantity + quantity
		if err := checkStock(resolved.Variant, merged); err != nil {
			return err
		}
		existing.Quantity = merged
		existing.PriceAtAddition = resolved.Variant.FinalPrice.MulQty(merged)
		logger.Debugw("cart_item_merged",
			"customer_id", customerID,
			"variant_id", resolved.Variant.ID,
			"option", describeOption(resolved.Option),
			"quantity", merged,
		)
		return repo.UpdateItem(existing)
	})
}

// UpdateQuantity 增减数量；减到 1 后不再减少
func (s *CartService) UpdateQuantity(customerID, itemID uint, action string, baseVersion *int64) (*CartView, error) {
	if action != constants.CartActionIncrement && action != constants.CartActionDecrement {
		return nil, ErrCartActionInvalid
	}
	return s.mutate(customerID, baseVersion, func(repo *repository.GormCartRepository, cart *models.Cart) error {
		item, err := repo.GetItem(cart.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		variant := item.ProductVariant
		if variant == nil || !variant.IsActive {
			return ErrVariantInactive
		}
		quantity := nextQuantity(item.Quantity, action)
		if action == constants.CartActionIncrement {
			if err := checkStock(variant, quantity); err != nil {
				return err
			}
		}
		item.Quantity = quantity
		item.PriceAtAddition = variant.FinalPrice.MulQty(quantity)
		return repo.UpdateItem(item)
	})
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(customerID, itemID uint, baseVersion *int64) (*CartView, error) {
	return s.mutate(customerID, baseVersion, func(repo *repository.GormCartRepository, cart *models.Cart) error {
		item, err := repo.GetItem(cart.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		return repo.DeleteItem(cart.ID, itemID)
	})
}

// Clear 清空购物车
func (s *CartService) Clear(customerID uint) (*CartView, error) {
	return s.mutate(customerID, nil, func(repo *repository.GormCartRepository, cart *models.Cart) error {
		return repo.ClearItems(cart.ID)
	})
}

// ReplaceWith 用单个商品替换整个购物车（立即购买）
func (s *CartService) ReplaceWith(customerID uint, input CartItemInput) (*CartView, error) {
	quantity, err := normalizeAddQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.resolve(input.ProductVariantID, input.OptionType, input.OptionID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(resolved.Variant, quantity); err != nil {
		return nil, err
	}
	return s.mutate(customerID, nil, func(repo *repository.GormCartRepository, cart *models.Cart) error {
		if err := repo.ClearItems(cart.ID); err != nil {
			return err
		}
		return repo.CreateItem(&models.CartItem{
			CartID:           cart.ID,
			ProductVariantID: resolved.Variant.ID,
			OptionType:       resolved.Option.Type(),
			OptionID:         resolved.Option.ID(),
			Quantity:         quantity,
			PriceAtAddition:  resolved.Variant.FinalPrice.MulQty(quantity),
		})
	})
}

// mutate 在行锁事务内执行变更并递增版本号，返回对账后的购物车；
// 版本冲突时同时返回当前购物车与 ErrCartVersionConflict
func (s *CartService) mutate(customerID uint, baseVersion *int64, fn func(repo *repository.GormCartRepository, cart *models.Cart) error) (*CartView, error) {
	if _, err := s.cartRepo.Ensure(customerID); err != nil {
		return nil, err
	}
	txErr := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.cartRepo.WithTx(tx)
		cart, err := repo.LockByCustomer(customerID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrNotFound
		}
		if baseVersion != nil && *baseVersion != cart.Version {
			return ErrCartVersionConflict
		}
		if err := fn(repo, cart); err != nil {
			return err
		}
		updated, err := repo.BumpVersion(cart.ID, &cart.Version)
		if err != nil {
			return err
		}
		if !updated {
			return ErrCartVersionConflict
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrCartVersionConflict) {
			view, err := s.Fetch(customerID)
			if err != nil {
				return nil, err
			}
			logger.Infow("cart_version_conflict", "customer_id", customerID, "version", view.Cart.Version)
			return view, txErr
		}
		return nil, txErr
	}
	return s.Fetch(customerID)
}

func buildCartView(cart *models.Cart, items []models.CartItem) *CartView {
	view := &CartView{
		Cart: CartBody{
			ID:      cart.ID,
			Version: cart.Version,
			Items:   make([]models.CartItem, 0, len(items)),
		},
	}
	grand := models.Money{}
	sub := models.Money{}
	for _, item := range items {
		variant := item.ProductVariant
		if variant == nil || !variant.IsActive {
			continue
		}
		if variant.Product != nil && !variant.Product.IsActive {
			continue
		}
		view.Cart.Items = append(view.Cart.Items, item)
		view.Summary.CartItemsCount += item.Quantity
		grand = grand.Add(variant.FinalPrice.MulQty(item.Quantity))
		sub = sub.Add(variant.MRP.MulQty(item.Quantity))
	}
	view.Summary.GrandTotal = grand
	view.Summary.SubTotal = sub
	view.Summary.TotalDiscount = sub.SubFloor(grand)
	return view
}

func normalizeAddQuantity(quantity int) (int, error) {
	if quantity < 0 {
		return 0, ErrInvalidQuantity
	}
	if quantity == 0 {
		return 1, nil
	}
	return quantity, nil
}

func nextQuantity(current int, action string) int {
	switch action {
	case constants.CartActionIncrement:
		return current + 1
	case constants.CartActionDecrement:
		if current <= 1 {
			return 1
		}
		return current - 1
	default:
		return current
	}
}

// checkStock stock 为 0 表示不限库存
func checkStock(variant *models.ProductVariant, quantity int) error {
	if variant == nil {
		return ErrVariantNotFound
	}
	if variant.Stock > 0 && quantity > variant.Stock {
		return ErrStockInsufficient
	}
	return nil
}
