package service

import (
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"
)

// GiftCardService 礼品卡服务
type GiftCardService struct {
	giftCardRepo repository.GiftCardRepository
}

// NewGiftCardService 创建礼品卡服务
func NewGiftCardService(giftCardRepo repository.GiftCardRepository) *GiftCardService {
	return &GiftCardService{giftCardRepo: giftCardRepo}
}

// GiftApplication 礼品卡试用结果
type GiftApplication struct {
	GiftCardID uint         `json:"gift_card_id"`
	Code       string       `json:"code"`
	Value      models.Money `json:"value"`
}

// ApplyGift 校验礼品卡可用于当前订单金额；面额不得超过订单金额
func (s *GiftCardService) ApplyGift(code string, orderValue models.Money) (*GiftApplication, error) {
	card, err := s.loadUsable(code)
	if err != nil {
		return nil, err
	}
	if card.Value.Decimal.GreaterThan(orderValue.Decimal) {
		return nil, ErrGiftCardExceedsOrder
	}
	return &GiftApplication{
		GiftCardID: card.ID,
		Code:       card.Code,
		Value:      card.Value,
	}, nil
}

func (s *GiftCardService) loadUsable(code string) (*models.GiftCard, error) {
	normalized := normalizeGiftCardCode(code)
	if normalized == "" {
		return nil, ErrGiftCardCodeRequired
	}
	card, err := s.giftCardRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrGiftCardNotFound
	}
	switch card.Status {
	case constants.GiftCardStatusActive:
	case constants.GiftCardStatusRedeemed, constants.GiftCardStatusReserved:
		return nil, ErrGiftCardRedeemed
	default:
		return nil, ErrGiftCardInactive
	}
	if card.ExpiresAt != nil && !card.ExpiresAt.After(time.Now()) {
		return nil, ErrGiftCardExpired
	}
	return card, nil
}

func normalizeGiftCardCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
