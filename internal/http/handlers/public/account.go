package public

import (
	"errors"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 新增地址请求
type AddressRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"is_default"`
}

// WishlistRequest 收藏请求
type WishlistRequest struct {
	ProductVariantID uint `json:"product_variant_id" binding:"required"`
}

// ReviewRequest 评价请求
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrReviewExists, code: response.CodeConflict, key: "error.review_exists"},
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest, key: "error.review_rating_invalid"},
}

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.List(customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.address_fetch_failed", err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, err := h.AddressService.Create(customerID, service.AddressInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "error.address_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.address_create_failed", err)
		return
	}
	response.Success(c, address)
}

// ListWishlist 收藏列表
func (h *Handler) ListWishlist(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	items, err := h.WishlistService.List(customerID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.wishlist_failed", err)
		return
	}
	response.Success(c, items)
}

// AddWishlist 加入收藏
func (h *Handler) AddWishlist(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items, err := h.WishlistService.Add(customerID, req.ProductVariantID)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			respondError(c, response.CodeNotFound, "error.variant_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.wishlist_failed", err)
		return
	}
	response.Success(c, items)
}

// RemoveWishlist 取消收藏
func (h *Handler) RemoveWishlist(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	variantID, ok := parseUintParam(c, "variant_id")
	if !ok {
		return
	}
	items, err := h.WishlistService.Remove(customerID, variantID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.wishlist_failed", err)
		return
	}
	response.Success(c, items)
}

// GetProductReviews 商品评价列表
func (h *Handler) GetProductReviews(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)
	reviews, total, err := h.ReviewService.ListByProduct(c.Param("slug"), page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_failed")
		return
	}
	response.SuccessWithPage(c, reviews, response.BuildPagination(page, pageSize, total))
}

// CreateProductReview 发表评价
func (h *Handler) CreateProductReview(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_rating_invalid", nil)
		return
	}
	review, err := h.ReviewService.Create(customerID, c.Param("slug"), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_failed")
		return
	}
	response.Success(c, review)
}

// ListNotifications 站内通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ReadPagination(c)
	notifications, total, err := h.NotificationService.List(customerID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.notification_failed", err)
		return
	}
	response.SuccessWithPage(c, notifications, response.BuildPagination(page, pageSize, total))
}

// MarkNotificationRead 标记通知已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	notificationID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.MarkRead(customerID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			respondError(c, response.CodeNotFound, "error.notification_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.notification_failed", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}
