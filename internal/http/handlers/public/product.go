package public

import (
	"errors"
	"strings"

	handlershared "github.com/aurelia-jewels/storefront/internal/http/handlers/shared"
	"github.com/aurelia-jewels/storefront/internal/http/response"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductDetailResponse 商品详情，display_prices 为所选币种下各款式售价
type ProductDetailResponse struct {
	*models.Product
	DisplayPrices map[uint]string `json:"display_prices,omitempty"`
}

// GetProducts 上架商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)

	products, total, err := h.ProductService.List(service.ProductListInput{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProductBySlug 商品详情，同时记录最近浏览
func (h *Handler) GetProductBySlug(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := service.Viewer{CustomerID: optionalCustomerID(c)}
	if viewer.CustomerID == 0 {
		viewer.GuestID = h.ensureGuestID(c)
	}
	product, err := h.ProductService.Detail(ctx, c.Param("slug"), viewer)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}

	resp := ProductDetailResponse{Product: product}
	if code := strings.TrimSpace(c.Query("currency")); code != "" {
		resp.DisplayPrices = make(map[uint]string, len(product.Variants))
		for _, variant := range product.Variants {
			display, err := h.CurrencyService.DisplayPrice(ctx, variant.FinalPrice, code)
			if err != nil {
				respondError(c, response.CodeInternal, "error.currency_fetch_failed", err)
				return
			}
			resp.DisplayPrices[variant.ID] = display
		}
	}
	response.Success(c, resp)
}

// GetRecentlyViewed 最近浏览商品
func (h *Handler) GetRecentlyViewed(c *gin.Context) {
	viewer := service.Viewer{CustomerID: optionalCustomerID(c), GuestID: h.readGuestID(c)}
	products, err := h.ProductService.RecentlyViewed(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, response.CodeInternal, "error.recently_viewed_failed", err)
		return
	}
	response.Success(c, products)
}

// GetCurrencies 启用的币种列表
func (h *Handler) GetCurrencies(c *gin.Context) {
	currencies, err := h.CurrencyService.List(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.currency_fetch_failed", err)
		return
	}
	response.Success(c, currencies)
}
