package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rimae/rimae-backend/internal/cart"
	"github.com/rimae/rimae-backend/internal/pricing"
)

type cartResponse struct {
	SessionID    string                  `json:"session_id,omitempty"`
	Items        []cartItemResponse      `json:"items"`
	DiscountInfo discountSummaryResponse `json:"discount_info"`
	Coupon       *couponResultResponse   `json:"coupon,omitempty"`
	ItemCount    int                     `json:"item_count"`
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Total        decimal.Decimal         `json:"total"`
	UpdatedAt    *time.Time              `json:"updated_at,omitempty"`
}

type cartItemResponse struct {
	ProductID    string          `json:"product_id"`
	Size         string          `json:"size"`
	Name         string          `json:"name,omitempty"`
	Image        string          `json:"image,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	PaidQuantity int             `json:"paid_quantity"`
	FreeQuantity int             `json:"free_quantity"`
	IsFree       bool            `json:"is_free"`
	LineOriginal decimal.Decimal `json:"line_original"`
	LinePayable  decimal.Decimal `json:"line_payable"`
}

type discountSummaryResponse struct {
	TotalOriginal      decimal.Decimal `json:"total_original"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
	FreeItemsCount     int             `json:"free_items_count"`
	DiscountPercentage int64           `json:"discount_percentage"`
}

type couponResultResponse struct {
	Code            string          `json:"code"`
	Applied         bool            `json:"applied"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	Reason          string          `json:"reason,omitempty"`
	Message         string          `json:"message,omitempty"`
}

func newCartResponse(sessionID string, view cart.View) cartResponse {
	resp := cartResponse{
		SessionID: sessionID,
		Items:     make([]cartItemResponse, 0, len(view.Items)),
		DiscountInfo: discountSummaryResponse{
			TotalOriginal:      view.DiscountInfo.TotalOriginal,
			TotalDiscount:      view.DiscountInfo.TotalDiscount,
			TotalPayable:       view.DiscountInfo.TotalPayable,
			FreeItemsCount:     view.DiscountInfo.FreeItemsCount,
			DiscountPercentage: view.DiscountInfo.DiscountPercentage,
		},
		ItemCount: view.ItemCount,
		Subtotal:  view.Subtotal,
		Total:     view.Total,
	}
	for _, item := range view.Items {
		resp.Items = append(resp.Items, newCartItemResponse(item))
	}
	if view.Coupon != nil {
		resp.Coupon = &couponResultResponse{
			Code:            view.Coupon.Code,
			Applied:         view.Coupon.Applied,
			DiscountApplied: view.Coupon.DiscountApplied,
			Reason:          view.Coupon.Reason.String(),
			Message:         view.Coupon.Message,
		}
	}
	if !view.UpdatedAt.IsZero() {
		updated := view.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func newCartItemResponse(item pricing.LineAllocation) cartItemResponse {
	return cartItemResponse{
		ProductID:    item.ProductID,
		Size:         item.VariantKey,
		Name:         item.Name,
		Image:        item.Image,
		UnitPrice:    item.UnitPrice,
		Quantity:     item.Quantity,
		PaidQuantity: item.PaidQuantity,
		FreeQuantity: item.FreeQuantity,
		IsFree:       item.IsFree,
		LineOriginal: item.LineOriginal,
		LinePayable:  item.LinePayable,
	}
}
