package model

import (
	"github.com/shopspring/decimal"
)

// 滿額免運門檻與基本運費(KRW)
var (
	FreeShippingThreshold = decimal.NewFromInt(50000)
	BaseShippingFee       = decimal.NewFromInt(3000)
)

type Pricing struct {
	ItemsPrice     decimal.Decimal `json:"items_price"`
	ShippingPrice  decimal.Decimal `json:"shipping_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

/*
ComputePricing 計算訂單金額

	items_price    = sum(unit_price * quantity)
	shipping_price = 0 若 items_price >= 50000, 否則 3000
	total_price    = items_price + shipping_price - discount, 最低為0
*/
func ComputePricing(items []OrderItem, discount decimal.Decimal) Pricing {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shippingPrice := BaseShippingFee
	if itemsPrice.GreaterThanOrEqual(FreeShippingThreshold) {
		shippingPrice = decimal.Zero
	}

	total := itemsPrice.Add(shippingPrice).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Pricing{
		ItemsPrice:     itemsPrice,
		ShippingPrice:  shippingPrice,
		DiscountAmount: discount,
		TotalPrice:     total,
	}
}
