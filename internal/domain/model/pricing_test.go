package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func item(price int64, qty int) OrderItem {
	return OrderItem{UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func TestComputePricing_BelowFreeShippingThreshold(t *testing.T) {
	// 10000 * 2 = 20000, 未達免運門檻
	pricing := ComputePricing([]OrderItem{item(10000, 2)}, decimal.Zero)

	require.True(t, decimal.NewFromInt(20000).Equal(pricing.ItemsPrice))
	require.True(t, decimal.NewFromInt(3000).Equal(pricing.ShippingPrice))
	require.True(t, decimal.NewFromInt(23000).Equal(pricing.TotalPrice))
}

func TestComputePricing_FreeShippingAtThreshold(t *testing.T) {
	// 剛好 50000 即免運
	pricing := ComputePricing([]OrderItem{item(50000, 1)}, decimal.Zero)

	require.True(t, pricing.ShippingPrice.IsZero())
	require.True(t, decimal.NewFromInt(50000).Equal(pricing.TotalPrice))
}

func TestComputePricing_FreeShippingAboveThreshold(t *testing.T) {
	pricing := ComputePricing([]OrderItem{item(60000, 1)}, decimal.Zero)

	require.True(t, pricing.ShippingPrice.IsZero())
	require.True(t, decimal.NewFromInt(60000).Equal(pricing.TotalPrice))
}

func TestComputePricing_MultipleItems(t *testing.T) {
	items := []OrderItem{
		item(12000, 2), // 24000
		item(8000, 3),  // 24000
	}
	pricing := ComputePricing(items, decimal.Zero)

	require.True(t, decimal.NewFromInt(48000).Equal(pricing.ItemsPrice))
	require.True(t, decimal.NewFromInt(3000).Equal(pricing.ShippingPrice))
	require.True(t, decimal.NewFromInt(51000).Equal(pricing.TotalPrice))
}

func TestComputePricing_DiscountApplied(t *testing.T) {
	pricing := ComputePricing([]OrderItem{item(10000, 1)}, decimal.NewFromInt(2000))

	require.True(t, decimal.NewFromInt(2000).Equal(pricing.DiscountAmount))
	// 10000 + 3000 - 2000
	require.True(t, decimal.NewFromInt(11000).Equal(pricing.TotalPrice))
}

func TestComputePricing_TotalFloorsAtZero(t *testing.T) {
	// 折扣超過應付金額時總價為0, 不得為負
	pricing := ComputePricing([]OrderItem{item(1000, 1)}, decimal.NewFromInt(99999))

	require.True(t, pricing.TotalPrice.IsZero())
}

func TestComputePricing_EmptyItems(t *testing.T) {
	pricing := ComputePricing(nil, decimal.Zero)

	require.True(t, pricing.ItemsPrice.IsZero())
	require.True(t, decimal.NewFromInt(3000).Equal(pricing.ShippingPrice))
	require.True(t, decimal.NewFromInt(3000).Equal(pricing.TotalPrice))
}
