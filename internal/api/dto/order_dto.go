package dto

import (
	"time"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
)

type ShippingAddressDTO struct {
	Recipient     string `json:"recipient"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postal_code"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	DeliveryNote  string `json:"delivery_note"`
}

type BuyNowItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderDTO struct {
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	UseCart         bool               `json:"use_cart"`
	SelectedItems   []string           `json:"selected_items,omitempty"`
	Items           []BuyNowItemDTO    `json:"items,omitempty"`
}

type PayOrderDTO struct {
	TransactionID string `json:"transaction_id"`
}

type CancelOrderDTO struct {
	Reason string `json:"reason,omitempty"`
}

type UpdateOrderStatusDTO struct {
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Courier    string `json:"courier,omitempty"`
	TrackingNo string `json:"tracking_no,omitempty"`
}

type OrderItemDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	ImageURL    string `json:"image_url,omitempty"`
}

type PaymentDTO struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	PGProvider    string     `json:"pg_provider,omitempty"`
	ReceiptURL    string     `json:"receipt_url,omitempty"`
}

type ShippingDTO struct {
	Courier     string     `json:"courier,omitempty"`
	TrackingNo  string     `json:"tracking_no,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

type CancellationDTO struct {
	Reason       string     `json:"reason,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	RefundAmount string     `json:"refund_amount,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
}

type OrderDTO struct {
	OrderID         string             `json:"order_id"`
	OrderNo         string             `json:"order_no"`
	UserID          int                `json:"user_id"`
	Status          string             `json:"status"`
	Items           []OrderItemDTO     `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shipping_address"`
	Payment         PaymentDTO         `json:"payment"`
	Shipping        *ShippingDTO       `json:"shipping,omitempty"`
	Cancellation    *CancellationDTO   `json:"cancellation,omitempty"`
	ItemsPrice      string             `json:"items_price"`
	ShippingPrice   string             `json:"shipping_price"`
	DiscountAmount  string             `json:"discount_amount"`
	TotalPrice      string             `json:"total_price"`
	OrderDate       time.Time          `json:"order_date"`
}

// ConvertOrderModelToDTO 將 Order model 轉換為傳輸對象
// 金額以字串輸出避免浮點誤差
func ConvertOrderModelToDTO(order *model.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.String(),
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
	}

	dto := OrderDTO{
		OrderID: order.OrderID,
		OrderNo: order.OrderNo,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Items:   items,
		ShippingAddress: ShippingAddressDTO{
			Recipient:     order.ShippingAddress.Recipient,
			Phone:         order.ShippingAddress.Phone,
			PostalCode:    order.ShippingAddress.PostalCode,
			Address:       order.ShippingAddress.Address,
			AddressDetail: order.ShippingAddress.AddressDetail,
			DeliveryNote:  order.ShippingAddress.DeliveryNote,
		},
		Payment: PaymentDTO{
			Method:        string(order.Payment.Method),
			Status:        string(order.Payment.Status),
			TransactionID: order.Payment.TransactionID,
			PaidAt:        order.Payment.PaidAt,
			VerifiedAt:    order.Payment.VerifiedAt,
			PGProvider:    order.Payment.PGProvider,
			ReceiptURL:    order.Payment.ReceiptURL,
		},
		ItemsPrice:     order.ItemsPrice.String(),
		ShippingPrice:  order.ShippingPrice.String(),
		DiscountAmount: order.DiscountAmount.String(),
		TotalPrice:     order.TotalPrice.String(),
		OrderDate:      order.OrderDate,
	}

	if order.Shipping.ShippedAt != nil || order.Shipping.DeliveredAt != nil {
		dto.Shipping = &ShippingDTO{
			Courier:     order.Shipping.Courier,
			TrackingNo:  order.Shipping.TrackingNo,
			ShippedAt:   order.Shipping.ShippedAt,
			DeliveredAt: order.Shipping.DeliveredAt,
		}
	}
	if order.Cancellation.CancelledAt != nil || order.Cancellation.RefundedAt != nil {
		dto.Cancellation = &CancellationDTO{
			Reason:       order.Cancellation.Reason,
			CancelledAt:  order.Cancellation.CancelledAt,
			RefundAmount: order.Cancellation.RefundAmount.String(),
			RefundedAt:   order.Cancellation.RefundedAt,
		}
	}
	return dto
}
