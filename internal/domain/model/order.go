package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID string `gorm:"primaryKey;type:varchar(36)" json:"order_id"`
	// OrderNo 格式 ORD-YYYYMMDD-NNNNN, 每日流水號
	OrderNo    string      `gorm:"not null;uniqueIndex;type:varchar(30)" json:"order_no"`
	UserID     int         `gorm:"not null;index" json:"user_id"` // 外鍵，關聯到 User
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	Status     OrderStatus `gorm:"not null;type:varchar(20);default:'pending';index" json:"status"`

	ShippingAddress ShippingAddress  `gorm:"embedded;embeddedPrefix:addr_" json:"shipping_address"`
	Payment         PaymentInfo      `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Shipping        ShippingInfo     `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Cancellation    CancellationInfo `gorm:"embedded;embeddedPrefix:cancel_" json:"cancellation"`

	ItemsPrice     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"items_price"`
	ShippingPrice  decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"shipping_price"`
	DiscountAmount decimal.Decimal `gorm:"not null;type:decimal(12,2);default:0" json:"discount_amount"`
	TotalPrice     decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total_price"`

	// 付款成功後只從購物車移除OrderedProductIDs, 之後才加入的商品要保留
	FromCart          bool     `gorm:"not null;default:false" json:"from_cart"`
	OrderedProductIDs []string `gorm:"serializer:json;type:jsonb" json:"ordered_product_ids"`
	OrderDate         time.Time `gorm:"not null" json:"order_date"`
	BaseModel
}

// OrderItem 下單當下的商品快照, 建立後不再隨商品異動
type OrderItem struct {
	OrderID     string          `gorm:"primaryKey;type:varchar(36)" json:"order_id"`
	ProductID   string          `gorm:"primaryKey;type:varchar(36)" json:"product_id"`
	ProductName string          `gorm:"not null;type:varchar(100)" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	ImageURL    string          `gorm:"type:varchar(255)" json:"image_url"`
	BaseModel
}

type ShippingAddress struct {
	Recipient    string `gorm:"type:varchar(50)" json:"recipient"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	PostalCode   string `gorm:"type:varchar(10)" json:"postal_code"`
	Address      string `gorm:"type:varchar(255)" json:"address"`
	AddressDetail string `gorm:"type:varchar(255)" json:"address_detail"`
	DeliveryNote string `gorm:"type:varchar(255)" json:"delivery_note"`
}

type PaymentInfo struct {
	Method        PaymentMethod `gorm:"type:varchar(20)" json:"method"`
	Status        PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	TransactionID string        `gorm:"type:varchar(100);index" json:"transaction_id"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	VerifiedAt    *time.Time    `json:"verified_at,omitempty"`
	PGProvider    string        `gorm:"type:varchar(50)" json:"pg_provider,omitempty"`
	ReceiptURL    string        `gorm:"type:varchar(255)" json:"receipt_url,omitempty"`
}

// ShippingInfo 進入shipped/delivered後才寫入
type ShippingInfo struct {
	Courier     string     `gorm:"type:varchar(50)" json:"courier,omitempty"`
	TrackingNo  string     `gorm:"type:varchar(100)" json:"tracking_no,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// CancellationInfo 取消/退款時才寫入
type CancellationInfo struct {
	Reason       string          `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"refund_amount"`
	RefundedAt   *time.Time      `json:"refunded_at,omitempty"`
}
