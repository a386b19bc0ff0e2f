package model

// Cart 購物車只存在redis, 不落db
type Cart struct {
	UserID int        `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
