package db

import (
	"context"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
)

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrderByTransactionID(ctx context.Context, transactionID string) (*model.Order, error)
	GetPendingOrderByUserID(ctx context.Context, userID int) (*model.Order, error)
	GetOrdersByUserIDPaginated(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error)
	UpdateOrder(ctx context.Context, order *model.Order) error
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}
