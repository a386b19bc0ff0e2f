package db

import (
	"context"
	"errors"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"gorm.io/gorm"
)

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單 db
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

// Read - 根據ID查詢訂單
// 查無資料回傳nil, nil 由service決定是否為錯誤
func (s *OrderRepo) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 根據金流交易序號查詢訂單, 重複付款防呆用
func (s *OrderRepo) GetOrderByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).First(&order, "payment_transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Read - 查詢用戶現存的pending訂單, 同一用戶同時間最多一筆
func (s *OrderRepo) GetPendingOrderByUserID(ctx context.Context, userID int) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ? AND status = ?", userID, model.OrderStatusPending).
		Order("created_at DESC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// 分頁查詢用戶訂單, status為空字串時不過濾
func (s *OrderRepo) GetOrdersByUserIDPaginated(ctx context.Context, userID int, status model.OrderStatus, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	offset := (page - 1) * pageSize
	query := s.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	// 計算總數
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分頁查詢
	err := query.Preload("OrderItems").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// Update - 更新訂單
func (s *OrderRepo) UpdateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

var _ IOrderRepository = (*OrderRepo)(nil)
