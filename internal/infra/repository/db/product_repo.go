package db

import (
	"context"
	"errors"

	"github.com/snspapa-cell/shoping-mall-demo-sub000/internal/domain/model"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create - 創建商品 db
func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// Read - 根據ID查詢商品
func (s *ProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Read - 批次查詢商品
func (s *ProductRepo) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&products).Error
	return products, err
}

var _ IProductRepository = (*ProductRepo)(nil)
