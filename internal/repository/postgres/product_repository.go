package postgres

import (
	"context"
	"errors"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.DB.WithContext(ctx).Create(&product).Error
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, apperr.NotFound("product not found")
		}
		return domain.Product{}, err
	}

	return product, nil
}

func (r *ProductRepository) FindByStore(ctx context.Context, storeID string) ([]domain.Product, error) {
	var products []domain.Product

	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at desc").Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result := r.DB.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", product.ID).
		Select("name", "price_cents", "commission_rate", "updated_at").
		Updates(product)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("product not found")
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("product not found")
	}

	return nil
}
