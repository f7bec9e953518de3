package postgres

import (
	"context"

	"comprasmart/domain"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		DB: db,
	}
}

func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	return r.DB.WithContext(ctx).Create(&rating).Error
}

func (r *RatingRepository) FindByConsultant(ctx context.Context, consultantID string) ([]domain.Rating, error) {
	var ratings []domain.Rating

	err := r.DB.WithContext(ctx).Where("consultant_id = ?", consultantID).Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	return ratings, nil
}
