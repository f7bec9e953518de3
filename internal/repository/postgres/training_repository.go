package postgres

import (
	"context"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type TrainingRepository struct {
	DB *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) *TrainingRepository {
	return &TrainingRepository{
		DB: db,
	}
}

func (r *TrainingRepository) Create(ctx context.Context, training *domain.ConsultantTraining) error {
	return r.DB.WithContext(ctx).Create(&training).Error
}

func (r *TrainingRepository) FindByConsultant(ctx context.Context, consultantID string) ([]domain.ConsultantTraining, error) {
	var trainings []domain.ConsultantTraining

	err := r.DB.WithContext(ctx).Where("consultant_id = ?", consultantID).Find(&trainings).Error
	if err != nil {
		return nil, err
	}

	return trainings, nil
}

func (r *TrainingRepository) MarkCompleted(ctx context.Context, id string) error {
	now := time.Now()
	result := r.DB.WithContext(ctx).Model(&domain.ConsultantTraining{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"completed":    true,
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("training not found")
	}

	return nil
}
