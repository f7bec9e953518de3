package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{
		DB: db,
	}
}

func (r *ScoreRepository) FindByConsultant(ctx context.Context, consultantID string) (domain.ConsultantScore, error) {
	var score domain.ConsultantScore

	err := r.DB.WithContext(ctx).Where("consultant_id = ?", consultantID).First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ConsultantScore{}, apperr.NotFound("score not found")
		}
		return domain.ConsultantScore{}, err
	}

	return score, nil
}

// Upsert overwrites the consultant's score row. One row per consultant,
// never appended.
func (r *ScoreRepository) Upsert(ctx context.Context, score *domain.ConsultantScore) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "consultant_id"}},
		UpdateAll: true,
	}).Create(&score).Error
}

// Rank returns the consultant's percentile label among all stored scores,
// total_score descending.
func (r *ScoreRepository) Rank(ctx context.Context, consultantID string) (string, error) {
	var position int64
	err := r.DB.WithContext(ctx).Model(&domain.ConsultantScore{}).
		Where("total_score > (?)",
			r.DB.Model(&domain.ConsultantScore{}).
				Select("total_score").
				Where("consultant_id = ?", consultantID),
		).
		Count(&position).Error
	if err != nil {
		return "", err
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&domain.ConsultantScore{}).Count(&total).Error; err != nil {
		return "", err
	}

	if total == 0 {
		return "N/A", nil
	}

	percentile := int(math.Ceil(float64(position+1) / float64(total) * 100))
	return fmt.Sprintf("Top %d%%", percentile), nil
}

// RefreshRanks recomputes the rank label for every stored score in one
// statement, after a bulk recalculation.
func (r *ScoreRepository) RefreshRanks(ctx context.Context) error {
	return r.DB.WithContext(ctx).Exec(`
		UPDATE consultant_scores cs
		SET rank = sub.label
		FROM (
			SELECT consultant_id,
			       'Top ' || CEIL(100.0 * RANK() OVER (ORDER BY total_score DESC) / COUNT(*) OVER ()) || '%' AS label
			FROM consultant_scores
		) sub
		WHERE cs.consultant_id = sub.consultant_id
	`).Error
}

func (r *ScoreRepository) FindAll(ctx context.Context) ([]domain.ConsultantScore, error) {
	var scores []domain.ConsultantScore

	if err := r.DB.WithContext(ctx).Find(&scores).Error; err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *ScoreRepository) Top(ctx context.Context, limit int) ([]domain.ConsultantScore, error) {
	var scores []domain.ConsultantScore

	err := r.DB.WithContext(ctx).Order("total_score desc").Limit(limit).Find(&scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}
