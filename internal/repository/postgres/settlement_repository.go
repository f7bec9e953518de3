package postgres

import (
	"context"
	"errors"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type SettlementRepository struct {
	DB *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{
		DB: db,
	}
}

func (r *SettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	if err := r.DB.WithContext(ctx).Create(&settlement).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("settlement already exists for payment intent")
		}
		return err
	}

	return nil
}

func (r *SettlementRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (domain.Settlement, error) {
	var settlement domain.Settlement

	err := r.DB.WithContext(ctx).Where("payment_intent_id = ?", paymentIntentID).First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Settlement{}, apperr.NotFound("settlement not found for payment intent")
		}
		return domain.Settlement{}, err
	}

	return settlement, nil
}

// MarkTransferred stamps the settlement exactly once. The transferred_at IS
// NULL guard makes a replayed confirmation lose the race cleanly.
func (r *SettlementRepository) MarkTransferred(ctx context.Context, paymentIntentID, consultantTransferID, storeTransferID, manualReviewReason string) error {
	now := time.Now()
	result := r.DB.WithContext(ctx).Model(&domain.Settlement{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Where("transferred_at IS NULL").
		Updates(map[string]any{
			"transferred_at":         now,
			"consultant_transfer_id": consultantTransferID,
			"store_transfer_id":      storeTransferID,
			"manual_review_reason":   manualReviewReason,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.Conflict("settlement already transferred")
	}

	return nil
}

func (r *SettlementRepository) FlagManualReview(ctx context.Context, paymentIntentID, reason string) error {
	return r.DB.WithContext(ctx).Model(&domain.Settlement{}).
		Where("payment_intent_id = ?", paymentIntentID).
		Update("manual_review_reason", reason).Error
}
