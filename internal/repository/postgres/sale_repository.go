package postgres

import (
	"context"
	"errors"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type SaleRepository struct {
	DB *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{
		DB: db,
	}
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	return r.DB.WithContext(ctx).Create(&sale).Error
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (domain.Sale, error) {
	var sale domain.Sale

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Sale{}, apperr.NotFound("sale not found")
		}
		return domain.Sale{}, err
	}

	return sale, nil
}

func (r *SaleRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (domain.Sale, error) {
	var sale domain.Sale

	err := r.DB.WithContext(ctx).Where("stripe_payment_intent_id = ?", paymentIntentID).First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Sale{}, apperr.NotFound("sale not found for payment intent")
		}
		return domain.Sale{}, err
	}

	return sale, nil
}

func (r *SaleRepository) FindByStore(ctx context.Context, storeID string) ([]domain.Sale, error) {
	var sales []domain.Sale

	err := r.DB.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at desc").Find(&sales).Error
	if err != nil {
		return nil, err
	}

	return sales, nil
}

func (r *SaleRepository) FindByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error) {
	var sales []domain.Sale

	err := r.DB.WithContext(ctx).Where("consultant_id = ?", consultantID).Order("created_at desc").Find(&sales).Error
	if err != nil {
		return nil, err
	}

	return sales, nil
}

// CompletedByConsultant feeds the sales sub-score: paid sales only.
func (r *SaleRepository) CompletedByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error) {
	var sales []domain.Sale

	err := r.DB.WithContext(ctx).
		Where("consultant_id = ?", consultantID).
		Where("status = ?", domain.SalePaid).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	return sales, nil
}

// AttachPaymentIntent records the resolved split on the sale and moves it to
// awaiting_payment.
func (r *SaleRepository) AttachPaymentIntent(ctx context.Context, sale *domain.Sale) error {
	result := r.DB.WithContext(ctx).Model(&domain.Sale{}).
		Where("id = ?", sale.ID).
		Where("status = ?", domain.SalePending).
		Updates(map[string]any{
			"stripe_payment_intent_id": sale.StripePaymentIntentID,
			"commission_rate":          sale.CommissionRate,
			"commission_source":        sale.CommissionSource,
			"consultant_amount":        sale.ConsultantAmount,
			"store_gross_amount":       sale.StoreGrossAmount,
			"status":                   domain.SaleAwaitingPayment,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.Conflict("sale is not pending")
	}

	return nil
}

// Transition moves a sale between payment states and enforces the legal
// source state in the same statement.
func (r *SaleRepository) Transition(ctx context.Context, id, from, to string) error {
	updates := map[string]any{"status": to}
	now := time.Now()
	switch to {
	case domain.SalePaid:
		updates["paid_at"] = now
	case domain.SaleCanceled:
		updates["canceled_at"] = now
	}

	result := r.DB.WithContext(ctx).Model(&domain.Sale{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.Conflict("sale is not in state %q", from)
	}

	return nil
}
