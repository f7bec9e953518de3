package postgres

import (
	"context"
	"errors"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type StoreRepository struct {
	DB *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{
		DB: db,
	}
}

func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	if err := r.DB.WithContext(ctx).Create(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("store with this tax id or email already registered")
		}
		return err
	}

	return nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id string) (domain.Store, error) {
	var store domain.Store

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Store{}, apperr.NotFound("store not found")
		}
		return domain.Store{}, err
	}

	return store, nil
}

func (r *StoreRepository) FindAll(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store

	if err := r.DB.WithContext(ctx).Find(&stores).Error; err != nil {
		return nil, err
	}

	return stores, nil
}

func (r *StoreRepository) Update(ctx context.Context, store *domain.Store) error {
	result := r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", store.ID).
		Select("name", "default_commission_rate", "updated_at").
		Updates(store)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("store not found")
	}

	return nil
}

func (r *StoreRepository) UpdateStripeAccount(ctx context.Context, id, accountID, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stripe_account_id":     accountID,
			"stripe_account_status": status,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("store not found")
	}

	return nil
}

func (r *StoreRepository) UpdateStripeAccountStatus(ctx context.Context, accountID, status string) error {
	return r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("stripe_account_id = ?", accountID).
		Update("stripe_account_status", status).Error
}

// RecordFailedPayment bumps the failure counter and returns the new count.
func (r *StoreRepository) RecordFailedPayment(ctx context.Context, id string) (int, error) {
	err := r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Update("failed_payment_attempts", gorm.Expr("failed_payment_attempts + 1")).Error
	if err != nil {
		return 0, err
	}

	var store domain.Store
	if err := r.DB.WithContext(ctx).Select("failed_payment_attempts").Where("id = ?", id).First(&store).Error; err != nil {
		return 0, err
	}

	return store.FailedPaymentAttempts, nil
}

// RecordSuccessfulPayment resets the failure counter. A store suspended by
// the failure counter is reactivated; an explicit admin suspension stays.
func (r *StoreRepository) RecordSuccessfulPayment(ctx context.Context, id string) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"failed_payment_attempts": 0,
			"last_payment_at":         now,
			"active":                  gorm.Expr("active OR suspended_for_payments"),
			"suspended_for_payments":  false,
		}).Error
}

// SuspendForPayments deactivates the store and marks the suspension as
// payment-driven so the next successful payment can lift it.
func (r *StoreRepository) SuspendForPayments(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":                 false,
			"suspended_for_payments": true,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("store not found")
	}

	return nil
}

// SetActive is the admin switch. It clears any payment-driven suspension
// marker in both directions so the admin decision is authoritative.
func (r *StoreRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":                 active,
			"suspended_for_payments": false,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("store not found")
	}

	return nil
}
