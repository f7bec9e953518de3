package postgres

import (
	"context"
	"errors"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"gorm.io/gorm"
)

type ConsultantRepository struct {
	DB *gorm.DB
}

func NewConsultantRepository(db *gorm.DB) *ConsultantRepository {
	return &ConsultantRepository{
		DB: db,
	}
}

func (r *ConsultantRepository) Create(ctx context.Context, consultant *domain.Consultant) error {
	if err := r.DB.WithContext(ctx).Create(&consultant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("consultant with this tax id or email already registered")
		}
		return err
	}

	return nil
}

func (r *ConsultantRepository) FindByID(ctx context.Context, id string) (domain.Consultant, error) {
	var consultant domain.Consultant

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&consultant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Consultant{}, apperr.NotFound("consultant not found")
		}
		return domain.Consultant{}, err
	}

	return consultant, nil
}

func (r *ConsultantRepository) FindByTaxID(ctx context.Context, taxID string) (domain.Consultant, error) {
	var consultant domain.Consultant

	err := r.DB.WithContext(ctx).Where("tax_id = ?", taxID).First(&consultant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Consultant{}, apperr.NotFound("consultant not found")
		}
		return domain.Consultant{}, err
	}

	return consultant, nil
}

func (r *ConsultantRepository) FindAll(ctx context.Context) ([]domain.Consultant, error) {
	var consultants []domain.Consultant

	if err := r.DB.WithContext(ctx).Find(&consultants).Error; err != nil {
		return nil, err
	}

	return consultants, nil
}

// FindActiveIDs returns the ids of all active consultants, for the batch
// recalculation pass.
func (r *ConsultantRepository) FindActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.DB.WithContext(ctx).Model(&domain.Consultant{}).
		Where("active = ?", true).
		Order("created_at asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *ConsultantRepository) Update(ctx context.Context, consultant *domain.Consultant) error {
	result := r.DB.WithContext(ctx).Model(&domain.Consultant{}).
		Where("id = ?", consultant.ID).
		Select("full_name", "phone", "city", "state", "updated_at").
		Updates(consultant)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("consultant not found")
	}

	return nil
}

func (r *ConsultantRepository) UpdateStripeAccount(ctx context.Context, id, accountID, status string) error {
	result := r.DB.WithContext(ctx).Model(&domain.Consultant{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stripe_account_id":     accountID,
			"stripe_account_status": status,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("consultant not found")
	}

	return nil
}

// UpdateStripeAccountStatus resolves the consultant by connected-account id,
// for account.updated webhook events.
func (r *ConsultantRepository) UpdateStripeAccountStatus(ctx context.Context, accountID, status string) error {
	return r.DB.WithContext(ctx).Model(&domain.Consultant{}).
		Where("stripe_account_id = ?", accountID).
		Update("stripe_account_status", status).Error
}

func (r *ConsultantRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.DB.WithContext(ctx).Model(&domain.Consultant{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("consultant not found")
	}

	return nil
}

func (r *ConsultantRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Consultant{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperr.NotFound("consultant not found")
	}

	return nil
}

func (r *ConsultantRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Consultant{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *ConsultantRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Consultant{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}
