package domain

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	ID                    string   `gorm:"primaryKey;type:uuid"`
	Name                  string   `gorm:"column:name;not null"`
	Email                 string   `gorm:"column:email;unique;not null"`
	TaxID                 string   `gorm:"column:tax_id;unique;not null"`
	DefaultCommissionRate *float64 `gorm:"column:default_commission_rate"`
	Active                bool     `gorm:"column:active;default:true"`
	FailedPaymentAttempts int      `gorm:"column:failed_payment_attempts;default:0"`
	SuspendedForPayments  bool     `gorm:"column:suspended_for_payments;default:false"`
	LastPaymentAt         *time.Time
	StripeAccountID       string `gorm:"column:stripe_account_id"`
	StripeAccountStatus   string `gorm:"column:stripe_account_status;default:none"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

func (s Store) HasActiveSettlementAccount() bool {
	return s.StripeAccountID != "" && s.StripeAccountStatus == StripeAccountActive
}
