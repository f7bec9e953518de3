package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	StripeAccountNone       = "none"
	StripeAccountPending    = "pending"
	StripeAccountActive     = "active"
	StripeAccountRestricted = "restricted"
)

type Consultant struct {
	ID                  string `gorm:"primaryKey;type:uuid"`
	FullName            string `gorm:"column:full_name;not null"`
	Email               string `gorm:"column:email;unique;not null"`
	Phone               string `gorm:"column:phone"`
	TaxID               string `gorm:"column:tax_id;unique;not null"`
	City                string `gorm:"column:city"`
	State               string `gorm:"column:state"`
	Active              bool   `gorm:"column:active;default:true"`
	StripeAccountID     string `gorm:"column:stripe_account_id"`
	StripeAccountStatus string `gorm:"column:stripe_account_status;default:none"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Consultant) TableName() string {
	return "consultants"
}

// HasActiveSettlementAccount reports whether transfers can be sent to this
// consultant.
func (c Consultant) HasActiveSettlementAccount() bool {
	return c.StripeAccountID != "" && c.StripeAccountStatus == StripeAccountActive
}
