package domain

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID             string   `gorm:"primaryKey;type:uuid"`
	StoreID        string   `gorm:"column:store_id;not null"`
	Name           string   `gorm:"column:name;not null"`
	PriceCents     int64    `gorm:"column:price_cents"`
	CommissionRate *float64 `gorm:"column:commission_rate"` // percent override, nil = use store default
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
