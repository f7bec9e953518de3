package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleConsultant = "consultant"
	RoleStoreOwner = "store_owner"
	RoleAdmin      = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	FullName     string `gorm:"column:full_name;not null"`
	Email        string `gorm:"column:email;unique;not null"`
	Password     string `gorm:"column:password;not null" json:"-"`
	Role         string `gorm:"column:role;default:consultant"`
	Active       bool   `gorm:"column:active;default:true"`
	Auth0ID      string `gorm:"column:auth0_id"`
	ConsultantID string `gorm:"column:consultant_id"`
	StoreID      string `gorm:"column:store_id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
